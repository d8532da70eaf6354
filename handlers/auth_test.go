// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/betdesk/models"
	"github.com/danielhkuo/betdesk/testutil"
)

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	testutil.CreateTestUser(t, s.db, "u1", "alice", "alice@example.com", "correct-horse")

	testCases := []struct {
		name     string
		body     interface{}
		expected int
	}{
		{"by username", models.LoginRequest{Username: "alice", Password: "correct-horse"}, http.StatusOK},
		{"by email", models.LoginRequest{Username: "alice@example.com", Password: "correct-horse"}, http.StatusOK},
		{"wrong password", models.LoginRequest{Username: "alice", Password: "wrong"}, http.StatusUnauthorized},
		{"unknown user", models.LoginRequest{Username: "mallory", Password: "correct-horse"}, http.StatusUnauthorized},
		{"missing password", models.LoginRequest{Username: "alice"}, http.StatusBadRequest},
		{"missing username", models.LoginRequest{Password: "correct-horse"}, http.StatusBadRequest},
		{"invalid JSON", "{not json", http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := s.do("POST", "/login", tc.body, nil)
			testutil.AssertStatus(t, w, tc.expected)
		})
	}
}

func TestLogin_ResponseShape(t *testing.T) {
	s := newTestServer(t)
	testutil.CreateTestUser(t, s.db, "u1", "alice", "alice@example.com", "pw")

	w := s.do("POST", "/login", models.LoginRequest{Username: "alice", Password: "pw"}, nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	raw := w.Body.String()
	if strings.Contains(raw, "$2a$") || strings.Contains(strings.ToLower(raw), "password") {
		t.Errorf("login response leaks credentials: %s", raw)
	}

	var resp models.LoginResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Token == "" {
		t.Error("Expected a token")
	}
	if resp.User.ID != "u1" || resp.User.UserName != "alice" || resp.User.Balance != 100.5 {
		t.Errorf("Unexpected user: %+v", resp.User)
	}

	claims, err := testutil.TokenService(t).Verify(resp.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Subject != "u1" || claims.Profile.Email != "alice@example.com" {
		t.Errorf("Unexpected claims: %+v", claims)
	}
}

func TestLogin_LongPasswordMustMatchExactly(t *testing.T) {
	s := newTestServer(t)
	password := strings.Repeat("a", 72)
	testutil.CreateTestUser(t, s.db, "u1", "alice", "a@b.com", password)

	w := s.do("POST", "/login", models.LoginRequest{Username: "alice", Password: password + "WRONG-SUFFIX"}, nil)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	w = s.do("POST", "/login", models.LoginRequest{Username: "alice", Password: password}, nil)
	testutil.AssertStatus(t, w, http.StatusOK)
}

func TestLogin_FailuresLookTheSame(t *testing.T) {
	s := newTestServer(t)
	testutil.CreateTestUser(t, s.db, "u1", "alice", "a@b.com", "pw")

	wrongPassword := s.do("POST", "/login", models.LoginRequest{Username: "alice", Password: "nope"}, nil)
	unknownUser := s.do("POST", "/login", models.LoginRequest{Username: "bob", Password: "nope"}, nil)

	if wrongPassword.Body.String() != unknownUser.Body.String() {
		t.Errorf("failure bodies differ:\n%s\n%s", wrongPassword.Body.String(), unknownUser.Body.String())
	}
}

func TestMe(t *testing.T) {
	s := newTestServer(t)
	testutil.CreateTestUser(t, s.db, "u1", "alice", "a@b.com", "pw")

	token, _, err := testutil.TokenService(t).Issue(models.Profile{ID: "u1", FullName: "Stale Name"}, 0)
	if err != nil {
		t.Fatal(err)
	}

	w := s.do("GET", "/me", nil, testutil.BearerHeader(token))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.MeResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.User.ID != "u1" || resp.User.FullName != "Test User" {
		t.Errorf("Expected current stored profile, got %+v", resp.User)
	}

	t.Run("deleted user", func(t *testing.T) {
		ghost, _, _ := testutil.TokenService(t).Issue(models.Profile{ID: "ghost"}, 0)
		w := s.do("GET", "/me", nil, testutil.BearerHeader(ghost))
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})

	t.Run("no token", func(t *testing.T) {
		w := s.do("GET", "/me", nil, nil)
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("called without the bearer gate", func(t *testing.T) {
		h := NewAuthHandler(s.db, s.cfg, testutil.TokenService(t), nil, testutil.Logger())
		w := httptest.NewRecorder()
		h.Me(w, testutil.MakeRequest("GET", "/me", nil, nil))
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})
}

func TestLogout(t *testing.T) {
	s := newTestServer(t)
	testutil.CreateTestUser(t, s.db, "u1", "alice", "a@b.com", "pw")

	w := s.do("POST", "/login", models.LoginRequest{Username: "alice", Password: "pw"}, nil)
	var login models.LoginResponse
	testutil.AssertJSON(t, w, &login)

	testutil.AssertStatus(t, s.do("GET", "/me", nil, testutil.BearerHeader(login.Token)), http.StatusOK)
	testutil.AssertStatus(t, s.do("POST", "/logout", nil, testutil.BearerHeader(login.Token)), http.StatusOK)

	if testutil.CountRows(t, s.db, "revoked_tokens") != 1 {
		t.Error("Expected token to be recorded as revoked")
	}

	testutil.AssertStatus(t, s.do("GET", "/me", nil, testutil.BearerHeader(login.Token)), http.StatusForbidden)
	testutil.AssertStatus(t, s.do("POST", "/logout", nil, testutil.BearerHeader(login.Token)), http.StatusForbidden)

	// A fresh login still works
	w = s.do("POST", "/login", models.LoginRequest{Username: "alice", Password: "pw"}, nil)
	testutil.AssertJSON(t, w, &login)
	testutil.AssertStatus(t, s.do("GET", "/me", nil, testutil.BearerHeader(login.Token)), http.StatusOK)
}
