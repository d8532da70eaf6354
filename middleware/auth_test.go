// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/danielhkuo/betdesk/auth"
	"github.com/danielhkuo/betdesk/models"
	"github.com/danielhkuo/betdesk/testutil"
)

// memRevoker is an in-memory Revoker for gate tests
type memRevoker struct {
	revoked map[string]bool
	err     error
}

func (m *memRevoker) Revoke(_ context.Context, jti string, _ time.Time) error {
	m.revoked[jti] = true
	return nil
}

func (m *memRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	return m.revoked[jti], m.err
}

func (m *memRevoker) Purge(context.Context) (int64, error) { return 0, nil }

func TestBearerToken(t *testing.T) {
	testCases := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"lowercase scheme", "bearer abc", "abc", false},
		{"missing", "", "", true},
		{"basic scheme", "Basic dXNlcjpwdw==", "", true},
		{"scheme only", "Bearer", "", true},
		{"empty token", "Bearer   ", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			got, err := BearerToken(req)
			if tc.wantErr {
				if !errors.Is(err, auth.ErrMissingToken) {
					t.Errorf("Expected ErrMissingToken, got %v", err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Errorf("BearerToken() = %q, %v; want %q", got, err, tc.want)
			}
		})
	}
}

func TestRequireBearer(t *testing.T) {
	tokens := testutil.TokenService(t)
	revoker := &memRevoker{revoked: map[string]bool{}}

	valid, claims, err := tokens.Issue(models.Profile{ID: "u1", UserName: "alice"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	revokedToken, revokedClaims, _ := tokens.Issue(models.Profile{ID: "u1"}, 0)
	revoker.Revoke(context.Background(), revokedClaims.RegisteredClaims.ID, revokedClaims.ExpiresAt.Time)

	other, _ := auth.NewTokenService("another-secret", time.Hour)
	forged, _, _ := other.Issue(models.Profile{ID: "u1"}, 0)

	core, logs := observer.New(zap.InfoLevel)

	var seen *auth.Claims
	handler := RequireBearer(tokens, revoker, zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	testCases := []struct {
		name     string
		header   string
		expected int
	}{
		{"valid token", "Bearer " + valid, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + valid, http.StatusUnauthorized},
		{"garbage", "Bearer not-a-jwt", http.StatusForbidden},
		{"wrong secret", "Bearer " + forged, http.StatusForbidden},
		{"revoked", "Bearer " + revokedToken, http.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest("GET", "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			testutil.AssertStatus(t, w, tc.expected)
			if tc.expected == http.StatusOK {
				if seen == nil || seen.Profile.ID != "u1" || seen.RegisteredClaims.ID != claims.RegisteredClaims.ID {
					t.Errorf("Expected claims for u1 in context, got %+v", seen)
				}
			} else if seen != nil {
				t.Error("Handler should not run for rejected requests")
			}
		})
	}

	for _, e := range logs.All() {
		for _, v := range e.ContextMap() {
			if s, ok := v.(string); ok && (strings.Contains(s, valid) || strings.Contains(s, forged)) {
				t.Error("token leaked into logs")
			}
		}
	}
	if n := logs.FilterField(zap.String("reason", "revoked")).Len(); n != 1 {
		t.Errorf("Expected 1 revoked log line, got %d", n)
	}
}

func TestRequireBearer_RevocationCheckFails(t *testing.T) {
	tokens := testutil.TokenService(t)
	token, _, _ := tokens.Issue(models.Profile{ID: "u1"}, 0)

	revoker := &memRevoker{revoked: map[string]bool{}, err: errors.New("redis down")}
	handler := RequireBearer(tokens, revoker, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not run when revocation cannot be checked")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, testutil.MakeRequest("GET", "/me", nil, testutil.BearerHeader(token)))

	testutil.AssertStatus(t, w, http.StatusInternalServerError)
}

func TestRequireAPIKey(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	testCases := []struct {
		name       string
		configured string
		presented  string
		expected   int
	}{
		{"matching key", "k-123", "k-123", http.StatusOK},
		{"wrong key", "k-123", "k-124", http.StatusForbidden},
		{"missing key", "k-123", "", http.StatusForbidden},
		{"prefix of key", "k-123", "k-12", http.StatusForbidden},
		{"nothing configured", "", "", http.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("DELETE", "/orders/o1", nil)
			if tc.presented != "" {
				req.Header.Set(APIKeyHeader, tc.presented)
			}
			w := httptest.NewRecorder()

			RequireAPIKey(tc.configured, zap.NewNop())(ok).ServeHTTP(w, req)

			testutil.AssertStatus(t, w, tc.expected)
		})
	}
}

func TestClaimsFromContext_Empty(t *testing.T) {
	if _, ok := ClaimsFromContext(context.Background()); ok {
		t.Error("Expected no claims in empty context")
	}
}
