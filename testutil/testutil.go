// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/betdesk/auth"
	"github.com/danielhkuo/betdesk/cliparse"
	"github.com/danielhkuo/betdesk/db"
)

const (
	TestJWTSecret = "test-jwt-secret"
	TestAPIKey    = "test-api-key"
)

// SetupTestDB creates a fresh sqlite database in a temp dir with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.SQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn, db.SQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           3000,
		Env:            "local",
		DatabaseType:   cliparse.DatabaseSQLite,
		DatabaseURL:    "test.db",
		JWTSecret:      TestJWTSecret,
		APIKey:         TestAPIKey,
		TokenTTL:       time.Hour,
		BcryptCost:     bcrypt.MinCost,
		AllowedOrigins: []string{"http://127.0.0.1:3000"},
		KafkaTopic:     "betdesk.test",
	}
}

// Logger returns a logger that discards everything
func Logger() *zap.Logger {
	return zap.NewNop()
}

// TokenService returns a token service using the test secret
func TokenService(t *testing.T) *auth.TokenService {
	t.Helper()
	svc, err := auth.NewTokenService(TestJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to create token service: %v", err)
	}
	return svc
}

// CreateTestUser inserts a user with a hashed password and returns the digest
func CreateTestUser(t *testing.T, db *sql.DB, id, userName, email, password string) string {
	t.Helper()

	digest, err := auth.NewHasher(bcrypt.MinCost).Hash(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (id, email, user_name, password_hash, status, full_name, level, balance, wallet_address)
		VALUES ($1, $2, $3, $4, 'active', 'Test User', 1, 100.5, $5)
	`, id, email, userName, digest, "0x"+id)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return digest
}

// CreateTestMatch inserts an open match between two teams
func CreateTestMatch(t *testing.T, db *sql.DB, id, creatorID string) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO matches (id, name, team1, team2, rate1, rate2, status, creator_id)
		VALUES ($1, 'Test Match', 'Red', 'Blue', 1.8, 2.1, 'open', $2)
	`, id, creatorID)
	if err != nil {
		t.Fatalf("Failed to create test match: %v", err)
	}
}

// CreateTestOrder inserts a pending order on matchID from wallet
func CreateTestOrder(t *testing.T, db *sql.DB, id, matchID, wallet string, amount float64) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO orders (id, match_id, match_name, team, amount, user_wallet, status)
		VALUES ($1, $2, 'Test Match', 'Red', $3, $4, 'pending')
	`, id, matchID, amount, wallet)
	if err != nil {
		t.Fatalf("Failed to create test order: %v", err)
	}
}

// CountRows returns the number of rows in table
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, path, nil)
	case string:
		req = httptest.NewRequest(method, path, bytes.NewReader([]byte(b)))
		req.Header.Set("Content-Type", "application/json")
	default:
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// APIKeyHeader returns headers carrying the test API key
func APIKeyHeader() map[string]string {
	return map[string]string{"X-API-Key": TestAPIKey}
}

// BearerHeader returns headers carrying token
func BearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
