// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect names match cliparse.Config.DatabaseType
const (
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// Open connects and pings. SQLite gets a single connection so concurrent
// writers queue in the pool instead of failing with SQLITE_BUSY.
func Open(dialect, url string) (*sql.DB, error) {
	var driver string
	switch dialect {
	case SQLite:
		driver = "sqlite"
		url = withBusyTimeout(url)
	case Postgres:
		driver = "postgres"
	default:
		return nil, fmt.Errorf("unsupported database type %q", dialect)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dialect == SQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return conn, nil
}

func withBusyTimeout(url string) string {
	if strings.Contains(url, "busy_timeout") {
		return url
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "_pragma=busy_timeout(5000)"
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dialect string) error {
	ddl := schema
	if dialect == Postgres {
		// REAL is single precision in postgres
		ddl = strings.ReplaceAll(ddl, " REAL ", " DOUBLE PRECISION ")
	}

	for _, stmt := range strings.Split(ddl, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// No foreign keys: orders and matches hold weak back-references.
const schema = `
-- Users
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL DEFAULT '',
    user_name TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT '',
    full_name TEXT NOT NULL DEFAULT '',
    phone_number TEXT NOT NULL DEFAULT '',
    dob TEXT NOT NULL DEFAULT '',
    level INTEGER NOT NULL DEFAULT 0,
    balance REAL NOT NULL DEFAULT 0,
    wallet_address TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_users_user_name ON users(user_name);
CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

-- Matches
CREATE TABLE IF NOT EXISTS matches (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    team1 TEXT NOT NULL DEFAULT '',
    team2 TEXT NOT NULL DEFAULT '',
    option1 TEXT NOT NULL DEFAULT '',
    option2 TEXT NOT NULL DEFAULT '',
    rate1 REAL NOT NULL DEFAULT 0,
    rate2 REAL NOT NULL DEFAULT 0,
    status1 TEXT NOT NULL DEFAULT '',
    status2 TEXT NOT NULL DEFAULT '',
    claim TEXT NOT NULL DEFAULT '',
    match_time TEXT NOT NULL DEFAULT '',
    countdown TEXT NOT NULL DEFAULT '',
    iframe TEXT NOT NULL DEFAULT '',
    sum1 REAL NOT NULL DEFAULT 0,
    sum2 REAL NOT NULL DEFAULT 0,
    status TEXT NOT NULL DEFAULT '',
    creator_id TEXT NOT NULL DEFAULT '',
    winning_team TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_matches_status ON matches(status);

-- Orders
CREATE TABLE IF NOT EXISTS orders (
    id TEXT PRIMARY KEY,
    match_id TEXT NOT NULL DEFAULT '',
    match_name TEXT NOT NULL DEFAULT '',
    team TEXT NOT NULL DEFAULT '',
    option_name TEXT NOT NULL DEFAULT '',
    amount REAL NOT NULL DEFAULT 0,
    user_wallet TEXT NOT NULL DEFAULT '',
    token TEXT NOT NULL DEFAULT '',
    placed_at TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT '',
    tx_hash TEXT NOT NULL DEFAULT '',
    claim TEXT NOT NULL DEFAULT '',
    refund TEXT NOT NULL DEFAULT '',
    process_start TEXT NOT NULL DEFAULT '',
    countdown_end TEXT NOT NULL DEFAULT '',
    has_auto_bet INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_orders_match_id ON orders(match_id);
CREATE INDEX IF NOT EXISTS idx_orders_user_wallet ON orders(user_wallet);

-- Revoked bearer tokens, kept until their exp (unix seconds)
CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti TEXT PRIMARY KEY,
    expires_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_revoked_tokens_expires_at ON revoked_tokens(expires_at);
`
