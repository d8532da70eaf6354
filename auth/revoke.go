// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoker remembers logged-out token IDs until the tokens would have expired
type Revoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	// Purge drops entries whose token has expired and returns how many went
	Purge(ctx context.Context) (int64, error)
}

// SQLRevoker keeps revocations in the revoked_tokens table
type SQLRevoker struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLRevoker(db *sql.DB) *SQLRevoker {
	return &SQLRevoker{db: db, now: time.Now}
}

func (r *SQLRevoker) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO revoked_tokens (jti, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (jti) DO NOTHING
	`, jti, expiresAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *SQLRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM revoked_tokens WHERE jti = $1 AND expires_at > $2
	`, jti, r.now().Unix()).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check revocation: %w", err)
	}
	return n > 0, nil
}

func (r *SQLRevoker) Purge(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM revoked_tokens WHERE expires_at <= $1
	`, r.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to purge revocations: %w", err)
	}
	return res.RowsAffected()
}

// RedisRevoker keeps one key per revoked token; Redis expiry does the purging
type RedisRevoker struct {
	r   *redis.Client
	now func() time.Time
}

func NewRedisRevoker(r *redis.Client) *RedisRevoker {
	return &RedisRevoker{r: r, now: time.Now}
}

func keyRevoked(jti string) string { return "revoked:" + jti }

func (r *RedisRevoker) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.r.Set(ctx, keyRevoked(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.r.Exists(ctx, keyRevoked(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check revocation: %w", err)
	}
	return n > 0, nil
}

func (r *RedisRevoker) Purge(context.Context) (int64, error) {
	return 0, nil
}
