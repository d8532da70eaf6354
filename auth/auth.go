// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyPassword   = errors.New("password must not be empty")
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
	ErrMissingToken    = errors.New("bearer token missing")
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")
	ErrTokenRevoked    = errors.New("token revoked")
)

// Hasher produces and checks bcrypt password digests
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using the given bcrypt cost.
// Out of range costs fall back to bcrypt.DefaultCost.
func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return Hasher{cost: cost}
}

// Hash returns a salted one-way digest of plain
func (h Hasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// maxPasswordLen is the most input bcrypt reads; Hash rejects anything longer
const maxPasswordLen = 72

// Verify reports whether plain matches digest. A malformed digest is a mismatch,
// and so is any plain longer than Hash accepts.
func (h Hasher) Verify(plain, digest string) bool {
	if plain == "" || len(plain) > maxPasswordLen {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

// CheckAPIKey compares a presented key against the configured one in
// constant time. An unset key never matches.
func CheckAPIKey(presented, expected string) bool {
	if expected == "" || presented == "" {
		return false
	}
	return hmac.Equal([]byte(presented), []byte(expected))
}
