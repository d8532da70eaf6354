// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing, bearer tokens, and the API key check.

# Passwords

Passwords are stored as bcrypt digests:

	h := auth.NewHasher(10)
	digest, err := h.Hash("secret")
	ok := h.Verify("secret", digest)

Hash rejects empty input and input longer than bcrypt's 72 byte limit.
Verify returns false for any mismatch or malformed digest and never
returns an error.

# Tokens

Tokens are HS256 JWTs carrying the user's profile plus sub, jti, iat and exp:

	svc, err := auth.NewTokenService(secret, 7*24*time.Hour)
	token, claims, err := svc.Issue(user.Profile(), 0) // 0 uses the default TTL
	claims, err = svc.Verify(token)

Verify only accepts HS256 and always requires exp. Expired tokens wrap
ErrTokenExpired; anything else wrong wraps ErrInvalidToken.

# Revocation

A Revoker remembers logged-out token IDs until the token would have
expired anyway. SQLRevoker uses the revoked_tokens table and needs a
periodic Purge; RedisRevoker sets one key per token with a matching TTL.

# API Key

	ok := auth.CheckAPIKey(r.Header.Get("X-API-Key"), cfg.APIKey)

Comparison is constant time. An empty configured key rejects everything.
*/
package auth
