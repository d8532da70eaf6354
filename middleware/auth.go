// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/danielhkuo/betdesk/auth"
)

type contextKey int

const claimsKey contextKey = iota

// APIKeyHeader carries the administrative API key
const APIKeyHeader = "X-API-Key"

func WithClaims(ctx context.Context, c *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// ClaimsFromContext returns the claims RequireBearer verified, if any
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*auth.Claims)
	return c, ok && c != nil
}

// BearerToken pulls the token out of "Authorization: Bearer <token>".
// The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", auth.ErrMissingToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", auth.ErrMissingToken
	}
	return token, nil
}

// RequireBearer admits requests with a valid, unrevoked token and puts its
// claims in the request context. A missing token is 401; a bad, expired or
// revoked one is 403.
func RequireBearer(tokens *auth.TokenService, revoker auth.Revoker, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := BearerToken(r)
			if err != nil {
				ErrorResponse(w, http.StatusUnauthorized, "Missing bearer token")
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				reason := "invalid"
				if errors.Is(err, auth.ErrTokenExpired) {
					reason = "expired"
				}
				log.Info("token rejected", zap.String("reason", reason), zap.String("path", r.URL.Path))
				ErrorResponse(w, http.StatusForbidden, "Invalid or expired token")
				return
			}

			if revoker != nil {
				revoked, err := revoker.IsRevoked(r.Context(), claims.RegisteredClaims.ID)
				if err != nil {
					log.Error("failed to check token revocation", zap.Error(err))
					ErrorResponse(w, http.StatusInternalServerError, "Failed to verify token")
					return
				}
				if revoked {
					log.Info("token rejected", zap.String("reason", "revoked"), zap.String("path", r.URL.Path))
					ErrorResponse(w, http.StatusForbidden, "Invalid or expired token")
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireAPIKey admits requests whose X-API-Key matches key. An empty key
// admits nothing.
func RequireAPIKey(key string, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.CheckAPIKey(r.Header.Get(APIKeyHeader), key) {
				log.Info("api key rejected",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Bool("present", r.Header.Get(APIKeyHeader) != ""),
				)
				ErrorResponse(w, http.StatusForbidden, "Invalid API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
