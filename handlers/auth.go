// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/danielhkuo/betdesk/auth"
	"github.com/danielhkuo/betdesk/cliparse"
	"github.com/danielhkuo/betdesk/middleware"
	"github.com/danielhkuo/betdesk/models"
	"github.com/danielhkuo/betdesk/store"
)

const invalidCredentials = "Invalid username or password"

type AuthHandler struct {
	base
	users   *store.Users
	hasher  auth.Hasher
	tokens  *auth.TokenService
	revoker auth.Revoker
}

func NewAuthHandler(db *sql.DB, cfg cliparse.Config, tokens *auth.TokenService, revoker auth.Revoker, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		base:    base{cfg: cfg, log: log},
		users:   store.NewUsers(db),
		hasher:  auth.NewHasher(cfg.BcryptCost),
		tokens:  tokens,
		revoker: revoker,
	}
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Username == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.users.FindByLogin(r.Context(), req.Username)
	if errors.Is(err, store.ErrNotFound) {
		h.log.Info("login failed", zap.String("reason", "unknown user"))
		middleware.ErrorResponse(w, http.StatusUnauthorized, invalidCredentials)
		return
	}
	if err != nil {
		h.storeError(w, err, "User", "log in")
		return
	}

	if !h.hasher.Verify(req.Password, user.PasswordHash) {
		h.log.Info("login failed", zap.String("reason", "wrong password"), zap.String("user_id", user.ID))
		middleware.ErrorResponse(w, http.StatusUnauthorized, invalidCredentials)
		return
	}

	profile := user.Profile()
	token, _, err := h.tokens.Issue(profile, h.cfg.TokenTTL)
	if err != nil {
		h.log.Error("failed to issue token", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	h.log.Info("user logged in", zap.String("user_id", user.ID))

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		User:  profile,
		Token: token,
	})
}

// Me handles GET /me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Missing bearer token")
		return
	}

	user, err := h.users.Get(r.Context(), claims.Subject)
	if err != nil {
		h.storeError(w, err, "User", "load user")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MeResponse{User: user.Profile()})
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Missing bearer token")
		return
	}

	if err := h.revoker.Revoke(r.Context(), claims.RegisteredClaims.ID, claims.ExpiresAt.Time); err != nil {
		h.log.Error("failed to revoke token", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log out")
		return
	}

	h.log.Info("user logged out", zap.String("user_id", claims.Subject))

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Logged out"})
}
