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
	"github.com/danielhkuo/betdesk/patch"
	"github.com/danielhkuo/betdesk/store"
)

type UserHandler struct {
	base
	users  *store.Users
	hasher auth.Hasher
	fields *patch.Allowlist
	status *patch.Allowlist
}

func NewUserHandler(db *sql.DB, cfg cliparse.Config, log *zap.Logger) *UserHandler {
	hasher := auth.NewHasher(cfg.BcryptCost)
	return &UserHandler{
		base:   base{cfg: cfg, log: log},
		users:  store.NewUsers(db),
		hasher: hasher,
		fields: store.UserAllowlist(hasher.Hash),
		status: store.StatusAllowlist(),
	}
}

// hashPassword answers 400 itself for unusable passwords
func (h *UserHandler) hashPassword(w http.ResponseWriter, plain string) (string, bool) {
	digest, err := h.hasher.Hash(plain)
	switch {
	case errors.Is(err, auth.ErrEmptyPassword), errors.Is(err, auth.ErrPasswordTooLong):
		middleware.ErrorResponse(w, http.StatusBadRequest, "passWord: "+err.Error())
		return "", false
	case err != nil:
		h.log.Error("failed to hash password", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save user")
		return "", false
	}
	return digest, true
}

// Create handles POST /users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.UserRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.ID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}
	if req.Password == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "passWord is required")
		return
	}

	digest, ok := h.hashPassword(w, *req.Password)
	if !ok {
		return
	}

	if err := h.users.Upsert(r.Context(), req.User(digest)); err != nil {
		h.storeError(w, err, "User", "save user")
		return
	}

	h.log.Info("user saved", zap.String("user_id", req.ID))

	middleware.JSONResponse(w, http.StatusOK, models.SavedResponse{Message: "User saved", ID: req.ID})
}

// List handles GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.storeError(w, err, "User", "list users")
		return
	}

	summaries := make([]models.UserSummary, len(users))
	for i, u := range users {
		summaries[i] = u.Summary()
	}

	middleware.JSONResponse(w, http.StatusOK, summaries)
}

// Get handles GET /users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), urlID(r))
	if err != nil {
		h.storeError(w, err, "User", "load user")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, user.Profile())
}

// Replace handles PUT /users/{id}. Fields left out of the body are reset
// to their zero values; the password is only changed when passWord is sent.
func (h *UserHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id := urlID(r)

	var req models.UserRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	req.ID = id

	var digest string
	if req.Password != nil {
		var ok bool
		if digest, ok = h.hashPassword(w, *req.Password); !ok {
			return
		}
	}

	n, err := h.users.Replace(r.Context(), req.User(digest), req.Password == nil)
	if err != nil {
		h.storeError(w, err, "User", "update user")
		return
	}
	if n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	h.log.Info("user replaced", zap.String("user_id", id))

	middleware.JSONResponse(w, http.StatusOK, models.SavedResponse{Message: "User updated", ID: id})
}

// Patch handles PATCH /users/{id}
func (h *UserHandler) Patch(w http.ResponseWriter, r *http.Request) {
	h.applyPatch(w, r, h.fields)
}

// PatchStatus handles PATCH /users/{id}/status
func (h *UserHandler) PatchStatus(w http.ResponseWriter, r *http.Request) {
	h.applyPatch(w, r, h.status)
}

func (h *UserHandler) applyPatch(w http.ResponseWriter, r *http.Request, a *patch.Allowlist) {
	id := urlID(r)

	u, _, err := resolveBody(r, a)
	if err != nil {
		patchError(w, err)
		return
	}

	n, err := h.users.Update(r.Context(), id, u)
	if err != nil {
		h.storeError(w, err, "User", "update user")
		return
	}
	if n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	h.log.Info("user updated", zap.String("user_id", id), zap.Strings("fields", u.Fields))

	middleware.JSONResponse(w, http.StatusOK, models.SavedResponse{Message: "User updated", ID: id})
}

// Delete handles DELETE /users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := urlID(r)

	n, err := h.users.Delete(r.Context(), id)
	if err != nil {
		h.storeError(w, err, "User", "delete user")
		return
	}
	if n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	h.log.Info("user deleted", zap.String("user_id", id))

	middleware.JSONResponse(w, http.StatusOK, models.SavedResponse{Message: "User deleted", ID: id})
}
