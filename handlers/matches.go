// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"go.uber.org/zap"

	"github.com/danielhkuo/betdesk/cliparse"
	"github.com/danielhkuo/betdesk/events"
	"github.com/danielhkuo/betdesk/middleware"
	"github.com/danielhkuo/betdesk/models"
	"github.com/danielhkuo/betdesk/patch"
	"github.com/danielhkuo/betdesk/store"
)

type MatchHandler struct {
	base
	matches *store.Matches
	fields  *patch.Allowlist
	pub     events.Publisher
}

func NewMatchHandler(db *sql.DB, cfg cliparse.Config, pub events.Publisher, log *zap.Logger) *MatchHandler {
	return &MatchHandler{
		base:    base{cfg: cfg, log: log},
		matches: store.NewMatches(db),
		fields:  store.MatchAllowlist(),
		pub:     pub,
	}
}

// List handles GET /matches?status=&creatorId=
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	matches, err := h.matches.List(r.Context(), store.MatchFilter{
		Status:    q.Get("status"),
		CreatorID: q.Get("creatorId"),
	})
	if err != nil {
		h.storeError(w, err, "Match", "list matches")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, matches)
}

// Get handles GET /matches/{id}
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	match, err := h.matches.Get(r.Context(), urlID(r))
	if err != nil {
		h.storeError(w, err, "Match", "load match")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, match)
}

// Create handles POST /matches. An existing match with the same id is
// replaced.
func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var m models.Match
	if err := middleware.ParseJSONBody(r, &m); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if m.ID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := h.matches.Upsert(r.Context(), m); err != nil {
		h.storeError(w, err, "Match", "save match")
		return
	}

	h.log.Info("match saved", zap.String("match_id", m.ID))
	publish(r.Context(), h.pub, h.log, events.Event{Type: events.MatchSaved, ID: m.ID, Data: m})

	middleware.JSONResponse(w, http.StatusOK, models.SavedResponse{Message: "Match saved", ID: m.ID})
}

// Replace handles PUT /matches/{id}
func (h *MatchHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var m models.Match
	if err := middleware.ParseJSONBody(r, &m); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	m.ID = urlID(r)

	n, err := h.matches.Replace(r.Context(), m)
	if err != nil {
		h.storeError(w, err, "Match", "update match")
		return
	}
	if n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Match not found")
		return
	}

	h.log.Info("match replaced", zap.String("match_id", m.ID))
	publish(r.Context(), h.pub, h.log, events.Event{Type: events.MatchUpdated, ID: m.ID, Data: m})

	middleware.JSONResponse(w, http.StatusOK, models.SavedResponse{Message: "Match updated", ID: m.ID})
}

// Patch handles PATCH /matches/{id}
func (h *MatchHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id := urlID(r)

	u, attrs, err := resolveBody(r, h.fields)
	if err != nil {
		patchError(w, err)
		return
	}

	n, err := h.matches.Update(r.Context(), id, u)
	if err != nil {
		h.storeError(w, err, "Match", "update match")
		return
	}
	if n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Match not found")
		return
	}

	h.log.Info("match updated", zap.String("match_id", id), zap.Strings("fields", u.Fields))
	publish(r.Context(), h.pub, h.log, events.Event{Type: events.MatchUpdated, ID: id, Data: changes(u, attrs)})

	middleware.JSONResponse(w, http.StatusOK, models.SavedResponse{Message: "Match updated", ID: id})
}

// Delete handles DELETE /matches/{id}. Orders on the match are left alone.
func (h *MatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := urlID(r)

	n, err := h.matches.Delete(r.Context(), id)
	if err != nil {
		h.storeError(w, err, "Match", "delete match")
		return
	}
	if n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Match not found")
		return
	}

	h.log.Info("match deleted", zap.String("match_id", id))
	publish(r.Context(), h.pub, h.log, events.Event{Type: events.MatchDeleted, ID: id})

	middleware.JSONResponse(w, http.StatusOK, models.SavedResponse{Message: "Match deleted", ID: id})
}
