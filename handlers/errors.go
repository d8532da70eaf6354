// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/danielhkuo/betdesk/cliparse"
	"github.com/danielhkuo/betdesk/events"
	"github.com/danielhkuo/betdesk/middleware"
	"github.com/danielhkuo/betdesk/patch"
	"github.com/danielhkuo/betdesk/store"
)

// base carries what every resource handler needs for error reporting
type base struct {
	cfg cliparse.Config
	log *zap.Logger
}

// storeError answers for a failed store call. Missing and duplicate records
// get 404 and 409; anything else is logged and answered with a 500 whose
// cause is only shown in the local environment.
func (b base) storeError(w http.ResponseWriter, err error, resource, action string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, resource+" not found")
	case errors.Is(err, store.ErrConflict):
		middleware.ErrorResponse(w, http.StatusConflict, resource+" already exists")
	default:
		b.log.Error("store call failed",
			zap.String("resource", resource),
			zap.String("action", action),
			zap.Error(err),
		)
		msg := "Failed to " + action
		if b.cfg.IsLocal() {
			msg += ": " + err.Error()
		}
		middleware.ErrorResponse(w, http.StatusInternalServerError, msg)
	}
}

// patchError answers for a body that could not become an update
func patchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, patch.ErrNoValidFields):
		middleware.ErrorResponse(w, http.StatusBadRequest, "No valid fields to update")
	case errors.Is(err, patch.ErrInvalidValue):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
	}
}

// resolveBody decodes the request body and resolves it against a
func resolveBody(r *http.Request, a *patch.Allowlist) (patch.Update, patch.Attrs, error) {
	defer r.Body.Close()
	attrs, err := patch.DecodeAttrs(r.Body)
	if err != nil {
		return patch.Update{}, nil, err
	}
	u, err := a.Resolve(attrs)
	return u, attrs, err
}

// changes maps each applied field to the value the caller sent
func changes(u patch.Update, attrs patch.Attrs) map[string]interface{} {
	m := make(map[string]interface{}, len(u.Fields))
	for _, f := range u.Fields {
		m[f], _ = attrs.Get(f)
	}
	return m
}

const publishTimeout = 2 * time.Second

// publish sends e and only logs a failure; the write already happened
func publish(ctx context.Context, pub events.Publisher, log *zap.Logger, e events.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := pub.Publish(ctx, e); err != nil {
		log.Warn("failed to publish event",
			zap.String("type", e.Type),
			zap.String("id", e.ID),
			zap.Error(err),
		)
	}
}

func urlID(r *http.Request) string {
	return chi.URLParam(r, "id")
}
