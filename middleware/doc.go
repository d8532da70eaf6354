// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

All middleware has the func(http.Handler) http.Handler shape used by chi.

# Request Logging

	r.Use(middleware.WithLogging(log))

Logs one line per request with method, path, status, duration_ms, remote
address and the chi request id. Headers and bodies are never logged.

# CORS

	r.Use(middleware.CORS(cfg.AllowedOrigins))

Only listed origins get Access-Control-Allow-Origin (echoed) and
Access-Control-Allow-Credentials. Preflights from them are answered with
204 without reaching the router.

# Gates

	r.With(middleware.RequireBearer(tokens, revoker, log)).Get("/me", h.Me)
	r.With(middleware.RequireAPIKey(cfg.APIKey, log)).Delete("/orders/{id}", h.Delete)

RequireBearer answers 401 when no bearer token is sent and 403 when the
token is malformed, badly signed, expired or revoked. Verified claims are
available through ClaimsFromContext. RequireAPIKey answers 403 for any
X-API-Key mismatch.

# Metrics

	m := middleware.NewMetrics()
	r.Use(m.Middleware)
	r.Handle("/metrics", m.Handler())

# Response Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusNotFound, "Order not found")

Error bodies are {"error": "<status text>", "message": "..."}.
*/
package middleware
