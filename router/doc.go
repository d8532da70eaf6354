// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the betdesk API.

# Route Registration

NewRouter returns a chi router with every endpoint and middleware wired:

	mux, err := router.NewRouter(db, cfg, router.Services{Logger: log})

Unset Services get defaults (token service from cfg, SQL revoker, no event
publishing, no-op logger).

# Middleware

Every request passes through RequestID, Recoverer, request logging,
metrics and CORS, in that order.

# Endpoints

Monitoring:

	GET /ping
	GET /healthz
	GET /metrics

Session:

	POST /login
	POST /logout          (bearer)
	GET  /me              (bearer)

Users:

	POST   /users
	GET    /users             (API key)
	GET    /users/{id}        (API key)
	PUT    /users/{id}        (API key)
	PATCH  /users/{id}        (API key)
	PATCH  /users/{id}/status (API key)
	DELETE /users/{id}        (API key)

Matches and orders:

	GET    /matches, /matches/{id}
	POST   /matches                          (API key)
	PUT    /matches/{id}                     (API key)
	PATCH  /matches/{id}                     (API key)
	DELETE /matches/{id}                     (API key)
	GET    /orders, /orders/{id}
	POST   /orders                           (API key)
	PATCH  /orders/{id}                      (API key)
	DELETE /orders/{id}                      (API key)
*/
package router
