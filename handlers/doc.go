// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the betdesk API.

# Handler Types

Each handler is a struct built from the database, the config and a logger:

  - AuthHandler: login, current user, logout
  - UserHandler: registration and user administration
  - MatchHandler: match CRUD
  - OrderHandler: order CRUD

	orderHandler := handlers.NewOrderHandler(db, cfg, publisher, log)

Gates are not applied here; the router wraps the handlers with
middleware.RequireBearer and middleware.RequireAPIKey.

# Writes

POST /users and POST /matches replace any record with the same id. POST
/orders never does: a taken id is 409 Conflict and a missing id is filled
with a UUID.

PUT replaces every field of an existing record. For users the password is
only changed when passWord is present.

PATCH bodies are resolved against a per-collection allow-list. Unknown
fields are dropped; a body with no known field is 400 and nothing is
written. A submitted passWord is hashed before it is stored.

# Errors

	400  bad JSON, missing fields, wrong value types, no valid fields
	401  bad credentials, no bearer token
	403  bad API key, invalid, expired or revoked token
	404  no such record
	409  duplicate order id
	500  store failure (cause only shown when ENV is local)

# Events

Match and order writes publish an event after the store call succeeds.
Publish failures are logged and do not change the response.
*/
package handlers
