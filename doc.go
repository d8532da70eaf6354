// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the betdesk API server.

betdesk is a CRUD backend for a betting application: user accounts with
credential login, matches, and orders (bets) placed against those matches.

# Starting the Server

Two secrets are required, everything else has a default:

	JWT_SECRET=... API_KEY=... go run .

Or with flags:

	go run . -p 3000 -t postgres -d "postgres://..." -jwt-secret ... -api-key ...

A .env file in the working directory is loaded first.

# Configuration

Required settings:

  - JWT_SECRET (-jwt-secret): bearer token signing secret
  - API_KEY (-api-key): key for administrative routes (X-API-Key header)

Optional settings:

  - PORT (-p): server port (default: 3000)
  - ENV (-env): local, dev or prod (default: local)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): sqlite file or postgres URL (default: data.db)
  - TOKEN_TTL (-token-ttl): token lifetime (default: 168h)
  - BCRYPT_COST (-bcrypt-cost): default 10
  - CORS_ORIGINS (-cors-origins): comma separated allow-list
  - REDIS_URL (-redis): keep token revocations in Redis instead of the database
  - KAFKA_BROKERS (-kafka-brokers), KAFKA_TOPIC (-kafka-topic): publish
    match and order change events

# Architecture

  - handlers: HTTP request handlers (auth, users, matches, orders)
  - router: chi routes and gates
  - middleware: logging, CORS, bearer and API key gates, metrics, JSON helpers
  - store: per-collection SQL access
  - patch: allow-listed partial updates
  - auth: password hashing, tokens, revocation
  - events: change event publishing
  - models: domain, request and response types
  - db: connections and schema
  - cliparse: configuration parsing
  - logger: zap setup

See package documentation for each component.
*/
package main
