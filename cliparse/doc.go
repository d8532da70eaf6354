// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags loads a .env file when present and returns a Config:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags and Environment Variables

	-p              PORT           Server port (default: 3000)
	-env            ENV            local, dev, prod (default: prod)
	-d              DATABASE_URL   Database URL (default: data.db for sqlite)
	-t              DATABASE_TYPE  sqlite or postgres (default: sqlite)
	-jwt-secret     JWT_SECRET     Token signing secret (required)
	-api-key        API_KEY        Service API key (required)
	-token-ttl      TOKEN_TTL      Bearer token lifetime (default: 168h)
	-bcrypt-cost    BCRYPT_COST    bcrypt cost factor (default: 10)
	-cors-origins   CORS_ORIGINS   Origin allow-list (default: http://127.0.0.1:3000)
	-redis          REDIS_URL      Redis URL; revocations go to SQL when unset
	-kafka-brokers  KAFKA_BROKERS  Kafka brokers; events are dropped when unset
	-kafka-topic    KAFKA_TOPIC    Event topic (default: betdesk.events)

CLI flags take precedence over environment variables, which take
precedence over .env.

# Secrets

JWT_SECRET and API_KEY are process-wide and must never be logged.
*/
package cliparse
