// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connections

Open selects the driver from the dialect name:

	conn, err := db.Open(db.SQLite, "data.db")          // modernc.org/sqlite
	conn, err := db.Open(db.Postgres, "postgres://...") // github.com/lib/pq

SQLite connections are limited to one open connection and get a
busy_timeout pragma. All queries use $N placeholders, which both drivers
accept.

# Schema Creation

	if err := db.CreateSchema(conn, db.SQLite); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - users: accounts; password_hash holds a bcrypt digest
  - matches: bettable events
  - orders: bets; has_auto_bet is 0/1
  - revoked_tokens: logged-out token IDs until expiry

# Relationships

	matches.creator_id  ··> users.id
	orders.match_id     ··> matches.id
	orders.user_wallet  ··> users.wallet_address

These are lookup-only references. There are no foreign keys and deletes
never cascade.
*/
package db
