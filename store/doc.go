// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store reads and writes users, matches and orders.

Each collection has its own type built over a shared *sql.DB:

	users := store.NewUsers(conn)
	u, err := users.Get(ctx, "u1")
	if errors.Is(err, store.ErrNotFound) { ... }

# Writes

Users and matches use Upsert for POST: the row with the same id is replaced
whole, so saving twice leaves one row. Orders use Insert, which returns
ErrConflict instead of overwriting.

Replace, Update and Delete return the affected row count. Zero means the
key did not exist; callers turn that into a 404.

# Partial Updates

Update takes a patch.Update produced by the collection's allowlist:

	attrs, _ := patch.DecodeAttrs(r.Body)
	u, err := store.OrderAllowlist().Resolve(attrs)
	n, err := orders.Update(ctx, id, u)

UserAllowlist hashes passWord into password_hash before it reaches SQL.
*/
package store
