// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package patch resolves partial updates against a per-table allow-list.

# Decoding

DecodeAttrs reads a JSON object without losing member order:

	attrs, err := patch.DecodeAttrs(r.Body)

# Resolving

An Allowlist maps API field names to columns and value converters
(String, Float, Int, Bool). Resolve keeps allowed fields in caller order,
silently drops the rest and converts values:

	u, err := allowlist.Resolve(attrs)
	switch {
	case errors.Is(err, patch.ErrNoValidFields): // nothing allowed was sent
	case errors.Is(err, patch.ErrInvalidValue):  // wrong JSON type or null
	}

	query, args := u.Statement(id)
	// UPDATE users SET status = $1, level = $2 WHERE id = $3

Dropping unknown fields is deliberate input sanitisation and is never
reported as an error. ErrNoValidFields is returned before any converter
runs, so a rejected patch never hashes a password or touches the store.
*/
package patch
