// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

JSON field names follow the public API (camelCase, passWord included);
column names live in the store package.

# Domain Types

  - User: account record; PasswordHash is tagged json:"-"
  - Profile: User without credentials (token claims, detail responses)
  - UserSummary: id, status, fullName, level, balance, walletAddress
  - Match: bettable event with opaque status fields
  - Order: bet against a match; hasAutoBet is stored as 0/1
  - Flag: bool that also accepts 0/1 on input

# Request Types

  - LoginRequest: username, password
  - UserRequest: user body for POST and PUT; passWord is *string

Partial updates are not decoded into structs; see package patch.

# Response Types

  - LoginResponse: user, token
  - MeResponse: user
  - SavedResponse: message, id
  - MessageResponse: message
  - ErrorResponse: error, message
*/
package models
