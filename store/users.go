// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/danielhkuo/betdesk/models"
	"github.com/danielhkuo/betdesk/patch"
)

var userColumns = []string{
	"id", "email", "user_name", "password_hash", "status", "full_name",
	"phone_number", "dob", "level", "balance", "wallet_address",
}

var userSelect = "SELECT " + strings.Join(userColumns, ", ") + " FROM users"

// UserAllowlist is the set of user fields PATCH may change. hash turns a
// submitted passWord into the stored digest.
func UserAllowlist(hash func(string) (string, error)) *patch.Allowlist {
	return patch.NewAllowlist("users", "id",
		patch.Column{Field: "email", Column: "email"},
		patch.Column{Field: "userName", Column: "user_name"},
		patch.Column{Field: "passWord", Column: "password_hash", Convert: hashed(hash)},
		patch.Column{Field: "status", Column: "status"},
		patch.Column{Field: "fullName", Column: "full_name"},
		patch.Column{Field: "phoneNumber", Column: "phone_number"},
		patch.Column{Field: "dob", Column: "dob"},
		patch.Column{Field: "level", Column: "level", Convert: patch.Int},
		patch.Column{Field: "balance", Column: "balance", Convert: patch.Float},
		patch.Column{Field: "walletAddress", Column: "wallet_address"},
	)
}

// StatusAllowlist only lets status through
func StatusAllowlist() *patch.Allowlist {
	return patch.NewAllowlist("users", "id", patch.Column{Field: "status", Column: "status"})
}

func hashed(hash func(string) (string, error)) patch.Converter {
	return func(v interface{}) (interface{}, error) {
		s, err := patch.String(v)
		if err != nil {
			return nil, err
		}
		return hash(s.(string))
	}
}

type Users struct {
	db *sql.DB
}

func NewUsers(db *sql.DB) *Users {
	return &Users{db: db}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row scanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.UserName, &u.PasswordHash, &u.Status, &u.FullName,
		&u.PhoneNumber, &u.DOB, &u.Level, &u.Balance, &u.WalletAddress)
	return u, err
}

func (s *Users) Get(ctx context.Context, id string) (models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, userSelect+" WHERE id = $1", id))
	if err == sql.ErrNoRows {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// FindByLogin looks a user up by userName or email
func (s *Users) FindByLogin(ctx context.Context, login string) (models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		userSelect+" WHERE user_name = $1 OR email = $1 ORDER BY id LIMIT 1", login))
	if err == sql.ErrNoRows {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to find user: %w", err)
	}
	return u, nil
}

func (s *Users) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, userSelect+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Upsert inserts u or replaces the row with the same id
func (s *Users) Upsert(ctx context.Context, u models.User) error {
	_, err := s.db.ExecContext(ctx, upsertSQL("users", userColumns),
		u.ID, u.Email, u.UserName, u.PasswordHash, u.Status, u.FullName,
		u.PhoneNumber, u.DOB, u.Level, u.Balance, u.WalletAddress)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// Replace overwrites every field of an existing user. With keepPassword the
// stored digest is left as it is and u.PasswordHash is ignored.
func (s *Users) Replace(ctx context.Context, u models.User, keepPassword bool) (int64, error) {
	columns := []string{"email", "user_name", "status", "full_name", "phone_number", "dob", "level", "balance", "wallet_address"}
	args := []interface{}{u.Email, u.UserName, u.Status, u.FullName, u.PhoneNumber, u.DOB, u.Level, u.Balance, u.WalletAddress}
	if !keepPassword {
		columns = append(columns, "password_hash")
		args = append(args, u.PasswordHash)
	}
	args = append(args, u.ID)

	res, err := s.db.ExecContext(ctx, replaceSQL("users", columns), args...)
	return rowsAffected(res, err, "replace user")
}

func (s *Users) Update(ctx context.Context, id string, u patch.Update) (int64, error) {
	return applyUpdate(ctx, s.db, u, id)
}

func (s *Users) Delete(ctx context.Context, id string) (int64, error) {
	return deleteByKey(ctx, s.db, "users", id)
}
