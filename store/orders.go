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

var orderColumns = []string{
	"id", "match_id", "match_name", "team", "option_name", "amount", "user_wallet",
	"token", "placed_at", "status", "tx_hash", "claim", "refund",
	"process_start", "countdown_end", "has_auto_bet",
}

var orderSelect = "SELECT " + strings.Join(orderColumns, ", ") + " FROM orders"

// OrderAllowlist is every order field except id
func OrderAllowlist() *patch.Allowlist {
	return patch.NewAllowlist("orders", "id",
		patch.Column{Field: "matchId", Column: "match_id"},
		patch.Column{Field: "matchName", Column: "match_name"},
		patch.Column{Field: "team", Column: "team"},
		patch.Column{Field: "option", Column: "option_name"},
		patch.Column{Field: "amount", Column: "amount", Convert: patch.Float},
		patch.Column{Field: "userWallet", Column: "user_wallet"},
		patch.Column{Field: "token", Column: "token"},
		patch.Column{Field: "timestamp", Column: "placed_at"},
		patch.Column{Field: "status", Column: "status"},
		patch.Column{Field: "txHash", Column: "tx_hash"},
		patch.Column{Field: "claim", Column: "claim"},
		patch.Column{Field: "refund", Column: "refund"},
		patch.Column{Field: "processStart", Column: "process_start"},
		patch.Column{Field: "countdownEnd", Column: "countdown_end"},
		patch.Column{Field: "hasAutoBet", Column: "has_auto_bet", Convert: patch.Bool},
	)
}

// OrderFilter narrows List; empty fields match everything
type OrderFilter struct {
	MatchID    string
	UserWallet string
}

type Orders struct {
	db *sql.DB
}

func NewOrders(db *sql.DB) *Orders {
	return &Orders{db: db}
}

func scanOrder(row scanner) (models.Order, error) {
	var o models.Order
	var autoBet int
	err := row.Scan(&o.ID, &o.MatchID, &o.MatchName, &o.Team, &o.Option, &o.Amount, &o.UserWallet,
		&o.Token, &o.Timestamp, &o.Status, &o.TxHash, &o.Claim, &o.Refund,
		&o.ProcessStart, &o.CountdownEnd, &autoBet)
	o.HasAutoBet = autoBet != 0
	return o, err
}

func (s *Orders) Get(ctx context.Context, id string) (models.Order, error) {
	o, err := scanOrder(s.db.QueryRowContext(ctx, orderSelect+" WHERE id = $1", id))
	if err == sql.ErrNoRows {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to get order: %w", err)
	}
	return o, nil
}

func (s *Orders) List(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	var w filter
	w.eq("match_id", f.MatchID)
	w.eq("user_wallet", f.UserWallet)

	rows, err := s.db.QueryContext(ctx, orderSelect+w.where()+" ORDER BY id", w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// Insert never replaces: an existing id yields ErrConflict
func (s *Orders) Insert(ctx context.Context, o models.Order) error {
	res, err := s.db.ExecContext(ctx, insertSQL("orders", orderColumns)+" ON CONFLICT (id) DO NOTHING",
		o.ID, o.MatchID, o.MatchName, o.Team, o.Option, o.Amount, o.UserWallet,
		o.Token, o.Timestamp, o.Status, o.TxHash, o.Claim, o.Refund,
		o.ProcessStart, o.CountdownEnd, boolToInt(bool(o.HasAutoBet)))
	n, err := rowsAffected(res, err, "insert order")
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

func (s *Orders) Update(ctx context.Context, id string, u patch.Update) (int64, error) {
	return applyUpdate(ctx, s.db, u, id)
}

func (s *Orders) Delete(ctx context.Context, id string) (int64, error) {
	return deleteByKey(ctx, s.db, "orders", id)
}
