// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/danielhkuo/betdesk/patch"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// applyUpdate runs a resolved patch and returns the affected row count.
// Zero rows is the only not-found signal; it is not an error here.
func applyUpdate(ctx context.Context, db *sql.DB, u patch.Update, id string) (int64, error) {
	query, args := u.Statement(id)
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update %s: %w", u.Table, err)
	}
	return res.RowsAffected()
}

func deleteByKey(ctx context.Context, db *sql.DB, table, id string) (int64, error) {
	res, err := db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return res.RowsAffected()
}

// filter accumulates equality predicates with $N placeholders
type filter struct {
	preds []string
	args  []interface{}
}

func (f *filter) eq(column, value string) {
	if value == "" {
		return
	}
	f.args = append(f.args, value)
	f.preds = append(f.preds, column+" = $"+strconv.Itoa(len(f.args)))
}

func (f *filter) where() string {
	if len(f.preds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.preds, " AND ")
}

// upsertSQL builds an insert-or-replace keyed by id. Every non-key column
// is overwritten on conflict, so the last writer wins.
func upsertSQL(table string, columns []string) string {
	return insertSQL(table, columns) + " ON CONFLICT (id) DO UPDATE SET " + excludedSets(columns[1:])
}

func insertSQL(table string, columns []string) string {
	ph := make([]string, len(columns))
	for i := range columns {
		ph[i] = "$" + strconv.Itoa(i+1)
	}
	return "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES (" + strings.Join(ph, ", ") + ")"
}

func excludedSets(columns []string) string {
	sets := make([]string, len(columns))
	for i, c := range columns {
		sets[i] = c + " = excluded." + c
	}
	return strings.Join(sets, ", ")
}

// replaceSQL overwrites the given columns of the row with id = $last
func replaceSQL(table string, columns []string) string {
	sets := make([]string, len(columns))
	for i, c := range columns {
		sets[i] = c + " = $" + strconv.Itoa(i+1)
	}
	return "UPDATE " + table + " SET " + strings.Join(sets, ", ") + " WHERE id = $" + strconv.Itoa(len(columns)+1)
}

func rowsAffected(res sql.Result, err error, action string) (int64, error) {
	if err != nil {
		return 0, fmt.Errorf("failed to %s: %w", action, err)
	}
	return res.RowsAffected()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
