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

var matchColumns = []string{
	"id", "name", "team1", "team2", "option1", "option2", "rate1", "rate2",
	"status1", "status2", "claim", "match_time", "countdown", "iframe",
	"sum1", "sum2", "status", "creator_id", "winning_team",
}

var matchSelect = "SELECT " + strings.Join(matchColumns, ", ") + " FROM matches"

// MatchAllowlist is every match field except id
func MatchAllowlist() *patch.Allowlist {
	return patch.NewAllowlist("matches", "id",
		patch.Column{Field: "name", Column: "name"},
		patch.Column{Field: "team1", Column: "team1"},
		patch.Column{Field: "team2", Column: "team2"},
		patch.Column{Field: "option1", Column: "option1"},
		patch.Column{Field: "option2", Column: "option2"},
		patch.Column{Field: "rate1", Column: "rate1", Convert: patch.Float},
		patch.Column{Field: "rate2", Column: "rate2", Convert: patch.Float},
		patch.Column{Field: "status1", Column: "status1"},
		patch.Column{Field: "status2", Column: "status2"},
		patch.Column{Field: "claim", Column: "claim"},
		patch.Column{Field: "time", Column: "match_time"},
		patch.Column{Field: "countdown", Column: "countdown"},
		patch.Column{Field: "iframe", Column: "iframe"},
		patch.Column{Field: "sum1", Column: "sum1", Convert: patch.Float},
		patch.Column{Field: "sum2", Column: "sum2", Convert: patch.Float},
		patch.Column{Field: "status", Column: "status"},
		patch.Column{Field: "creatorId", Column: "creator_id"},
		patch.Column{Field: "winningTeam", Column: "winning_team"},
	)
}

// MatchFilter narrows List; empty fields match everything
type MatchFilter struct {
	Status    string
	CreatorID string
}

type Matches struct {
	db *sql.DB
}

func NewMatches(db *sql.DB) *Matches {
	return &Matches{db: db}
}

func scanMatch(row scanner) (models.Match, error) {
	var m models.Match
	err := row.Scan(&m.ID, &m.Name, &m.Team1, &m.Team2, &m.Option1, &m.Option2, &m.Rate1, &m.Rate2,
		&m.Status1, &m.Status2, &m.Claim, &m.Time, &m.Countdown, &m.Iframe,
		&m.Sum1, &m.Sum2, &m.Status, &m.CreatorID, &m.WinningTeam)
	return m, err
}

func matchArgs(m models.Match) []interface{} {
	return []interface{}{
		m.Name, m.Team1, m.Team2, m.Option1, m.Option2, m.Rate1, m.Rate2,
		m.Status1, m.Status2, m.Claim, m.Time, m.Countdown, m.Iframe,
		m.Sum1, m.Sum2, m.Status, m.CreatorID, m.WinningTeam,
	}
}

func (s *Matches) Get(ctx context.Context, id string) (models.Match, error) {
	m, err := scanMatch(s.db.QueryRowContext(ctx, matchSelect+" WHERE id = $1", id))
	if err == sql.ErrNoRows {
		return models.Match{}, ErrNotFound
	}
	if err != nil {
		return models.Match{}, fmt.Errorf("failed to get match: %w", err)
	}
	return m, nil
}

func (s *Matches) List(ctx context.Context, f MatchFilter) ([]models.Match, error) {
	var w filter
	w.eq("status", f.Status)
	w.eq("creator_id", f.CreatorID)

	rows, err := s.db.QueryContext(ctx, matchSelect+w.where()+" ORDER BY id", w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	matches := []models.Match{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// Upsert inserts m or replaces the row with the same id
func (s *Matches) Upsert(ctx context.Context, m models.Match) error {
	args := append([]interface{}{m.ID}, matchArgs(m)...)
	if _, err := s.db.ExecContext(ctx, upsertSQL("matches", matchColumns), args...); err != nil {
		return fmt.Errorf("failed to save match: %w", err)
	}
	return nil
}

// Replace overwrites every field of an existing match
func (s *Matches) Replace(ctx context.Context, m models.Match) (int64, error) {
	args := append(matchArgs(m), m.ID)
	res, err := s.db.ExecContext(ctx, replaceSQL("matches", matchColumns[1:]), args...)
	return rowsAffected(res, err, "replace match")
}

func (s *Matches) Update(ctx context.Context, id string, u patch.Update) (int64, error) {
	return applyUpdate(ctx, s.db, u, id)
}

func (s *Matches) Delete(ctx context.Context, id string) (int64, error) {
	return deleteByKey(ctx, s.db, "matches", id)
}
