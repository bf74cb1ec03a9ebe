// Package store provides SQLite-backed persistence for duel results.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wordwhiz/wordwhiz/pkg/model"
)

const dbTimeLayout = "2006-01-02 15:04:05"

// Store provides database access for duel results.
type Store struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database and runs migrations.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}

	ctx := context.Background()

	// Enable WAL mode for better concurrent read performance
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: set WAL: %w", err)
	}
	// Set busy timeout to avoid "database is locked" under concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: set busy_timeout: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS results (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		winner         TEXT    NOT NULL,
		loser          TEXT    NOT NULL,
		secret         TEXT    NOT NULL,
		winner_guesses INTEGER NOT NULL DEFAULT 0,
		loser_guesses  INTEGER NOT NULL DEFAULT 0,
		outcome        TEXT    NOT NULL CHECK(outcome IN ('win','stalemate','forfeit')),
		created_at     TEXT    NOT NULL DEFAULT (datetime('now'))
	);

	CREATE INDEX IF NOT EXISTS idx_results_winner ON results(winner);
	CREATE INDEX IF NOT EXISTS idx_results_loser  ON results(loser);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordResult appends one resolved duel and assigns its ID.
func (s *Store) RecordResult(res *model.GameResult) error {
	now := time.Now().UTC()
	r, err := s.db.Exec(
		`INSERT INTO results (winner, loser, secret, winner_guesses, loser_guesses, outcome, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		res.Winner, res.Loser, res.Secret, res.WinnerGuesses, res.LoserGuesses,
		res.Outcome.String(), now.Format(dbTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("store: record result: %w", err)
	}
	id, err := r.LastInsertId()
	if err != nil {
		return fmt.Errorf("store: record result id: %w", err)
	}
	res.ID = id
	res.CreatedAt = now
	return nil
}

// ListResults returns the most recent results, newest first.
func (s *Store) ListResults(limit int) ([]model.GameResult, error) {
	q := `SELECT id, winner, loser, secret, winner_guesses, loser_guesses, outcome, created_at
	      FROM results ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.GameResult
	for rows.Next() {
		var res model.GameResult
		var outcome, created string
		if err := rows.Scan(&res.ID, &res.Winner, &res.Loser, &res.Secret,
			&res.WinnerGuesses, &res.LoserGuesses, &outcome, &created); err != nil {
			return nil, fmt.Errorf("store: scan result: %w", err)
		}
		res.Outcome = model.ParseOutcome(outcome)
		if t, err := time.Parse(dbTimeLayout, created); err == nil {
			res.CreatedAt = t
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// Leaderboard aggregates per-player standings ordered by wins descending.
func (s *Store) Leaderboard(limit int) ([]model.Standing, error) {
	q := `
	SELECT username,
	       SUM(win)   AS wins,
	       SUM(loss)  AS losses,
	       SUM(stale) AS stalemates
	FROM (
		SELECT winner AS username,
		       CASE WHEN outcome IN ('win','forfeit') THEN 1 ELSE 0 END AS win,
		       0 AS loss,
		       CASE WHEN outcome = 'stalemate' THEN 1 ELSE 0 END AS stale
		FROM results
		UNION ALL
		SELECT loser,
		       0,
		       CASE WHEN outcome IN ('win','forfeit') THEN 1 ELSE 0 END,
		       CASE WHEN outcome = 'stalemate' THEN 1 ELSE 0 END
		FROM results
	)
	GROUP BY username
	ORDER BY wins DESC, losses ASC, username ASC`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: leaderboard: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Standing
	for rows.Next() {
		var st model.Standing
		if err := rows.Scan(&st.Username, &st.Wins, &st.Losses, &st.Stalemates); err != nil {
			return nil, fmt.Errorf("store: scan standing: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
