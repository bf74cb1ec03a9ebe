package store

import "github.com/wordwhiz/wordwhiz/pkg/model"

// DataStore persists resolved duels. Implementations include the default
// SQLite store and an in-memory store for tests. Chat traffic is never
// persisted.
type DataStore interface {
	// Close closes the underlying storage.
	Close() error

	// RecordResult appends one resolved duel and assigns its ID.
	RecordResult(res *model.GameResult) error

	// ListResults returns the most recent results, newest first.
	// limit <= 0 means no limit.
	ListResults(limit int) ([]model.GameResult, error)

	// Leaderboard aggregates per-player standings ordered by wins.
	// Forfeit wins count as wins; stalemates count for both participants.
	Leaderboard(limit int) ([]model.Standing, error)
}

// Compile-time checks.
var _ DataStore = (*Store)(nil)
var _ DataStore = (*MemoryStore)(nil)
