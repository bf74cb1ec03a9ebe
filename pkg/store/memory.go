package store

import (
	"sort"
	"sync"
	"time"

	"github.com/wordwhiz/wordwhiz/pkg/model"
)

// MemoryStore is an in-memory DataStore for tests. It mirrors the SQLite
// store's aggregation rules.
type MemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	results []model.GameResult
	now     func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{nextID: 1, now: time.Now}
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error { return nil }

// RecordResult appends one resolved duel and assigns its ID.
func (m *MemoryStore) RecordResult(res *model.GameResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	res.ID = m.nextID
	m.nextID++
	res.CreatedAt = m.now().UTC()
	m.results = append(m.results, *res)
	return nil
}

// ListResults returns the most recent results, newest first.
func (m *MemoryStore) ListResults(limit int) ([]model.GameResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.GameResult, 0, len(m.results))
	for i := len(m.results) - 1; i >= 0; i-- {
		out = append(out, m.results[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Leaderboard aggregates per-player standings ordered by wins descending.
func (m *MemoryStore) Leaderboard(limit int) ([]model.Standing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byName := make(map[string]*model.Standing)
	get := func(name string) *model.Standing {
		st, ok := byName[name]
		if !ok {
			st = &model.Standing{Username: name}
			byName[name] = st
		}
		return st
	}

	for _, res := range m.results {
		switch res.Outcome {
		case model.OutcomeStalemate:
			get(res.Winner).Stalemates++
			get(res.Loser).Stalemates++
		default: // win and forfeit both score for the winner
			get(res.Winner).Wins++
			get(res.Loser).Losses++
		}
	}

	out := make([]model.Standing, 0, len(byName))
	for _, st := range byName {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		if out[i].Losses != out[j].Losses {
			return out[i].Losses < out[j].Losses
		}
		return out[i].Username < out[j].Username
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
