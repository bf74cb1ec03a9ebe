package store

import (
	"path/filepath"
	"testing"

	"github.com/wordwhiz/wordwhiz/pkg/model"
)

// storeImpls returns both DataStore implementations so they stay
// behavior-compatible.
func storeImpls(t *testing.T) map[string]DataStore {
	t.Helper()
	sqlite, err := New(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = sqlite.Close() })
	return map[string]DataStore{
		"sqlite": sqlite,
		"memory": NewMemory(),
	}
}

func seed(t *testing.T, ds DataStore) {
	t.Helper()
	results := []model.GameResult{
		{Winner: "Alice", Loser: "Bob", Secret: "CRANE", WinnerGuesses: 3, LoserGuesses: 2, Outcome: model.OutcomeWin},
		{Winner: "Alice", Loser: "Carol", Secret: "SLATE", WinnerGuesses: 1, LoserGuesses: 4, Outcome: model.OutcomeWin},
		{Winner: "Bob", Loser: "Carol", Secret: "ROBIN", WinnerGuesses: 5, LoserGuesses: 5, Outcome: model.OutcomeStalemate},
		{Winner: "Carol", Loser: "Alice", Secret: "SPEED", WinnerGuesses: 2, LoserGuesses: 0, Outcome: model.OutcomeForfeit},
	}
	for i := range results {
		if err := ds.RecordResult(&results[i]); err != nil {
			t.Fatalf("RecordResult: %v", err)
		}
		if results[i].ID == 0 {
			t.Fatal("RecordResult did not assign an ID")
		}
	}
}

func TestRecordAndListResults(t *testing.T) {
	for name, ds := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			seed(t, ds)

			all, err := ds.ListResults(0)
			if err != nil {
				t.Fatalf("ListResults: %v", err)
			}
			if len(all) != 4 {
				t.Fatalf("ListResults: got %d results, want 4", len(all))
			}
			// Newest first
			if all[0].Secret != "SPEED" || all[3].Secret != "CRANE" {
				t.Errorf("ListResults order wrong: first=%q last=%q", all[0].Secret, all[3].Secret)
			}
			if all[0].Outcome != model.OutcomeForfeit {
				t.Errorf("outcome round trip: got %v, want forfeit", all[0].Outcome)
			}

			limited, err := ds.ListResults(2)
			if err != nil {
				t.Fatalf("ListResults(2): %v", err)
			}
			if len(limited) != 2 {
				t.Errorf("ListResults(2): got %d results", len(limited))
			}
		})
	}
}

func TestLeaderboard(t *testing.T) {
	for name, ds := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			seed(t, ds)

			board, err := ds.Leaderboard(0)
			if err != nil {
				t.Fatalf("Leaderboard: %v", err)
			}
			if len(board) != 3 {
				t.Fatalf("Leaderboard: got %d rows, want 3", len(board))
			}

			// Alice: 2 wins, 1 loss (forfeit against her). Carol: 1 win
			// (forfeit), 2 losses, 1 stalemate. Bob: 0 wins, 1 loss, 1 stalemate.
			if board[0].Username != "Alice" || board[0].Wins != 2 || board[0].Losses != 1 {
				t.Errorf("row 0 = %+v, want Alice 2W/1L", board[0])
			}
			if board[1].Username != "Carol" || board[1].Wins != 1 || board[1].Losses != 2 || board[1].Stalemates != 1 {
				t.Errorf("row 1 = %+v, want Carol 1W/2L/1S", board[1])
			}
			if board[2].Username != "Bob" || board[2].Wins != 0 || board[2].Losses != 1 || board[2].Stalemates != 1 {
				t.Errorf("row 2 = %+v, want Bob 0W/1L/1S", board[2])
			}
		})
	}
}

func TestLeaderboardLimit(t *testing.T) {
	for name, ds := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			seed(t, ds)
			board, err := ds.Leaderboard(1)
			if err != nil {
				t.Fatalf("Leaderboard(1): %v", err)
			}
			if len(board) != 1 || board[0].Username != "Alice" {
				t.Errorf("Leaderboard(1) = %+v, want single Alice row", board)
			}
		})
	}
}
