package client

import (
	"testing"
)

func TestSplitFeedback(t *testing.T) {
	guess, marks, ok := splitFeedback("RANGE:YYYRG")
	if !ok || guess != "RANGE" || marks != "YYYRG" {
		t.Errorf("splitFeedback = %q, %q, %v", guess, marks, ok)
	}
	if _, _, ok := splitFeedback("garbled"); ok {
		t.Error("splitFeedback accepted a line without a separator")
	}
}

func TestAllHits(t *testing.T) {
	cases := []struct {
		marks string
		want  bool
	}{
		{"GGGGG", true},
		{"GGGGY", false},
		{"RRRRR", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := allHits(tc.marks); got != tc.want {
			t.Errorf("allHits(%q) = %v, want %v", tc.marks, got, tc.want)
		}
	}
}

func TestGameStateTracking(t *testing.T) {
	c := New("localhost:9400", "tester")

	c.handleLine("GAME_START")
	if !c.inGame {
		t.Fatal("not in game after GAME_START")
	}

	c.handleLine("GUESS_FEEDBACK:RANGE:YYYRG")
	if c.guesses != 1 {
		t.Errorf("guesses = %d, want 1", c.guesses)
	}

	c.handleLine("GAME_OVER")
	if c.inGame {
		t.Error("still in game after GAME_OVER")
	}
}
