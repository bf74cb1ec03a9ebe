// Package model defines the core domain types for WordWhiz.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const MaxUsernameLength = 16

var ErrUsernameEmpty = errors.New("username must not be blank")
var ErrUsernameTooLong = fmt.Errorf("username must not exceed %d characters", MaxUsernameLength)

// ValidateUsername checks that a display name is non-blank and at most
// 16 characters. Returns nil on success or a descriptive error.
func ValidateUsername(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrUsernameEmpty
	}
	if len(name) > MaxUsernameLength {
		return ErrUsernameTooLong
	}
	return nil
}

// Outcome describes how a game ended.
type Outcome int

const (
	OutcomeWin       Outcome = iota // a player guessed the secret
	OutcomeStalemate                // both players exhausted their guesses
	OutcomeForfeit                  // a player disconnected mid-game
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeStalemate:
		return "stalemate"
	case OutcomeForfeit:
		return "forfeit"
	default:
		return "unknown"
	}
}

// ParseOutcome converts a string to an Outcome.
func ParseOutcome(s string) Outcome {
	switch s {
	case "stalemate":
		return OutcomeStalemate
	case "forfeit":
		return OutcomeForfeit
	default:
		return OutcomeWin
	}
}

// GameResult is one resolved duel. For stalemates Winner/Loser hold the two
// participants in arbitrary order; for forfeits Loser is the player who left.
type GameResult struct {
	ID            int64     `json:"id"`
	Winner        string    `json:"winner"`
	Loser         string    `json:"loser"`
	Secret        string    `json:"secret"`
	WinnerGuesses int       `json:"winner_guesses"`
	LoserGuesses  int       `json:"loser_guesses"`
	Outcome       Outcome   `json:"outcome"`
	CreatedAt     time.Time `json:"created_at"`
}

// Standing is one row of the leaderboard.
type Standing struct {
	Username   string `json:"username"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
	Stalemates int    `json:"stalemates"`
}
