// Package game holds the duel rules that do not depend on any server state:
// the per-position feedback marks and the guess allowance.
package game

import "strings"

// MaxGuesses is the per-player guess allowance for one duel.
const MaxGuesses = 5

// Feedback marks, one character per guess position.
const (
	MarkHit     = 'G' // letter in the correct position
	MarkPresent = 'Y' // letter occurs somewhere in the secret
	MarkMiss    = 'R' // letter absent from the secret
)

// Feedback classifies guess against secret position by position.
//
// A position is marked G when the letters match, Y when the guessed letter
// occurs anywhere in the secret, and R otherwise. The Y check is not
// consumption-tracked: a letter occurring once in the secret marks Y at every
// guess position that carries it. Clients depend on this exact behavior.
func Feedback(secret, guess string) string {
	var b strings.Builder
	b.Grow(len(guess))
	for i := 0; i < len(guess); i++ {
		switch {
		case i < len(secret) && guess[i] == secret[i]:
			b.WriteByte(MarkHit)
		case strings.IndexByte(secret, guess[i]) >= 0:
			b.WriteByte(MarkPresent)
		default:
			b.WriteByte(MarkMiss)
		}
	}
	return b.String()
}
