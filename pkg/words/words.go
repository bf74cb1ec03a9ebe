// Package words loads the two word lists the duel runs on: the answers the
// server can pick secrets from, and the larger vocabulary of allowed guesses.
package words

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"
)

// Class is the guess-validation classification of a word.
type Class int

const (
	Unknown Class = iota // not in either list; illegal guess
	Answer               // in the answers list; a secret candidate
	Allowed              // in the allowed list only; legal guess
)

// Bank holds both word sets, uppercased. Immutable after Load.
type Bank struct {
	answers   map[string]struct{}
	allowed   map[string]struct{}
	answerArr []string // stable slice for uniform secret selection
}

// Load reads the answers and allowed lists, one word per line, normalizing
// to uppercase and skipping blank lines. The server cannot run without both
// lists, so any read error is returned for the caller to treat as fatal.
func Load(answersPath, allowedPath string) (*Bank, error) {
	answers, order, err := readList(answersPath)
	if err != nil {
		return nil, fmt.Errorf("words: load answers: %w", err)
	}
	if len(answers) == 0 {
		return nil, fmt.Errorf("words: answers list %s is empty", answersPath)
	}
	allowed, _, err := readList(allowedPath)
	if err != nil {
		return nil, fmt.Errorf("words: load allowed: %w", err)
	}
	return &Bank{answers: answers, allowed: allowed, answerArr: order}, nil
}

func readList(path string) (map[string]struct{}, []string, error) {
	f, err := os.Open(path) //nolint:gosec // path from server config
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()

	set := make(map[string]struct{})
	var order []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.ToUpper(strings.TrimSpace(scanner.Text()))
		if word == "" {
			continue
		}
		if _, dup := set[word]; !dup {
			set[word] = struct{}{}
			order = append(order, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return set, order, nil
}

// SelectSecret returns a secret chosen uniformly at random from the answers.
func (b *Bank) SelectSecret() string {
	return b.answerArr[rand.Intn(len(b.answerArr))]
}

// Classify reports whether a word is a secret candidate, merely a legal
// guess, or out of vocabulary.
func (b *Bank) Classify(word string) Class {
	if _, ok := b.answers[word]; ok {
		return Answer
	}
	if _, ok := b.allowed[word]; ok {
		return Allowed
	}
	return Unknown
}

// IsLegalGuess reports whether a word may be played: legal guesses come from
// either list.
func (b *Bank) IsLegalGuess(word string) bool {
	return b.Classify(word) != Unknown
}

// AnswerCount returns the number of secret candidates, for startup logging.
func (b *Bank) AnswerCount() int {
	return len(b.answerArr)
}

// AllowedCount returns the size of the extended guess vocabulary.
func (b *Bank) AllowedCount() int {
	return len(b.allowed)
}
