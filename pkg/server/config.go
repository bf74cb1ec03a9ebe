package server

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/wordwhiz/wordwhiz/pkg/store"
)

// LoadConfigFile merges a YAML config file into cfg. Absent keys leave the
// current values untouched.
func LoadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path) //nolint:gosec // path from user-provided CLI flag
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg from WORDWHIZ_* environment variables.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// resultYAML is one game result in YAML export.
type resultYAML struct {
	Winner        string `yaml:"winner"`
	Loser         string `yaml:"loser"`
	Secret        string `yaml:"secret"`
	WinnerGuesses int    `yaml:"winner_guesses"`
	LoserGuesses  int    `yaml:"loser_guesses"`
	Outcome       string `yaml:"outcome"`
	PlayedAt      string `yaml:"played_at"`
}

// standingYAML is one leaderboard row in YAML export.
type standingYAML struct {
	Username   string `yaml:"username"`
	Wins       int    `yaml:"wins"`
	Losses     int    `yaml:"losses"`
	Stalemates int    `yaml:"stalemates,omitempty"`
}

// resultsExport is the top-level YAML for the results export.
type resultsExport struct {
	Leaderboard []standingYAML `yaml:"leaderboard"`
	Results     []resultYAML   `yaml:"results"`
}

// ExportResultsYAML exports the leaderboard and all recorded results as YAML.
func ExportResultsYAML(ds store.DataStore) ([]byte, error) {
	standings, err := ds.Leaderboard(0)
	if err != nil {
		return nil, err
	}
	results, err := ds.ListResults(0)
	if err != nil {
		return nil, err
	}

	export := resultsExport{}
	for _, st := range standings {
		export.Leaderboard = append(export.Leaderboard, standingYAML{
			Username:   st.Username,
			Wins:       st.Wins,
			Losses:     st.Losses,
			Stalemates: st.Stalemates,
		})
	}
	for _, res := range results {
		export.Results = append(export.Results, resultYAML{
			Winner:        res.Winner,
			Loser:         res.Loser,
			Secret:        res.Secret,
			WinnerGuesses: res.WinnerGuesses,
			LoserGuesses:  res.LoserGuesses,
			Outcome:       res.Outcome.String(),
			PlayedAt:      res.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return yaml.Marshal(&export)
}
