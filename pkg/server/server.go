// Package server implements the WordWhiz chat and duel server.
package server

import (
	"context"
	"net"
	"time"

	"github.com/wordwhiz/wordwhiz/pkg/store"
	"github.com/wordwhiz/wordwhiz/pkg/words"
)

// Config holds server configuration. Fields can come from flags, a YAML
// config file, or environment variables.
type Config struct {
	Addr             string        `yaml:"addr" env:"WORDWHIZ_ADDR"`                           // TCP bind address (e.g. ":9400")
	AnswersFile      string        `yaml:"answers_file" env:"WORDWHIZ_ANSWERS"`                // answers word list, one word per line
	AllowedFile      string        `yaml:"allowed_file" env:"WORDWHIZ_ALLOWED"`                // allowed-guess word list
	DBPath           string        `yaml:"db_path" env:"WORDWHIZ_DB"`                          // SQLite results database ("" = no persistence)
	MetricsAddr      string        `yaml:"metrics_addr" env:"WORDWHIZ_METRICS_ADDR"`           // HTTP bind address for /metrics ("" = disabled)
	ChallengeTimeout time.Duration `yaml:"challenge_timeout" env:"WORDWHIZ_CHALLENGE_TIMEOUT"` // pending challenge expiry

	// CLI-only actions (run and exit)
	ExportResults bool `yaml:"-" env:"-"` // export all game results as YAML and exit
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:             ":9400",
		AnswersFile:      "wordlist.txt",
		AllowedFile:      "allowed.txt",
		DBPath:           "wordwhiz.db",
		MetricsAddr:      ":9401",
		ChallengeTimeout: DefaultChallengeTimeout,
	}
}

// Dependencies holds external dependencies for the server.
// Server assumes ownership of Results and will Close() it on shutdown.
type Dependencies struct {
	Bank    *words.Bank
	Results store.DataStore // nil disables result persistence
}

// Server is the WordWhiz server.
type Server struct {
	cfg         Config
	registry    *SessionRegistry
	broadcaster *Broadcaster
	games       *GameCoordinator
	challenges  *ChallengeCoordinator
	metrics     *Metrics
	results     store.DataStore
	listener    net.Listener
	ctx         context.Context
	cancel      context.CancelFunc
}

// New creates a new Server instance.
func New(cfg Config, deps Dependencies) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	registry := NewSessionRegistry()
	broadcaster := NewBroadcaster(registry)
	metrics := NewMetrics()
	games := NewGameCoordinator(deps.Bank, registry, broadcaster, deps.Results, metrics)
	challenges := NewChallengeCoordinator(registry, games, metrics)
	if cfg.ChallengeTimeout > 0 {
		challenges.timeout = cfg.ChallengeTimeout
	}

	return &Server{
		cfg:         cfg,
		registry:    registry,
		broadcaster: broadcaster,
		games:       games,
		challenges:  challenges,
		metrics:     metrics,
		results:     deps.Results,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Registry returns the session registry.
func (s *Server) Registry() *SessionRegistry {
	return s.registry
}

// Games returns the game coordinator.
func (s *Server) Games() *GameCoordinator {
	return s.games
}

// Metrics returns the server metrics.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}
