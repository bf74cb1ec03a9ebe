package server

import (
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"
)

// Metrics tracks server runtime statistics.
// All counters use atomic operations for lock-free concurrent access.
type Metrics struct {
	startTime time.Time

	// Connection counters
	TotalConnections      atomic.Int64 // lifetime TCP connections accepted
	ActiveConnections     atomic.Int64 // current active connections
	Registrations         atomic.Int64 // successful name registrations
	RejectedRegistrations atomic.Int64 // blank/oversized/duplicate names
	TotalDisconnects      atomic.Int64 // total client disconnects (clean + unclean)

	// Chat counters
	ChatMessages atomic.Int64 // chat lines relayed

	// Challenge counters
	ChallengesIssued   atomic.Int64
	ChallengesAccepted atomic.Int64
	ChallengesDeclined atomic.Int64
	ChallengesExpired  atomic.Int64

	// Game counters
	GamesStarted    atomic.Int64
	GamesWon        atomic.Int64
	GamesStalemated atomic.Int64
	GamesForfeited  atomic.Int64
	GuessesHandled  atomic.Int64 // legal guesses counted against the allowance
	InvalidWords    atomic.Int64 // out-of-vocabulary guesses rejected
}

// NewMetrics creates a new Metrics instance with the start time set to now.
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),
	}
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	Uptime        string `json:"uptime"`
	UptimeSeconds int64  `json:"uptime_seconds"`

	ActiveConnections     int64 `json:"active_connections"`
	TotalConnections      int64 `json:"total_connections"`
	Registrations         int64 `json:"registrations"`
	RejectedRegistrations int64 `json:"rejected_registrations"`
	TotalDisconnects      int64 `json:"total_disconnects"`

	ChatMessages int64 `json:"chat_messages"`

	ChallengesIssued   int64 `json:"challenges_issued"`
	ChallengesAccepted int64 `json:"challenges_accepted"`
	ChallengesDeclined int64 `json:"challenges_declined"`
	ChallengesExpired  int64 `json:"challenges_expired"`

	GamesStarted    int64 `json:"games_started"`
	GamesWon        int64 `json:"games_won"`
	GamesStalemated int64 `json:"games_stalemated"`
	GamesForfeited  int64 `json:"games_forfeited"`
	GuessesHandled  int64 `json:"guesses_handled"`
	InvalidWords    int64 `json:"invalid_words"`
}

// Snapshot returns a read-consistent snapshot of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	uptime := time.Since(m.startTime)
	return MetricsSnapshot{
		Uptime:                uptime.Truncate(time.Second).String(),
		UptimeSeconds:         int64(uptime.Seconds()),
		ActiveConnections:     m.ActiveConnections.Load(),
		TotalConnections:      m.TotalConnections.Load(),
		Registrations:         m.Registrations.Load(),
		RejectedRegistrations: m.RejectedRegistrations.Load(),
		TotalDisconnects:      m.TotalDisconnects.Load(),
		ChatMessages:          m.ChatMessages.Load(),
		ChallengesIssued:      m.ChallengesIssued.Load(),
		ChallengesAccepted:    m.ChallengesAccepted.Load(),
		ChallengesDeclined:    m.ChallengesDeclined.Load(),
		ChallengesExpired:     m.ChallengesExpired.Load(),
		GamesStarted:          m.GamesStarted.Load(),
		GamesWon:              m.GamesWon.Load(),
		GamesStalemated:       m.GamesStalemated.Load(),
		GamesForfeited:        m.GamesForfeited.Load(),
		GuessesHandled:        m.GuessesHandled.Load(),
		InvalidWords:          m.InvalidWords.Load(),
	}
}

// JSON returns the metrics snapshot as a JSON string.
func (m *Metrics) JSON() string {
	data, err := json.MarshalIndent(m.Snapshot(), "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// LogSummary writes a periodic metrics summary to the logger.
func (m *Metrics) LogSummary() {
	s := m.Snapshot()
	slog.Info("metrics",
		"uptime", s.Uptime,
		"connections", s.ActiveConnections,
		"total_connections", s.TotalConnections,
		"chat_msgs", s.ChatMessages,
		"games_started", s.GamesStarted,
		"games_won", s.GamesWon,
		"guesses", s.GuessesHandled,
	)
}

// StartPeriodicLog starts a goroutine that logs metrics every interval.
// It stops when the done channel is closed.
func (m *Metrics) StartPeriodicLog(interval time.Duration, done <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				m.LogSummary()
			}
		}
	}()
}
