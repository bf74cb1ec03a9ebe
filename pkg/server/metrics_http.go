package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// StartMetricsHTTP starts a lightweight HTTP server that exposes /metrics
// in Prometheus text exposition format. It runs in the background and
// shuts down when the server context is cancelled.
func (s *Server) StartMetricsHTTP() {
	addr := s.cfg.MetricsAddr
	if addr == "" {
		return // metrics endpoint disabled
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("metrics HTTP listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics HTTP error", "err", err)
		}
	}()

	go func() {
		<-s.ctx.Done()
		_ = srv.Close()
	}()
}

// handleMetrics writes all metrics in Prometheus text exposition format.
func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	m := s.metrics
	uptime := time.Since(m.startTime).Seconds()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	// Write errors to http.ResponseWriter are non-actionable; suppress errcheck.
	write := func(name, help, mtype string, value int64) {
		_, _ = fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		_, _ = fmt.Fprintf(w, "# TYPE %s %s\n", name, mtype)
		_, _ = fmt.Fprintf(w, "%s %d\n", name, value)
	}

	_, _ = fmt.Fprintf(w, "# HELP wordwhiz_uptime_seconds Server uptime in seconds.\n")
	_, _ = fmt.Fprintf(w, "# TYPE wordwhiz_uptime_seconds gauge\n")
	_, _ = fmt.Fprintf(w, "wordwhiz_uptime_seconds %f\n", uptime)

	write("wordwhiz_connections_active", "Current active connections.", "gauge",
		m.ActiveConnections.Load())
	write("wordwhiz_connections_total", "Lifetime TCP connections accepted.", "counter",
		m.TotalConnections.Load())
	write("wordwhiz_disconnects_total", "Total client disconnects.", "counter",
		m.TotalDisconnects.Load())

	write("wordwhiz_registrations_total", "Successful name registrations.", "counter",
		m.Registrations.Load())
	write("wordwhiz_registrations_rejected_total", "Rejected name registrations.", "counter",
		m.RejectedRegistrations.Load())

	write("wordwhiz_chat_messages_total", "Chat lines relayed.", "counter",
		m.ChatMessages.Load())

	write("wordwhiz_challenges_issued_total", "Challenges issued.", "counter",
		m.ChallengesIssued.Load())
	write("wordwhiz_challenges_accepted_total", "Challenges accepted.", "counter",
		m.ChallengesAccepted.Load())
	write("wordwhiz_challenges_declined_total", "Challenges declined.", "counter",
		m.ChallengesDeclined.Load())
	write("wordwhiz_challenges_expired_total", "Challenges that timed out.", "counter",
		m.ChallengesExpired.Load())

	write("wordwhiz_games_started_total", "Duels started.", "counter",
		m.GamesStarted.Load())
	write("wordwhiz_games_won_total", "Duels resolved by a winning guess.", "counter",
		m.GamesWon.Load())
	write("wordwhiz_games_stalemated_total", "Duels resolved as stalemates.", "counter",
		m.GamesStalemated.Load())
	write("wordwhiz_games_forfeited_total", "Duels resolved by disconnect.", "counter",
		m.GamesForfeited.Load())
	write("wordwhiz_guesses_total", "Legal guesses processed.", "counter",
		m.GuessesHandled.Load())
	write("wordwhiz_invalid_words_total", "Out-of-vocabulary guesses rejected.", "counter",
		m.InvalidWords.Load())
}
