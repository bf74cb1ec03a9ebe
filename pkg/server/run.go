package server

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Run starts the server and blocks until a shutdown signal.
func (s *Server) Run() error {
	if s.games.bank == nil {
		return fmt.Errorf("server: missing word bank dependency")
	}
	if s.results != nil {
		defer func() { _ = s.results.Close() }()
	}

	if err := s.Start(); err != nil {
		return err
	}

	slog.Info("WordWhiz server running",
		"addr", s.cfg.Addr,
		"answers", s.games.bank.AnswerCount(),
		"allowed", s.games.bank.AllowedCount(),
	)

	// Start the /metrics HTTP endpoint and periodic metrics logging
	s.StartMetricsHTTP()
	s.metrics.StartPeriodicLog(60*time.Second, s.ctx.Done())

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	slog.Info("shutting down...")
	s.Shutdown()
	return nil
}

// Start begins accepting connections without blocking. Tests drive the
// server through this and Shutdown directly.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("server: listen: %w", err)
	}
	s.listener = ln
	slog.Info("listening", "addr", ln.Addr().String())

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
					slog.Error("accept error", "err", err)
					continue
				}
			}
			go s.handleConn(conn)
		}
	}()

	return nil
}

// Addr returns the bound listen address, useful when Config.Addr used
// port 0.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown stops the server.
func (s *Server) Shutdown() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	for _, sess := range s.registry.All() {
		sess.close()
	}
}
