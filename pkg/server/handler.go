package server

import (
	"io"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/wordwhiz/wordwhiz/pkg/model"
	"github.com/wordwhiz/wordwhiz/pkg/protocol"
)

// registerTimeout bounds how long a fresh connection may take to send its
// display name line.
const registerTimeout = 30 * time.Second

// handleConn owns one client connection from accept to disconnect: name
// negotiation, the dispatch loop, and cleanup. Runs as its own goroutine.
func (s *Server) handleConn(conn net.Conn) {
	defer func() { _ = conn.Close() }()

	remoteAddr := conn.RemoteAddr().String()
	s.metrics.TotalConnections.Add(1)
	s.metrics.ActiveConnections.Add(1)
	defer s.metrics.ActiveConnections.Add(-1)
	slog.Debug("new connection", "remote", remoteAddr)

	lr := protocol.NewLineReader(conn)

	// First line is the display name.
	_ = conn.SetReadDeadline(time.Now().Add(registerTimeout))
	nameLine, err := lr.ReadLine()
	if err != nil {
		slog.Debug("registration read failed", "remote", remoteAddr, "err", err)
		return
	}
	_ = conn.SetReadDeadline(time.Time{}) // clear deadline

	name := strings.TrimSpace(nameLine)
	if err := model.ValidateUsername(name); err != nil {
		_ = protocol.WriteLine(conn, protocol.ErrorLine("Username "+rejectionReason(err)))
		s.metrics.RejectedRegistrations.Add(1)
		slog.Debug("registration rejected", "remote", remoteAddr, "err", err)
		return
	}

	sess := newSession(name, conn)
	if err := s.registry.Register(sess); err != nil {
		_ = protocol.WriteLine(conn, protocol.ErrorLine("Username is already taken."))
		s.metrics.RejectedRegistrations.Add(1)
		slog.Debug("registration rejected", "remote", remoteAddr, "name", name, "err", err)
		return
	}
	go sess.writeLoop()

	s.metrics.Registrations.Add(1)
	slog.Info("client joined", "user", name, "remote", remoteAddr)
	s.broadcaster.SendUserList()
	s.broadcaster.Broadcast(name+" has joined the chat.", sess)

	defer func() {
		// Cleanup on disconnect: an abandoned duel resolves as a forfeit
		// before the departure is announced.
		s.games.HandleDisconnect(name)
		s.broadcaster.Broadcast(name+" has left the chat.", sess)
		s.registry.Unregister(name)
		s.broadcaster.SendUserList()
		sess.close()
		s.metrics.TotalDisconnects.Add(1)
		slog.Info("client disconnected", "user", name)
	}()

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		line, err := lr.ReadLine()
		if err != nil {
			if err != io.EOF {
				slog.Debug("read error", "user", name, "err", err)
			}
			return
		}

		cmd := protocol.Parse(line)
		switch cmd.Kind {
		case protocol.KindGuess:
			s.games.HandleGuess(sess, cmd.Arg)

		case protocol.KindWin:
			s.games.HandleWin(sess)

		case protocol.KindChallenge:
			s.challenges.Challenge(sess, cmd.Arg)

		case protocol.KindAccept:
			s.challenges.Accept(sess)

		case protocol.KindDecline:
			s.challenges.Decline(sess)

		case protocol.KindQuit:
			return

		case protocol.KindFarewell:
			s.broadcaster.Broadcast(protocol.ServerNotice("Goodbye, "+name), sess)

		case protocol.KindAllUsers:
			s.broadcaster.SendUserList()

		case protocol.KindChat:
			slog.Debug("chat", "user", name, "text", cmd.Arg)
			s.broadcaster.Broadcast(protocol.Chat(name, cmd.Arg), sess)
			s.metrics.ChatMessages.Add(1)
		}
	}
}

// rejectionReason renders a validation error the way the registration
// rejection line spells it.
func rejectionReason(err error) string {
	switch err {
	case model.ErrUsernameEmpty:
		return "cannot be blank."
	case model.ErrUsernameTooLong:
		return "cannot exceed 16 characters."
	default:
		return "is invalid."
	}
}
