package server

import (
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wordwhiz/wordwhiz/pkg/store"
	"github.com/wordwhiz/wordwhiz/pkg/words"
)

type nopConn struct{}

func (c *nopConn) Read(_ []byte) (int, error)         { return 0, io.EOF }
func (c *nopConn) Write(p []byte) (int, error)        { return len(p), nil }
func (c *nopConn) Close() error                       { return nil }
func (c *nopConn) LocalAddr() net.Addr                { return &net.IPAddr{} }
func (c *nopConn) RemoteAddr() net.Addr               { return &net.IPAddr{} }
func (c *nopConn) SetDeadline(_ time.Time) error      { return nil }
func (c *nopConn) SetReadDeadline(_ time.Time) error  { return nil }
func (c *nopConn) SetWriteDeadline(_ time.Time) error { return nil }

// testBank builds a bank with a single answer so the selected secret is
// always CRANE.
func testBank(t *testing.T) *words.Bank {
	t.Helper()
	dir := t.TempDir()
	answers := filepath.Join(dir, "answers.txt")
	allowed := filepath.Join(dir, "allowed.txt")
	if err := os.WriteFile(answers, []byte("crane\n"), 0o600); err != nil {
		t.Fatalf("write answers: %v", err)
	}
	if err := os.WriteFile(allowed, []byte("range\nerase\nslate\nmossy\n"), 0o600); err != nil {
		t.Fatalf("write allowed: %v", err)
	}
	bank, err := words.Load(answers, allowed)
	if err != nil {
		t.Fatalf("words.Load: %v", err)
	}
	return bank
}

func newTestServer(t *testing.T) (*Server, *store.MemoryStore) {
	t.Helper()
	results := store.NewMemory()
	cfg := DefaultConfig()
	cfg.MetricsAddr = ""
	srv := New(cfg, Dependencies{Bank: testBank(t), Results: results})
	return srv, results
}

// addSession registers a session backed by a no-op connection. Its write
// loop is not started, so queued lines stay observable on the out channel.
func addSession(t *testing.T, srv *Server, name string) *Session {
	t.Helper()
	sess := newSession(name, &nopConn{})
	if err := srv.registry.Register(sess); err != nil {
		t.Fatalf("Register(%q): %v", name, err)
	}
	return sess
}

// drain empties a session's outbound queue.
func drain(sess *Session) []string {
	var out []string
	for {
		select {
		case line := <-sess.out:
			out = append(out, line)
		default:
			return out
		}
	}
}

func wantLine(t *testing.T, lines []string, want string) {
	t.Helper()
	for _, line := range lines {
		if line == want {
			return
		}
	}
	t.Errorf("missing line %q in %q", want, lines)
}

func wantPrefix(t *testing.T, lines []string, prefix string) string {
	t.Helper()
	for _, line := range lines {
		if strings.HasPrefix(line, prefix) {
			return line
		}
	}
	t.Errorf("missing line with prefix %q in %q", prefix, lines)
	return ""
}

func wantNoPrefix(t *testing.T, lines []string, prefix string) {
	t.Helper()
	for _, line := range lines {
		if strings.HasPrefix(line, prefix) {
			t.Errorf("unexpected line %q (prefix %q)", line, prefix)
		}
	}
}
