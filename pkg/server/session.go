package server

import (
	"net"
	"sync"

	"github.com/wordwhiz/wordwhiz/pkg/protocol"
)

// sendBuffer is the outbound queue depth per session. A full queue means the
// peer has stopped reading; further sends are dropped and the owning read
// loop will notice the dead connection on its own.
const sendBuffer = 64

// Session is one registered client. It owns the outbound side of the
// connection: all writes go through the out channel and a single writer
// goroutine, so concurrent senders never interleave partial lines.
type Session struct {
	name string
	conn net.Conn

	out  chan string
	done chan struct{}
	once sync.Once
}

func newSession(name string, conn net.Conn) *Session {
	return &Session{
		name: name,
		conn: conn,
		out:  make(chan string, sendBuffer),
		done: make(chan struct{}),
	}
}

// Name returns the session's display name.
func (s *Session) Name() string {
	return s.name
}

// Send queues one protocol line for delivery. It never blocks: lines to a
// closed or stalled session are dropped.
func (s *Session) Send(line string) {
	select {
	case <-s.done:
	case s.out <- line:
	default:
	}
}

// writeLoop drains the outbound queue onto the connection. Runs as one
// goroutine per session; exits on close or the first write error.
func (s *Session) writeLoop() {
	for {
		select {
		case <-s.done:
			return
		case line := <-s.out:
			if err := protocol.WriteLine(s.conn, line); err != nil {
				return
			}
		}
	}
}

// close releases the session. Safe to call more than once.
func (s *Session) close() {
	s.once.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}
