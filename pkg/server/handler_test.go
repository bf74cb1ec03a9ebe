package server

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/wordwhiz/wordwhiz/pkg/protocol"
	"github.com/wordwhiz/wordwhiz/pkg/store"
)

// startNetServer runs a full server on an ephemeral port for end-to-end
// tests over real TCP connections.
func startNetServer(t *testing.T) (*Server, string, *store.MemoryStore) {
	t.Helper()
	results := store.NewMemory()
	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	cfg.MetricsAddr = ""
	srv := New(cfg, Dependencies{Bank: testBank(t), Results: results})
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Shutdown)
	return srv, srv.Addr().String(), results
}

type testClient struct {
	t    *testing.T
	conn net.Conn
	r    *bufio.Reader
}

// dial connects and completes name negotiation.
func dial(t *testing.T, addr, name string) *testClient {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	c := &testClient{t: t, conn: conn, r: bufio.NewReader(conn)}
	c.send(name)
	return c
}

func (c *testClient) send(line string) {
	c.t.Helper()
	if err := protocol.WriteLine(c.conn, line); err != nil {
		c.t.Fatalf("send %q: %v", line, err)
	}
}

func (c *testClient) readLine() (string, error) {
	_ = c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := c.r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// expect reads lines until one equals want, skipping interleaved
// broadcasts.
func (c *testClient) expect(want string) {
	c.t.Helper()
	var seen []string
	for {
		line, err := c.readLine()
		if err != nil {
			c.t.Fatalf("waiting for %q: %v (saw %q)", want, err, seen)
		}
		if line == want {
			return
		}
		seen = append(seen, line)
	}
}

// expectPrefix reads lines until one starts with prefix and returns it.
func (c *testClient) expectPrefix(prefix string) string {
	c.t.Helper()
	var seen []string
	for {
		line, err := c.readLine()
		if err != nil {
			c.t.Fatalf("waiting for prefix %q: %v (saw %q)", prefix, err, seen)
		}
		if strings.HasPrefix(line, prefix) {
			return line
		}
		seen = append(seen, line)
	}
}

// expectClosed asserts the server ends the connection.
func (c *testClient) expectClosed() {
	c.t.Helper()
	for {
		if _, err := c.readLine(); err != nil {
			return
		}
	}
}

func TestEndToEndDuel(t *testing.T) {
	_, addr, results := startNetServer(t)

	alice := dial(t, addr, "Alice")
	alice.expect("USERS:Alice")
	bob := dial(t, addr, "Bob")
	bob.expect("USERS:Alice,Bob")
	alice.expect("USERS:Alice,Bob")
	alice.expect("Bob has joined the chat.")

	alice.send("/challenge Bob")
	bob.expect("SERVER: Alice has challenged you to a game! Type /y to accept or /n to decline.")
	alice.expect("SERVER: Challenge sent to Bob")

	bob.send("/y")
	for _, c := range []*testClient{alice, bob} {
		c.expect(protocol.MsgGameStart)
		c.expect("ANSWER:CRANE")
	}

	bob.send("GUESS:RANGE")
	bob.expect("GUESS_FEEDBACK:RANGE:YYYRG")

	bob.send("GUESS:crane")
	bob.expect("GUESS_FEEDBACK:CRANE:GGGGG")
	bob.expect(protocol.MsgWin)
	bob.expect("WINNER: You won by guessing the word first! The word was: CRANE")
	bob.expect(protocol.MsgGameOver)

	alice.expect("LOSER: Bob guessed the word first! The word was: CRANE")
	alice.expect(protocol.MsgGameOver)

	deadline := time.Now().Add(2 * time.Second)
	for {
		recorded, err := results.ListResults(0)
		if err != nil {
			t.Fatalf("ListResults: %v", err)
		}
		if len(recorded) == 1 {
			if recorded[0].Winner != "Bob" || recorded[0].Loser != "Alice" {
				t.Fatalf("recorded result = %+v", recorded[0])
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("result was not recorded")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestEndToEndChat(t *testing.T) {
	_, addr, _ := startNetServer(t)

	alice := dial(t, addr, "Alice")
	bob := dial(t, addr, "Bob")
	bob.expect("USERS:Alice,Bob")

	alice.send("hello there")
	bob.expect("Alice: hello there")

	bob.send("/allUsers")
	bob.expect("USERS:Alice,Bob")
}

func TestRegistrationRejection(t *testing.T) {
	_, addr, _ := startNetServer(t)

	blank := dial(t, addr, "   ")
	blank.expect("ERROR: Username cannot be blank.")
	blank.expectClosed()

	long := dial(t, addr, strings.Repeat("x", 17))
	long.expect("ERROR: Username cannot exceed 16 characters.")
	long.expectClosed()

	first := dial(t, addr, "Alice")
	first.expect("USERS:Alice")
	dup := dial(t, addr, "Alice")
	dup.expect("ERROR: Username is already taken.")
	dup.expectClosed()

	// The original holder is unaffected.
	first.send("/allUsers")
	first.expect("USERS:Alice")
}

func TestQuitAnnouncesDeparture(t *testing.T) {
	_, addr, _ := startNetServer(t)

	alice := dial(t, addr, "Alice")
	bob := dial(t, addr, "Bob")
	bob.expect("USERS:Alice,Bob")

	bob.send("/quit")
	alice.expect("Bob has left the chat.")
	alice.expect("USERS:Alice")
}

func TestDisconnectForfeitsOverTCP(t *testing.T) {
	_, addr, _ := startNetServer(t)

	alice := dial(t, addr, "Alice")
	bob := dial(t, addr, "Bob")
	bob.expect("USERS:Alice,Bob")

	alice.send("/challenge Bob")
	bob.expect("SERVER: Alice has challenged you to a game! Type /y to accept or /n to decline.")
	bob.send("/y")
	alice.expect(protocol.MsgGameStart)
	bob.expect(protocol.MsgGameStart)

	_ = alice.conn.Close()

	bob.expect("WINNER: Alice left the game. You win by forfeit! The word was: CRANE")
	bob.expect(protocol.MsgGameOver)
	bob.expect("Alice has left the chat.")
}
