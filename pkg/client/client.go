package client

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strings"
	"sync"

	"github.com/wordwhiz/wordwhiz/pkg/game"
	"github.com/wordwhiz/wordwhiz/pkg/protocol"
)

// Client is one interactive terminal session against a WordWhiz server.
type Client struct {
	addr    string
	name    string
	conn    net.Conn
	display *Display

	mu      sync.Mutex
	inGame  bool
	guesses int
}

// New creates a client for the given server address and display name.
func New(addr, name string) *Client {
	return &Client{
		addr:    addr,
		name:    name,
		display: NewDisplay(),
	}
}

// Run connects, registers, and drives both directions until the server
// closes the connection or stdin ends.
func (c *Client) Run() error {
	c.display.Banner()

	conn, err := net.Dial("tcp", c.addr)
	if err != nil {
		return fmt.Errorf("client: connect %s: %w", c.addr, err)
	}
	c.conn = conn
	defer func() { _ = conn.Close() }()

	if err := protocol.WriteLine(conn, c.name); err != nil {
		return fmt.Errorf("client: register: %w", err)
	}
	slog.Debug("registered", "name", c.name, "server", c.addr)

	done := make(chan error, 1)
	go func() { done <- c.readLoop() }()
	go c.inputLoop()

	return <-done
}

// readLoop renders every server line until the connection drops.
func (c *Client) readLoop() error {
	lr := protocol.NewLineReader(c.conn)
	for {
		line, err := lr.ReadLine()
		if err != nil {
			if err == io.EOF {
				c.display.Notice("disconnected")
				return nil
			}
			return fmt.Errorf("client: read: %w", err)
		}
		c.handleLine(line)
	}
}

func (c *Client) handleLine(line string) {
	switch {
	case line == protocol.MsgGameStart:
		c.mu.Lock()
		c.inGame = true
		c.guesses = 0
		c.mu.Unlock()
		c.display.GameStart()

	case strings.HasPrefix(line, protocol.PrefixAnswer):
		// The secret stays hidden; the grid colors carry the state.

	case strings.HasPrefix(line, protocol.PrefixFeedback):
		guess, marks, ok := splitFeedback(line[len(protocol.PrefixFeedback):])
		if !ok {
			c.display.Chat(line)
			return
		}
		c.mu.Lock()
		c.guesses++
		used := c.guesses
		c.mu.Unlock()
		c.display.FeedbackRow(guess, marks)
		if allHits(marks) {
			// Tell the server the grid is complete, matching the
			// resolution it reaches on its own.
			_ = protocol.WriteLine(c.conn, protocol.MsgWin)
		} else if used < game.MaxGuesses {
			c.display.Notice(fmt.Sprintf("%d of %d guesses used", used, game.MaxGuesses))
		}

	case line == protocol.MsgInvalidWord:
		c.display.InvalidWord()

	case line == protocol.MsgWin:
		c.display.Win("you guessed it!")

	case strings.HasPrefix(line, protocol.PrefixWinner):
		c.display.Win(line[len(protocol.PrefixWinner):])

	case strings.HasPrefix(line, protocol.PrefixLoser):
		c.display.Lose(line[len(protocol.PrefixLoser):])

	case strings.HasPrefix(line, protocol.PrefixStalemate):
		c.display.Lose(line[len(protocol.PrefixStalemate):])

	case line == protocol.MsgGameOver:
		c.mu.Lock()
		c.inGame = false
		c.mu.Unlock()
		c.display.GameOver()

	case line == protocol.MsgTurn, line == protocol.MsgWaiting:
		// Turn pacing is not used in free-guess duels.

	case strings.HasPrefix(line, protocol.PrefixUsers):
		c.display.Users(line[len(protocol.PrefixUsers):])

	case strings.HasPrefix(line, protocol.PrefixServer):
		c.display.Notice(line[len(protocol.PrefixServer):])

	case strings.HasPrefix(line, protocol.PrefixError):
		c.display.Error(line[len(protocol.PrefixError):])

	default:
		c.display.Chat(line)
	}
}

// inputLoop forwards stdin lines to the server. "/guess <word>" becomes a
// protocol guess; everything else passes through as typed.
func (c *Client) inputLoop() {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if word, ok := strings.CutPrefix(line, "/guess "); ok {
			c.mu.Lock()
			inGame := c.inGame
			c.mu.Unlock()
			if !inGame {
				c.display.Error("no active game")
				continue
			}
			line = protocol.Guess(strings.ToUpper(strings.TrimSpace(word)))
		}
		if err := protocol.WriteLine(c.conn, line); err != nil {
			slog.Debug("write failed", "err", err)
			return
		}
		if line == protocol.CmdQuit {
			return
		}
	}
}

func splitFeedback(rest string) (guess, marks string, ok bool) {
	guess, marks, ok = strings.Cut(rest, ":")
	return
}

func allHits(marks string) bool {
	for i := 0; i < len(marks); i++ {
		if marks[i] != game.MarkHit {
			return false
		}
	}
	return len(marks) > 0
}
