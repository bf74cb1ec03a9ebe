// Package protocol defines the WordWhiz line protocol.
//
// Transport is one TCP connection per client carrying newline-delimited
// plain-text lines in both directions. The first line a client sends is its
// display name; every later line is either a command, a guess, or free chat.
package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// MaxLineLength bounds a single protocol line. Longer lines abort the
// connection's read loop.
const MaxLineLength = 512

// Server -> client messages.
const (
	MsgGameStart   = "GAME_START"
	MsgInvalidWord = "INVALID_WORD"
	MsgWin         = "WIN"
	MsgTurn        = "TURN"
	MsgWaiting     = "WAITING"
	MsgGameOver    = "GAME_OVER"

	PrefixAnswer    = "ANSWER:"
	PrefixFeedback  = "GUESS_FEEDBACK:"
	PrefixWinner    = "WINNER: "
	PrefixLoser     = "LOSER: "
	PrefixStalemate = "STALEMATE: "
	PrefixUsers     = "USERS:"
	PrefixServer    = "SERVER: "
	PrefixError     = "ERROR: "
)

// Client -> server forms.
const (
	PrefixGuess  = "GUESS:"
	CmdChallenge = "/challenge "
	CmdAccept    = "/y"
	CmdDecline   = "/n"
	CmdQuit      = "/quit"
	CmdAllUsers  = "/allUsers"
)

// Kind classifies a parsed client line.
type Kind int

const (
	KindChat      Kind = iota // free text, broadcast as "<name>: <text>"
	KindGuess                 // GUESS:<word>
	KindChallenge             // /challenge <name>
	KindAccept                // /y
	KindDecline               // /n
	KindQuit                  // /quit
	KindAllUsers              // /allUsers
	KindWin                   // bare WIN reported by the client UI
	KindFarewell              // "bye" / "goodbye", case-insensitive
)

// Command is one parsed client line. Arg carries the guessed word (already
// uppercased) for KindGuess, the target name for KindChallenge, and the raw
// text for KindChat.
type Command struct {
	Kind Kind
	Arg  string
}

// Parse classifies a single client line.
func Parse(line string) Command {
	switch {
	case line == MsgWin:
		return Command{Kind: KindWin}
	case strings.HasPrefix(line, PrefixGuess):
		word := strings.ToUpper(strings.TrimSpace(line[len(PrefixGuess):]))
		return Command{Kind: KindGuess, Arg: word}
	case strings.HasPrefix(line, CmdChallenge):
		return Command{Kind: KindChallenge, Arg: strings.TrimSpace(line[len(CmdChallenge):])}
	case line == CmdAccept:
		return Command{Kind: KindAccept}
	case line == CmdDecline:
		return Command{Kind: KindDecline}
	case line == CmdQuit:
		return Command{Kind: KindQuit}
	case line == CmdAllUsers:
		return Command{Kind: KindAllUsers}
	case strings.EqualFold(line, "bye") || strings.EqualFold(line, "goodbye"):
		return Command{Kind: KindFarewell}
	default:
		return Command{Kind: KindChat, Arg: line}
	}
}

// ServerNotice formats an administrative notice line.
func ServerNotice(text string) string {
	return PrefixServer + text
}

// ErrorLine formats a registration rejection line.
func ErrorLine(text string) string {
	return PrefixError + text
}

// UserList formats the USERS broadcast from a name snapshot.
func UserList(names []string) string {
	return PrefixUsers + strings.Join(names, ",")
}

// Answer formats the secret-word line sent to both players at game start.
func Answer(secret string) string {
	return PrefixAnswer + secret
}

// Feedback formats a guess feedback line: GUESS_FEEDBACK:<guess>:<marks>.
func Feedback(guess, marks string) string {
	return PrefixFeedback + guess + ":" + marks
}

// Chat formats a relayed chat line.
func Chat(sender, text string) string {
	return sender + ": " + text
}

// Guess formats a client guess line.
func Guess(word string) string {
	return PrefixGuess + word
}

// Challenge formats a client challenge line.
func Challenge(target string) string {
	return CmdChallenge + target
}

// WriteLine writes one protocol line followed by a newline.
func WriteLine(w io.Writer, line string) error {
	if _, err := io.WriteString(w, line+"\n"); err != nil {
		return fmt.Errorf("protocol: write line: %w", err)
	}
	return nil
}

// LineReader reads newline-delimited protocol lines with a length cap.
type LineReader struct {
	s *bufio.Scanner
}

// NewLineReader wraps a connection's read side.
func NewLineReader(r io.Reader) *LineReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 256), MaxLineLength)
	return &LineReader{s: s}
}

// ReadLine returns the next line without its trailing newline. It returns
// io.EOF when the peer closes the connection cleanly.
func (lr *LineReader) ReadLine() (string, error) {
	if !lr.s.Scan() {
		if err := lr.s.Err(); err != nil {
			return "", fmt.Errorf("protocol: read line: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimRight(lr.s.Text(), "\r"), nil
}
