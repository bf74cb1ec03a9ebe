// Package client implements the interactive terminal client.
package client

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/wordwhiz/wordwhiz/pkg/game"
)

// Display renders server traffic to the terminal.
type Display struct {
	serverColor *color.Color
	errorColor  *color.Color
	chatColor   *color.Color
	usersColor  *color.Color
	winColor    *color.Color
	loseColor   *color.Color
	hitColor    *color.Color
	nearColor   *color.Color
	missColor   *color.Color
}

// NewDisplay creates a display with the configured colors.
func NewDisplay() *Display {
	return &Display{
		serverColor: color.New(color.FgCyan),
		errorColor:  color.New(color.FgRed, color.Bold),
		chatColor:   color.New(color.FgWhite),
		usersColor:  color.New(color.FgYellow),
		winColor:    color.New(color.FgGreen, color.Bold),
		loseColor:   color.New(color.FgRed, color.Bold),
		hitColor:    color.New(color.FgBlack, color.BgGreen),
		nearColor:   color.New(color.FgBlack, color.BgYellow),
		missColor:   color.New(color.FgWhite, color.BgHiBlack),
	}
}

// Banner prints the startup banner.
func (d *Display) Banner() {
	banner := `
╔═══════════════════════════════════╗
║        W O R D W H I Z            ║
║   chat · challenge · guess        ║
╚═══════════════════════════════════╝
`
	d.usersColor.Println(banner)
}

// Notice prints a SERVER: line.
func (d *Display) Notice(text string) {
	d.serverColor.Println("[server] " + text)
}

// Error prints an ERROR: line.
func (d *Display) Error(text string) {
	d.errorColor.Println("[error] " + text)
}

// Chat prints a relayed chat line verbatim.
func (d *Display) Chat(line string) {
	d.chatColor.Println(line)
}

// Users prints the current user list.
func (d *Display) Users(csv string) {
	names := strings.Split(csv, ",")
	d.usersColor.Printf("online (%d): %s\n", len(names), strings.Join(names, ", "))
}

// GameStart announces a new duel.
func (d *Display) GameStart() {
	d.winColor.Println("--- game on! you have 5 guesses, /guess <word> ---")
}

// FeedbackRow renders one guess as a colored tile row.
func (d *Display) FeedbackRow(guess, marks string) {
	for i := 0; i < len(guess) && i < len(marks); i++ {
		cell := " " + string(guess[i]) + " "
		switch marks[i] {
		case game.MarkHit:
			d.hitColor.Print(cell)
		case game.MarkPresent:
			d.nearColor.Print(cell)
		default:
			d.missColor.Print(cell)
		}
	}
	fmt.Println()
}

// InvalidWord warns about an out-of-vocabulary guess.
func (d *Display) InvalidWord() {
	d.errorColor.Println("not in the word list, guess not counted")
}

// Win prints the victory banner.
func (d *Display) Win(text string) {
	d.winColor.Println(text)
}

// Lose prints a loss or stalemate notice.
func (d *Display) Lose(text string) {
	d.loseColor.Println(text)
}

// GameOver marks the end of a duel.
func (d *Display) GameOver() {
	d.usersColor.Println("--- game over ---")
}
