package server

import (
	"log/slog"
	"sync"

	"github.com/wordwhiz/wordwhiz/pkg/game"
	"github.com/wordwhiz/wordwhiz/pkg/model"
	"github.com/wordwhiz/wordwhiz/pkg/protocol"
	"github.com/wordwhiz/wordwhiz/pkg/store"
	"github.com/wordwhiz/wordwhiz/pkg/words"
)

// activeGame is one live duel. Both participants' names key the same
// activeGame value in the coordinator, so they always share one secret and
// the win/stalemate resolution clears both entries together.
type activeGame struct {
	secret  string
	players [2]string
	guesses map[string]int
}

func (g *activeGame) opponentOf(name string) string {
	if g.players[0] == name {
		return g.players[1]
	}
	return g.players[0]
}

// GameCoordinator owns all active duels: secret selection, guess
// validation, feedback, and win/stalemate/forfeit resolution.
type GameCoordinator struct {
	bank        *words.Bank
	registry    *SessionRegistry
	broadcaster *Broadcaster
	results     store.DataStore // nil disables result persistence
	metrics     *Metrics

	mu    sync.Mutex
	games map[string]*activeGame // participant name -> shared game
}

// NewGameCoordinator creates a coordinator. results may be nil when no
// store is configured.
func NewGameCoordinator(bank *words.Bank, registry *SessionRegistry, broadcaster *Broadcaster, results store.DataStore, metrics *Metrics) *GameCoordinator {
	return &GameCoordinator{
		bank:        bank,
		registry:    registry,
		broadcaster: broadcaster,
		results:     results,
		metrics:     metrics,
		games:       make(map[string]*activeGame),
	}
}

// StartGame pairs two players to a fresh secret and notifies everyone. A
// player already in a duel cannot enter a second one; the pairing is
// refused with a notice to both.
func (c *GameCoordinator) StartGame(playerA, playerB *Session) {
	secret := c.bank.SelectSecret()

	c.mu.Lock()
	if _, busy := c.games[playerA.Name()]; busy {
		c.mu.Unlock()
		playerA.Send(protocol.ServerNotice("You are already in a game."))
		playerB.Send(protocol.ServerNotice(playerA.Name() + " is already in a game."))
		return
	}
	if _, busy := c.games[playerB.Name()]; busy {
		c.mu.Unlock()
		playerB.Send(protocol.ServerNotice("You are already in a game."))
		playerA.Send(protocol.ServerNotice(playerB.Name() + " is already in a game."))
		return
	}
	g := &activeGame{
		secret:  secret,
		players: [2]string{playerA.Name(), playerB.Name()},
		guesses: map[string]int{playerA.Name(): 0, playerB.Name(): 0},
	}
	c.games[playerA.Name()] = g
	c.games[playerB.Name()] = g
	c.mu.Unlock()

	playerA.Send(protocol.MsgGameStart)
	playerB.Send(protocol.MsgGameStart)
	// The secret goes to both clients so they can drive the guess grid
	// locally; fairness rests on the UI not revealing it.
	playerA.Send(protocol.Answer(secret))
	playerB.Send(protocol.Answer(secret))

	c.broadcaster.Broadcast(playerA.Name()+" and "+playerB.Name()+
		" have started a game of WordWhiz against each other. To challenge a user, type \"/challenge (username)\".", nil)

	c.metrics.GamesStarted.Add(1)
	slog.Info("game started", "player_a", playerA.Name(), "player_b", playerB.Name())
}

// HandleGuess validates and scores one guess. The word must already be
// uppercased. Out-of-vocabulary guesses do not count against the allowance;
// legal guesses produce a feedback line for the guesser only.
func (c *GameCoordinator) HandleGuess(player *Session, word string) {
	name := player.Name()

	c.mu.Lock()
	g, ok := c.games[name]
	if !ok {
		c.mu.Unlock()
		player.Send(protocol.ServerNotice("No active game."))
		return
	}
	if !c.bank.IsLegalGuess(word) {
		c.mu.Unlock()
		player.Send(protocol.MsgInvalidWord)
		c.metrics.InvalidWords.Add(1)
		return
	}
	if g.guesses[name] >= game.MaxGuesses {
		c.mu.Unlock()
		player.Send(protocol.ServerNotice("You have used all your guesses."))
		return
	}
	g.guesses[name]++
	count := g.guesses[name]
	secret := g.secret
	opponentCount := g.guesses[g.opponentOf(name)]
	c.mu.Unlock()

	c.metrics.GuessesHandled.Add(1)
	player.Send(protocol.Feedback(word, game.Feedback(secret, word)))

	if word == secret {
		player.Send(protocol.MsgWin)
		c.endGame(name, true)
		return
	}

	if count >= game.MaxGuesses && opponentCount >= game.MaxGuesses {
		c.endGame(name, false)
	}
}

// HandleWin routes a client-reported win into the shared resolution path.
// The game window reports a completed grid with this line.
func (c *GameCoordinator) HandleWin(player *Session) {
	c.endGame(player.Name(), true)
}

// HandleDisconnect resolves any duel the departed player was in as a
// forfeit win for the remaining player, so no game is ever left dangling.
func (c *GameCoordinator) HandleDisconnect(name string) {
	c.mu.Lock()
	g, ok := c.games[name]
	if !ok {
		c.mu.Unlock()
		return
	}
	opponentName := g.opponentOf(name)
	secret := g.secret
	leaverGuesses := g.guesses[name]
	opponentGuesses := g.guesses[opponentName]
	delete(c.games, name)
	delete(c.games, opponentName)
	c.mu.Unlock()

	if opponent, live := c.registry.Find(opponentName); live {
		opponent.Send(protocol.PrefixWinner + name + " left the game. You win by forfeit! The word was: " + secret)
		opponent.Send(protocol.MsgGameOver)
	}
	c.broadcaster.Broadcast(protocol.ServerNotice(opponentName+" has defeated "+name+" in WordWhiz by forfeit."), nil)

	c.record(model.GameResult{
		Winner:        opponentName,
		Loser:         name,
		Secret:        secret,
		WinnerGuesses: opponentGuesses,
		LoserGuesses:  leaverGuesses,
		Outcome:       model.OutcomeForfeit,
	})
	c.metrics.GamesForfeited.Add(1)
	slog.Info("game forfeited", "leaver", name, "winner", opponentName, "secret", secret)
}

// endGame resolves a duel for both participants. Idempotent: once the
// initiator's entry is gone the call is a no-op, so a win arriving right
// after a stalemate (or twice) is processed exactly once.
func (c *GameCoordinator) endGame(initiatorName string, guessedCorrectly bool) {
	c.mu.Lock()
	g, ok := c.games[initiatorName]
	if !ok {
		c.mu.Unlock()
		return
	}
	opponentName := g.opponentOf(initiatorName)
	secret := g.secret
	initiatorGuesses := g.guesses[initiatorName]
	opponentGuesses := g.guesses[opponentName]
	delete(c.games, initiatorName)
	delete(c.games, opponentName)
	c.mu.Unlock()

	initiator, initiatorLive := c.registry.Find(initiatorName)
	opponent, opponentLive := c.registry.Find(opponentName)

	if guessedCorrectly {
		if opponentLive {
			if initiatorLive {
				initiator.Send(protocol.PrefixWinner + "You won by guessing the word first! The word was: " + secret)
			}
			opponent.Send(protocol.PrefixLoser + initiatorName + " guessed the word first! The word was: " + secret)
			c.broadcaster.Broadcast(protocol.ServerNotice(initiatorName+" has defeated "+opponentName+
				" in WordWhiz by guessing the word '"+secret+"'."), nil)
		} else {
			if initiatorLive {
				initiator.Send(protocol.PrefixWinner + "You won! The word was: " + secret + ". Opponent is no longer available.")
			}
			c.broadcaster.Broadcast(protocol.ServerNotice(initiatorName+" won in WordWhiz by guessing the word '"+secret+"'."), nil)
		}
		c.record(model.GameResult{
			Winner:        initiatorName,
			Loser:         opponentName,
			Secret:        secret,
			WinnerGuesses: initiatorGuesses,
			LoserGuesses:  opponentGuesses,
			Outcome:       model.OutcomeWin,
		})
		c.metrics.GamesWon.Add(1)
		slog.Info("game won", "winner", initiatorName, "loser", opponentName, "secret", secret)
	} else {
		stalemate := protocol.PrefixStalemate + "Both players ran out of guesses. The word was: " + secret
		if initiatorLive {
			initiator.Send(stalemate)
		}
		if opponentLive {
			opponent.Send(stalemate)
		}
		c.broadcaster.Broadcast(protocol.ServerNotice("The game between "+initiatorName+" and "+opponentName+
			" ended in a stalemate. The word was: '"+secret+"'."), nil)
		c.record(model.GameResult{
			Winner:        initiatorName,
			Loser:         opponentName,
			Secret:        secret,
			WinnerGuesses: initiatorGuesses,
			LoserGuesses:  opponentGuesses,
			Outcome:       model.OutcomeStalemate,
		})
		c.metrics.GamesStalemated.Add(1)
		slog.Info("game stalemated", "player_a", initiatorName, "player_b", opponentName, "secret", secret)
	}

	if initiatorLive {
		initiator.Send(protocol.MsgGameOver)
	}
	if opponentLive {
		opponent.Send(protocol.MsgGameOver)
	}
}

// InGame reports whether a player currently has an active duel.
func (c *GameCoordinator) InGame(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.games[name]
	return ok
}

// GuessCount returns a player's current guess count, or -1 without a game.
func (c *GameCoordinator) GuessCount(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.games[name]
	if !ok {
		return -1
	}
	return g.guesses[name]
}

func (c *GameCoordinator) record(res model.GameResult) {
	if c.results == nil {
		return
	}
	if err := c.results.RecordResult(&res); err != nil {
		slog.Error("failed to record game result", "err", err)
	}
}
