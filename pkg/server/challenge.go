package server

import (
	"log/slog"
	"sync"
	"time"

	"github.com/wordwhiz/wordwhiz/pkg/protocol"
)

// DefaultChallengeTimeout is how long a challenge stays pending before it
// expires for both parties.
const DefaultChallengeTimeout = 30 * time.Second

// pendingChallenge is one not-yet-answered invitation, keyed in the
// coordinator by the challenged player's name.
type pendingChallenge struct {
	challenger string
	created    time.Time
}

// ChallengeCoordinator manages one-to-one pending challenges. Each target
// holds at most one pending challenge; a newer challenge to the same target
// replaces the older one, and the older one's timer then expires as a no-op.
type ChallengeCoordinator struct {
	registry *SessionRegistry
	games    *GameCoordinator
	metrics  *Metrics
	timeout  time.Duration

	mu      sync.Mutex
	pending map[string]pendingChallenge // target name -> challenge
}

// NewChallengeCoordinator creates a coordinator with the default timeout.
func NewChallengeCoordinator(registry *SessionRegistry, games *GameCoordinator, metrics *Metrics) *ChallengeCoordinator {
	return &ChallengeCoordinator{
		registry: registry,
		games:    games,
		metrics:  metrics,
		timeout:  DefaultChallengeTimeout,
		pending:  make(map[string]pendingChallenge),
	}
}

// Challenge installs a pending challenge from challenger to targetName and
// schedules its expiry. The target must be a live session other than the
// challenger; otherwise the challenger gets a notice and nothing changes.
func (c *ChallengeCoordinator) Challenge(challenger *Session, targetName string) {
	target, ok := c.registry.Find(targetName)
	if !ok || targetName == challenger.Name() {
		challenger.Send(protocol.ServerNotice("User not found or cannot challenge yourself"))
		return
	}

	c.mu.Lock()
	c.pending[targetName] = pendingChallenge{
		challenger: challenger.Name(),
		created:    time.Now(),
	}
	c.mu.Unlock()

	target.Send(protocol.ServerNotice(challenger.Name() + " has challenged you to a game! Type /y to accept or /n to decline."))
	challenger.Send(protocol.ServerNotice("Challenge sent to " + targetName))
	c.metrics.ChallengesIssued.Add(1)
	slog.Debug("challenge issued", "from", challenger.Name(), "to", targetName)

	challengerName := challenger.Name()
	time.AfterFunc(c.timeout, func() {
		c.expire(targetName, challengerName)
	})
}

// expire fires when a challenge's timer elapses. The pending entry is
// removed only if it still refers to the same challenger; a challenge that
// was accepted, declined, or replaced in the meantime makes this a no-op.
func (c *ChallengeCoordinator) expire(targetName, challengerName string) {
	c.mu.Lock()
	p, ok := c.pending[targetName]
	if !ok || p.challenger != challengerName {
		c.mu.Unlock()
		return
	}
	delete(c.pending, targetName)
	c.mu.Unlock()

	if challenger, ok := c.registry.Find(challengerName); ok {
		challenger.Send(protocol.ServerNotice("Your challenge to " + targetName + " has expired."))
	}
	if target, ok := c.registry.Find(targetName); ok {
		target.Send(protocol.ServerNotice("Challenge from " + challengerName + " expired."))
	}
	c.metrics.ChallengesExpired.Add(1)
	slog.Debug("challenge expired", "from", challengerName, "to", targetName)
}

// Accept consumes the pending challenge addressed to target and starts the
// game. With no pending challenge the target just gets a notice.
func (c *ChallengeCoordinator) Accept(target *Session) {
	challengerName, ok := c.take(target.Name())
	if !ok {
		target.Send(protocol.ServerNotice("No challenge to accept."))
		return
	}

	challenger, live := c.registry.Find(challengerName)
	if !live {
		target.Send(protocol.ServerNotice(challengerName + " is no longer connected."))
		return
	}

	target.Send(protocol.ServerNotice("You accepted the challenge from " + challengerName))
	challenger.Send(protocol.ServerNotice(target.Name() + " has accepted your challenge! Starting game..."))
	c.metrics.ChallengesAccepted.Add(1)

	c.games.StartGame(target, challenger)
}

// Decline consumes the pending challenge addressed to target and notifies
// both sides. No game starts.
func (c *ChallengeCoordinator) Decline(target *Session) {
	challengerName, ok := c.take(target.Name())
	if !ok {
		target.Send(protocol.ServerNotice("No challenge to decline."))
		return
	}

	target.Send(protocol.ServerNotice("You declined the challenge from " + challengerName))
	if challenger, live := c.registry.Find(challengerName); live {
		challenger.Send(protocol.ServerNotice(target.Name() + " declined your challenge."))
	}
	c.metrics.ChallengesDeclined.Add(1)
}

// take atomically removes and returns the pending challenge for a target.
// Atomicity with respect to expire keeps a consumed challenge from being
// double-processed by a late timer.
func (c *ChallengeCoordinator) take(targetName string) (challenger string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pending[targetName]
	if !ok {
		return "", false
	}
	delete(c.pending, targetName)
	return p.challenger, true
}
