package server

import (
	"strings"

	"github.com/wordwhiz/wordwhiz/pkg/protocol"
)

// Broadcaster fans a line out to registered sessions. Delivery order across
// sessions is unspecified; there is no acknowledgment or retry, and a send
// to a dead session is a no-op.
type Broadcaster struct {
	registry *SessionRegistry
}

// NewBroadcaster creates a broadcaster over a registry.
func NewBroadcaster(registry *SessionRegistry) *Broadcaster {
	return &Broadcaster{registry: registry}
}

// Broadcast delivers message to every session except exclude. Server
// notices (SERVER: lines) are delivered to the excluded sender as well, so
// a sender always sees administrative responses to its own actions.
func (b *Broadcaster) Broadcast(message string, exclude *Session) {
	isNotice := strings.HasPrefix(message, "SERVER:")
	for _, sess := range b.registry.All() {
		if sess == exclude && !isNotice {
			continue
		}
		sess.Send(message)
	}
}

// SendUserList broadcasts the current name list to every session, the
// recipient included.
func (b *Broadcaster) SendUserList() {
	line := protocol.UserList(b.registry.Names())
	for _, sess := range b.registry.All() {
		sess.Send(line)
	}
}
