package server

import (
	"errors"
	"sort"
	"sync"
)

// ErrNameTaken is returned when a display name is already registered.
var ErrNameTaken = errors.New("display name already in use")

// SessionRegistry tracks live sessions keyed by display name. Name
// uniqueness is enforced here: a second registration under a live name is
// rejected rather than displacing the first.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*Session),
	}
}

// Register adds a session under its display name.
func (r *SessionRegistry) Register(sess *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[sess.Name()]; exists {
		return ErrNameTaken
	}
	r.sessions[sess.Name()] = sess
	return nil
}

// Unregister removes a session by name. Removing an absent name is a no-op.
func (r *SessionRegistry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, name)
}

// Find returns the live session for a name.
func (r *SessionRegistry) Find(name string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[name]
	return sess, ok
}

// Names returns a sorted snapshot of all registered display names.
func (r *SessionRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.sessions))
	for name := range r.sessions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns a snapshot of all sessions. Broadcast iterates this snapshot,
// never the live map, so joins and leaves during a fan-out are safe.
func (r *SessionRegistry) All() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Session, 0, len(r.sessions))
	for _, sess := range r.sessions {
		out = append(out, sess)
	}
	return out
}

// Count returns the number of live sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
