package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry struct {
	session  *Session
	lastSeen time.Time
}

// Manager maps opaque bearer tokens to sessions for network clients.
type Manager struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Open registers s and returns its new token.
func (m *Manager) Open(s *Session) string {
	token := uuid.NewString()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[token] = &entry{session: s, lastSeen: m.now()}
	return token
}

// Lookup returns the session for token and marks it as used.
func (m *Manager) Lookup(token string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[token]
	if !ok {
		return nil, false
	}
	e.lastSeen = m.now()
	return e.session, true
}

// Close logs the session out and forgets token.
func (m *Manager) Close(token string) {
	m.mu.Lock()
	e, ok := m.entries[token]
	delete(m.entries, token)
	m.mu.Unlock()
	if ok {
		e.session.Logout()
	}
}

// Expire closes every session idle for longer than ttl and returns how many
// were removed.
func (m *Manager) Expire(ttl time.Duration) int {
	cutoff := m.now().Add(-ttl)
	var expired []*Session

	m.mu.Lock()
	for token, e := range m.entries {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e.session)
			delete(m.entries, token)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.Logout()
	}
	return len(expired)
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
