package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager keeps the in-memory sessions of the web surface, keyed by an opaque id handed
// to the browser. Sessions idle for longer than the TTL are dropped on the next access;
// nothing runs in the background.
type Manager struct {
	builder Builder
	ttl     time.Duration
	opts    []Option
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	session  *Session
	lastSeen time.Time
}

// NewManager creates a Manager. Every session it creates shares builder and opts.
func NewManager(builder Builder, ttl time.Duration, opts ...Option) *Manager {
	return &Manager{
		builder:  builder,
		ttl:      ttl,
		opts:     opts,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Create starts a new session with a random id.
func (m *Manager) Create() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.sweep(now)

	s := New(uuid.NewString(), m.builder, m.opts...)
	m.sessions[s.ID()] = &entry{session: s, lastSeen: now}
	return s
}

// Get returns the live session for id and marks it as seen.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.sweep(now)

	e, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = now
	return e.session, true
}

// GetOrCreate returns the session for id, or a new one when id is unknown or expired.
// created reports which happened.
func (m *Manager) GetOrCreate(id string) (s *Session, created bool) {
	if id != "" {
		if s, ok := m.Get(id); ok {
			return s, false
		}
	}
	return m.Create(), true
}

// Delete drops the session for id.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// sweep drops idle sessions. A session still processing a question is kept. Caller
// holds m.mu.
func (m *Manager) sweep(now time.Time) {
	if m.ttl <= 0 {
		return
	}
	for id, e := range m.sessions {
		if now.Sub(e.lastSeen) > m.ttl && e.session.State() != StateProcessing {
			delete(m.sessions, id)
		}
	}
}
