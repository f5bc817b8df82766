package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session bundles the mutable per-session state: the routing corpus and the
// response cache. Concurrent sessions never share either.
type Session struct {
	ID        uuid.UUID
	Corpus    *RoutingCorpus
	Cache     ResponseCache
	CreatedAt time.Time
}

type SessionManager interface {
	Create() *Session
	Get(id uuid.UUID) (*Session, bool)
	Delete(id uuid.UUID)
}

type sessionManager struct {
	mu           sync.RWMutex
	sessions     map[uuid.UUID]*Session
	historyLimit int
}

func NewSessionManager(historyLimit int) SessionManager {
	return &sessionManager{
		sessions:     make(map[uuid.UUID]*Session),
		historyLimit: historyLimit,
	}
}

// Create implements SessionManager.
func (m *sessionManager) Create() *Session {
	id := uuid.New()

	session := &Session{
		ID:        id,
		Corpus:    NewRoutingCorpus(id.String(), m.historyLimit),
		Cache:     NewResponseCache(),
		CreatedAt: time.Now(),
	}

	m.mu.Lock()
	m.sessions[id] = session
	m.mu.Unlock()

	return session
}

// Get implements SessionManager.
func (m *sessionManager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	return session, ok
}

// Delete implements SessionManager.
func (m *sessionManager) Delete(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if session, ok := m.sessions[id]; ok {
		session.Corpus.Reset()
		session.Cache.Clear()
		delete(m.sessions, id)
	}
}
