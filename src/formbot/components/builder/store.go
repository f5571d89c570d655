package builder

import (
	"sync"
	"time"
)

// Store holds in-flight wizard sessions keyed by authoring user id.
type Store interface {
	Get(userID string) (*Session, bool)
	Put(sess *Session)
	Delete(userID string)
}

// MemoryStore is the process-local Store. Abandoned sessions are swept once
// they sit idle past the TTL.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

// DefaultSessionTTL bounds how long an abandoned wizard survives.
const DefaultSessionTTL = 30 * time.Minute

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &MemoryStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

func (m *MemoryStore) Get(userID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[userID]
	if !ok {
		return nil, false
	}
	if time.Since(sess.UpdatedAt) > m.ttl {
		delete(m.sessions, userID)
		return nil, false
	}
	return sess, true
}

func (m *MemoryStore) Put(sess *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.UserID] = sess
}

func (m *MemoryStore) Delete(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

func (m *MemoryStore) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for userID, sess := range m.sessions {
		if now.Sub(sess.UpdatedAt) > m.ttl {
			delete(m.sessions, userID)
		}
	}
}

func (m *MemoryStore) StartCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for range ticker.C {
			m.Cleanup()
		}
	}()
}
