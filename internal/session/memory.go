package session

import (
	"context"
	"sync"

	"github.com/volleykb/assistant/backend/internal/model/session"
)

// MemoryStore is the process-local backend. It is used directly when Redis
// is unconfigured and as the failover target otherwise. Entries never
// expire and the map is unbounded; in the failover path that is an
// accepted leak, bounded only by process restarts.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
}

// NewMemoryStore creates an empty in-memory backend.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*session.Session)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(stored), nil
}

func (s *MemoryStore) Put(_ context.Context, id string, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = clone(sess)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false, nil
	}
	delete(s.sessions, id)
	return true, nil
}

// clone copies a session so callers and the store never share the Turns
// slice. Concurrent writers to the same id still race last-writer-wins,
// which callers accept.
func clone(s *session.Session) *session.Session {
	copied := *s
	copied.Turns = make([]session.Turn, len(s.Turns))
	copy(copied.Turns, s.Turns)
	return &copied
}
