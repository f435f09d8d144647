package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fotosexpress/portal/internal/repository"
)

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]repository.Session
	now      func() time.Time
}

// NewSessionStore keeps staff sessions in process memory, expiring them lazily.
func NewSessionStore(now func() time.Time) repository.SessionStore {
	if now == nil {
		now = time.Now
	}
	return &sessionStore{sessions: make(map[string]repository.Session), now: now}
}

func (s *sessionStore) Save(_ context.Context, session repository.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *sessionStore) Get(_ context.Context, id string) (*repository.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !s.now().Before(session.ExpiresAt) {
		delete(s.sessions, id)
		return nil, repository.ErrNotFound
	}
	return &session, nil
}

func (s *sessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
