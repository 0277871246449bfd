// Package memory provides process-local adapters used when Redis is not
// configured, and in tests.
package memory

import (
	"context"
	"sync"

	"github.com/oksasatya/account-ledger/internal/domain/entity"
	"github.com/oksasatya/account-ledger/internal/domain/repository"
)

type SessionStore struct {
	mu          sync.RWMutex
	sessions    map[string]entity.Session
	projections map[string]entity.Projection
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions:    make(map[string]entity.Session),
		projections: make(map[string]entity.Projection),
	}
}

func (s *SessionStore) Save(_ context.Context, sess entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.AccountID] = sess
	return nil
}

func (s *SessionStore) Get(_ context.Context, accountID string) (entity.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[accountID]; ok {
		return sess, nil
	}
	return entity.Session{}, entity.ErrNotFound
}

func (s *SessionStore) Delete(_ context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, accountID)
	return nil
}

func (s *SessionStore) SaveProjection(_ context.Context, sessionID string, p entity.Projection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projections[sessionID] = p
	return nil
}

func (s *SessionStore) TakeProjection(_ context.Context, sessionID string) (entity.Projection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projections[sessionID]
	if !ok {
		return entity.Projection{}, entity.ErrNoProjection
	}
	delete(s.projections, sessionID)
	return p, nil
}

var _ repository.SessionStore = (*SessionStore)(nil)
