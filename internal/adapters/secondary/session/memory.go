package session

import (
	"context"
	"sync"

	"github.com/athebyme/pidash/internal/core/domain"
	"github.com/athebyme/pidash/internal/core/ports"
)

// MemoryStore - хранилище сессий процесса: пустое при старте,
// записи создаются и перезаписываются при (повторной) аутентификации и никогда не удаляются
// параллельные записи разрешаются по принципу last-write-wins
type MemoryStore struct {
	sessions map[string]domain.Session
	mux      sync.RWMutex
	logger   ports.Logger
}

var _ ports.SessionStore = (*MemoryStore)(nil)

func NewMemoryStore(logger ports.Logger) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]domain.Session),
		logger:   logger.With("adapter", "MemorySessionStore"),
	}
}

func (s *MemoryStore) Get(_ context.Context, name string) (domain.Session, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.sessions[name], nil
}

func (s *MemoryStore) Set(_ context.Context, name string, session domain.Session) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	prev := s.sessions[name]
	s.sessions[name] = session
	if prev.Kind != session.Kind {
		s.logger.Debug("Session state changed", "backend", name, "from", prev.String(), "to", session.String())
	}
	return nil
}
