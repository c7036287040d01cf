package memory

import (
	"sync"

	"brainrot-quiz-service/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.PlayerSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*app.PlayerSession),
	}
}

func (s *SessionStore) Get(playerID string) (*app.PlayerSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[playerID]
	return session, ok
}

func (s *SessionStore) Swap(playerID string, session *app.PlayerSession) *app.PlayerSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.sessions[playerID]
	s.sessions[playerID] = session
	return prev
}

func (s *SessionStore) Delete(playerID string) *app.PlayerSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[playerID]
	if !ok {
		return nil
	}
	delete(s.sessions, playerID)
	return session
}

func (s *SessionStore) CompareAndDelete(playerID string, session *app.PlayerSession) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.sessions[playerID]; !ok || cur != session {
		return false
	}
	delete(s.sessions, playerID)
	return true
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
