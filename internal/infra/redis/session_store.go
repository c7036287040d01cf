package redis

import (
	"context"
	"sync"
	"time"

	"brainrot-quiz-service/internal/app"
	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of SessionRepository.
// Notes:
//   - Live sessions (and their countdown goroutines) stay in a local map; a game
//     session is bound to the process that runs its timer.
//   - Redis holds a liveness marker per player with the current session id, so other
//     instances can tell a player is mid-game.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.PlayerSession
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
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
	value := ""
	if session.Game != nil {
		value = session.Game.ID()
	}
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), sessionKey(playerID), value, s.ttl).Err()
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
	_ = s.client.Del(context.Background(), sessionKey(playerID)).Err()
	return session
}

func (s *SessionStore) CompareAndDelete(playerID string, session *app.PlayerSession) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.sessions[playerID]; !ok || cur != session {
		return false
	}
	delete(s.sessions, playerID)
	_ = s.client.Del(context.Background(), sessionKey(playerID)).Err()
	return true
}

func sessionKey(playerID string) string {
	return "quiz:session:" + playerID
}
