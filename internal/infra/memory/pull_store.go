package memory

import (
	"context"
	"sync"
	"time"
)

// PullStore counts fortune pulls per user and day. Counters for past days are dropped
// lazily once their ttl passes.
type PullStore struct {
	clock func() time.Time

	mu     sync.Mutex
	counts map[string]pullCount
}

type pullCount struct {
	n         int
	expiresAt time.Time
}

func NewPullStore() *PullStore {
	return &PullStore{clock: time.Now, counts: make(map[string]pullCount)}
}

func (s *PullStore) IncrementPulls(_ context.Context, userID, day string, ttl time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock()
	s.evictLocked(now)

	key := day + "/" + userID
	c := s.counts[key]
	c.n++
	if c.expiresAt.IsZero() {
		c.expiresAt = now.Add(ttl)
	}
	s.counts[key] = c
	return c.n, nil
}

func (s *PullStore) Pulls(_ context.Context, userID, day string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked(s.clock())
	return s.counts[day+"/"+userID].n, nil
}

func (s *PullStore) evictLocked(now time.Time) {
	for k, c := range s.counts {
		if !c.expiresAt.After(now) {
			delete(s.counts, k)
		}
	}
}
