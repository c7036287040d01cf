package memory

import (
	"context"
	"sort"
	"sync"

	"brainrot-quiz-service/internal/domain"
)

// LikeStore counts character likes in memory.
type LikeStore struct {
	mu    sync.Mutex
	likes map[string]int64
}

func NewLikeStore() *LikeStore {
	return &LikeStore{likes: make(map[string]int64)}
}

func (s *LikeStore) IncrementLike(_ context.Context, characterID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.likes[characterID]++
	return s.likes[characterID], nil
}

func (s *LikeStore) Likes(_ context.Context) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int64, len(s.likes))
	for id, n := range s.likes {
		out[id] = n
	}
	return out, nil
}

// GuestbookStore keeps guestbook entries in memory.
type GuestbookStore struct {
	mu      sync.Mutex
	entries map[string]*domain.GuestbookEntry
}

func NewGuestbookStore() *GuestbookStore {
	return &GuestbookStore{entries: make(map[string]*domain.GuestbookEntry)}
}

func (s *GuestbookStore) AddEntry(_ context.Context, entry domain.GuestbookEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.ID] = &entry
	return nil
}

func (s *GuestbookStore) LatestEntries(_ context.Context, limit int) ([]domain.GuestbookEntry, error) {
	s.mu.Lock()
	out := make([]domain.GuestbookEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, *e)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *GuestbookStore) LikeEntry(_ context.Context, entryID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[entryID]
	if !ok {
		return 0, domain.ErrEntryNotFound
	}
	e.Likes++
	return e.Likes, nil
}
