package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"brainrot-quiz-service/internal/domain"
)

// RankingStore keeps leaderboard entries in memory. It doubles as the local cache in front
// of a remote store.
type RankingStore struct {
	mu      sync.RWMutex
	entries []domain.RankingEntry
}

func NewRankingStore() *RankingStore {
	return &RankingStore{}
}

func (s *RankingStore) AddRanking(_ context.Context, entry domain.RankingEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *RankingStore) TopRankings(_ context.Context, since time.Time, limit int) ([]domain.RankingEntry, error) {
	s.mu.RLock()
	out := make([]domain.RankingEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if !since.IsZero() && e.Timestamp.Before(since) {
			continue
		}
		out = append(out, e)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *RankingStore) Standing(_ context.Context, score int) (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	better := 0
	for _, e := range s.entries {
		if e.Score > score {
			better++
		}
	}
	return better, len(s.entries), nil
}
