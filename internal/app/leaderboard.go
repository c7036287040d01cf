package app

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"brainrot-quiz-service/internal/domain"
	"brainrot-quiz-service/internal/observe"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxNameRunes        = 20
	defaultRankingLimit = 20
	maxRankingLimit     = 100
)

// Window filters rankings by age.
type Window string

const (
	WindowAll   Window = "all"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
)

// ParseWindow maps a query value to a Window; unknown values mean all.
func ParseWindow(raw string) Window {
	switch Window(strings.ToLower(raw)) {
	case WindowWeek:
		return WindowWeek
	case WindowMonth:
		return WindowMonth
	default:
		return WindowAll
	}
}

// Since returns the cutoff for w relative to now; zero for WindowAll.
func (w Window) Since(now time.Time) time.Time {
	switch w {
	case WindowWeek:
		return now.AddDate(0, 0, -7)
	case WindowMonth:
		return now.AddDate(0, -1, 0)
	default:
		return time.Time{}
	}
}

// RankingPage is a leaderboard read. Partial is set when the remote store could not be
// reached and only locally cached entries are shown.
type RankingPage struct {
	Entries []domain.RankingEntry `json:"entries"`
	Partial bool                  `json:"partial"`
}

// Leaderboard writes scores to a local store first and then, best effort, to a remote one.
type Leaderboard struct {
	local   RankingStore
	remote  RankingStore
	now     func() time.Time
	metrics *observe.Metrics
	log     *zap.Logger
}

// NewLeaderboard returns a Leaderboard. remote may be nil, in which case local is the store
// of record.
func NewLeaderboard(local, remote RankingStore, log *zap.Logger, metrics *observe.Metrics) *Leaderboard {
	if log == nil {
		log = zap.NewNop()
	}
	if metrics == nil {
		metrics = observe.Nop()
	}
	return &Leaderboard{local: local, remote: remote, now: time.Now, metrics: metrics, log: log}
}

// Submit stores score under name and returns where it places.
func (l *Leaderboard) Submit(ctx context.Context, name string, score int) (domain.RankInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameRunes {
		return domain.RankInfo{}, domain.ErrInvalidName
	}
	entry := domain.RankingEntry{
		ID:        uuid.NewString(),
		Name:      name,
		Score:     score,
		Timestamp: l.now().UTC(),
	}

	localErr := l.local.AddRanking(ctx, entry)
	if localErr != nil {
		l.log.Warn("local ranking write failed", zap.Error(localErr))
	}

	store, persisted := l.local, localErr == nil
	if l.remote != nil {
		if err := l.remote.AddRanking(ctx, entry); err != nil {
			l.metrics.RecordPersistenceFailure(ctx, "ranking")
			l.log.Warn("remote ranking write failed, keeping local copy",
				zap.String("name", name), zap.Int("score", score), zap.Error(err))
			persisted = false
		} else {
			store, persisted = l.remote, true
		}
	}
	if localErr != nil && !persisted {
		return domain.RankInfo{}, fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, localErr)
	}

	better, total, err := store.Standing(ctx, score)
	if err != nil {
		l.log.Warn("ranking standing failed", zap.Error(err))
		return domain.RankInfo{Rank: 1, TotalPlayers: 1, Percentile: 100, IsTopPlayer: true, Persisted: persisted}, nil
	}
	info := Standing(better, total)
	info.Persisted = persisted
	return info, nil
}

// Top merges remote and local entries within window, best first.
func (l *Leaderboard) Top(ctx context.Context, window Window, limit int) (RankingPage, error) {
	if limit <= 0 {
		limit = defaultRankingLimit
	}
	if limit > maxRankingLimit {
		limit = maxRankingLimit
	}
	since := window.Since(l.now())

	localEntries, err := l.local.TopRankings(ctx, since, limit)
	if err != nil {
		return RankingPage{}, err
	}
	if l.remote == nil {
		return RankingPage{Entries: localEntries}, nil
	}

	remoteEntries, err := l.remote.TopRankings(ctx, since, limit)
	if err != nil {
		l.log.Warn("remote rankings unavailable, showing local entries", zap.Error(err))
		return RankingPage{Entries: localEntries, Partial: true}, nil
	}
	return RankingPage{Entries: MergeRankings(limit, remoteEntries, localEntries)}, nil
}

// MergeRankings de-duplicates by id and orders by score desc, then earliest timestamp.
func MergeRankings(limit int, lists ...[]domain.RankingEntry) []domain.RankingEntry {
	seen := make(map[string]struct{})
	merged := make([]domain.RankingEntry, 0)
	for _, list := range lists {
		for _, e := range list {
			if _, dup := seen[e.ID]; dup {
				continue
			}
			seen[e.ID] = struct{}{}
			merged = append(merged, e)
		}
	}
	SortRankings(merged)
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// SortRankings orders entries by score desc; ties go to whoever got there first.
func SortRankings(entries []domain.RankingEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
}

// Standing converts counts into a RankInfo: rank is one past the number of better scores,
// percentile is the share of players at or below the score.
func Standing(better, total int) domain.RankInfo {
	info := domain.RankInfo{Rank: better + 1, TotalPlayers: total}
	if total > 0 {
		info.Percentile = int(math.Round(float64(total-better) / float64(total) * 100))
	}
	info.IsTopPlayer = info.Percentile >= 90
	return info
}
