package app

import (
	"context"
	"time"

	"brainrot-quiz-service/internal/domain"
)

// CatalogRepository serves the character pool (from cache/backing store).
type CatalogRepository interface {
	Characters(ctx context.Context) ([]domain.Character, error)
}

// SessionRepository abstracts where live player sessions are kept (in-memory, Redis, etc).
type SessionRepository interface {
	Get(playerID string) (*PlayerSession, bool)
	// Swap stores session for playerID and returns the one it replaced, if any.
	Swap(playerID string, session *PlayerSession) *PlayerSession
	// Delete removes and returns the player's session.
	Delete(playerID string) *PlayerSession
	// CompareAndDelete removes the player's session only if it is still session.
	CompareAndDelete(playerID string, session *PlayerSession) bool
}

// RankingStore persists leaderboard submissions.
type RankingStore interface {
	AddRanking(ctx context.Context, entry domain.RankingEntry) error
	// TopRankings returns entries newer than since (zero means all), best first.
	TopRankings(ctx context.Context, since time.Time, limit int) ([]domain.RankingEntry, error)
	// Standing counts entries with a strictly higher score and the total.
	Standing(ctx context.Context, score int) (better, total int, err error)
}

// LikeStore keeps per-character like counters.
type LikeStore interface {
	IncrementLike(ctx context.Context, characterID string) (int64, error)
	Likes(ctx context.Context) (map[string]int64, error)
}

// GuestbookStore keeps visitor messages.
type GuestbookStore interface {
	AddEntry(ctx context.Context, entry domain.GuestbookEntry) error
	LatestEntries(ctx context.Context, limit int) ([]domain.GuestbookEntry, error)
	LikeEntry(ctx context.Context, entryID string) (int64, error)
}

// PullStore counts daily fortune pulls per user.
type PullStore interface {
	// IncrementPulls adds one pull for userID on day and returns the new count.
	IncrementPulls(ctx context.Context, userID, day string, ttl time.Duration) (int, error)
	Pulls(ctx context.Context, userID, day string) (int, error)
}

// Capturer yields a transcript for the active question. Implementations must return
// when ctx is done.
type Capturer interface {
	Capture(ctx context.Context) (string, error)
}

// CapturerFunc adapts a function to Capturer.
type CapturerFunc func(ctx context.Context) (string, error)

func (f CapturerFunc) Capture(ctx context.Context) (string, error) { return f(ctx) }
