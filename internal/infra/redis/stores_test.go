package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"brainrot-quiz-service/internal/domain"
)

func TestRankingStoreTopAndStanding(t *testing.T) {
	ctx := context.Background()
	_, client := runRedis(t)
	store := NewRankingStore(client)
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	for _, e := range []domain.RankingEntry{
		{ID: "old", Name: "Old", Score: 900, Timestamp: base.AddDate(0, -2, 0)},
		{ID: "late", Name: "Late", Score: 500, Timestamp: base.Add(time.Hour)},
		{ID: "early", Name: "Early", Score: 500, Timestamp: base},
		{ID: "low", Name: "Low", Score: 100, Timestamp: base},
	} {
		if err := store.AddRanking(ctx, e); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	all, err := store.TopRankings(ctx, time.Time{}, 3)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(all) != 3 || all[0].ID != "old" || all[1].ID != "early" || all[2].ID != "late" {
		t.Fatalf("unexpected top rankings %+v", all)
	}

	month, err := store.TopRankings(ctx, base.AddDate(0, -1, 0), 10)
	if err != nil {
		t.Fatalf("top month: %v", err)
	}
	if len(month) != 3 || month[0].ID != "early" {
		t.Fatalf("unexpected windowed rankings %+v", month)
	}

	better, total, err := store.Standing(ctx, 500)
	if err != nil {
		t.Fatalf("standing: %v", err)
	}
	if better != 1 || total != 4 {
		t.Fatalf("expected 1 better of 4, got %d of %d", better, total)
	}
}

func TestLikeStoreCounts(t *testing.T) {
	ctx := context.Background()
	_, client := runRedis(t)
	store := NewLikeStore(client)

	for i := 0; i < 3; i++ {
		if _, err := store.IncrementLike(ctx, "tung"); err != nil {
			t.Fatalf("like: %v", err)
		}
	}
	likes, err := store.Likes(ctx)
	if err != nil {
		t.Fatalf("likes: %v", err)
	}
	if likes["tung"] != 3 {
		t.Fatalf("expected 3 likes, got %d", likes["tung"])
	}
}

func TestGuestbookStoreLatestAndLikes(t *testing.T) {
	ctx := context.Background()
	_, client := runRedis(t)
	store := NewGuestbookStore(client)
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"one", "two", "three"} {
		err := store.AddEntry(ctx, domain.GuestbookEntry{ID: id, Name: "n", Message: "m", Timestamp: base.Add(time.Duration(i) * time.Minute)})
		if err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if n, err := store.LikeEntry(ctx, "two"); err != nil || n != 1 {
		t.Fatalf("like entry: %d %v", n, err)
	}
	if _, err := store.LikeEntry(ctx, "missing"); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}

	latest, err := store.LatestEntries(ctx, 2)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(latest) != 2 || latest[0].ID != "three" || latest[1].ID != "two" || latest[1].Likes != 1 {
		t.Fatalf("unexpected latest entries %+v", latest)
	}
}

func TestPullStoreCountsAndExpires(t *testing.T) {
	ctx := context.Background()
	mr, client := runRedis(t)
	store := NewPullStore(client)

	for i := 1; i <= 2; i++ {
		n, err := store.IncrementPulls(ctx, "u1", "2025-05-01", time.Hour)
		if err != nil || n != i {
			t.Fatalf("increment %d: %d %v", i, n, err)
		}
	}
	if n, err := store.Pulls(ctx, "u1", "2025-05-01"); err != nil || n != 2 {
		t.Fatalf("pulls: %d %v", n, err)
	}
	if n, err := store.Pulls(ctx, "u2", "2025-05-01"); err != nil || n != 0 {
		t.Fatalf("expected 0 for unknown user, got %d %v", n, err)
	}

	mr.FastForward(2 * time.Hour)
	if n, _ := store.Pulls(ctx, "u1", "2025-05-01"); n != 0 {
		t.Fatalf("expected counter to expire, got %d", n)
	}
}
