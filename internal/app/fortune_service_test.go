package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"brainrot-quiz-service/internal/app"
	"brainrot-quiz-service/internal/domain"
	"brainrot-quiz-service/internal/infra/memory"
)

type failingPulls struct{}

func (failingPulls) IncrementPulls(context.Context, string, string, time.Duration) (int, error) {
	return 0, errors.New("redis down")
}

func (failingPulls) Pulls(context.Context, string, string) (int, error) {
	return 0, errors.New("redis down")
}

func newFortuneService(pulls app.PullStore) *app.FortuneService {
	catalog := memory.NewCatalogRepository(memory.NewStaticCharacterLoader(memory.DefaultCharacters()), time.Minute)
	return app.NewFortuneService(catalog, pulls, 3, nil)
}

func TestFortuneDailyLimit(t *testing.T) {
	ctx := context.Background()
	service := newFortuneService(memory.NewPullStore())

	for want := 2; want >= 0; want-- {
		f, err := service.Pull(ctx, "u1")
		if err != nil {
			t.Fatalf("pull: %v", err)
		}
		if f.Remaining != want {
			t.Fatalf("expected %d remaining, got %d", want, f.Remaining)
		}
		if f.Rank != app.RankOf(f.Character.ID) {
			t.Fatalf("rank %s does not match character %s", f.Rank, f.Character.ID)
		}
		if f.Message == "" || f.Type == "" || f.Emoji == "" {
			t.Fatalf("incomplete fortune %+v", f)
		}
	}

	if _, err := service.Pull(ctx, "u1"); !errors.Is(err, domain.ErrNoPullsLeft) {
		t.Fatalf("expected ErrNoPullsLeft, got %v", err)
	}
	if n, err := service.Remaining(ctx, "u1"); err != nil || n != 0 {
		t.Fatalf("expected 0 remaining, got %d %v", n, err)
	}
	if n, err := service.Remaining(ctx, "u2"); err != nil || n != 3 {
		t.Fatalf("expected 3 remaining for a new user, got %d %v", n, err)
	}
}

func TestFortunePullSurvivesStoreFailure(t *testing.T) {
	service := newFortuneService(failingPulls{})
	f, err := service.Pull(context.Background(), "u1")
	if err != nil {
		t.Fatalf("pull: %v", err)
	}
	if f.Character.ID == "" {
		t.Fatalf("expected a character")
	}
	if _, err := service.Remaining(context.Background(), "u1"); !errors.Is(err, domain.ErrPersistenceFailure) {
		t.Fatalf("expected ErrPersistenceFailure, got %v", err)
	}
}

func TestRankOf(t *testing.T) {
	cases := map[string]string{
		"tralalero": app.RankGoated,
		"chef":      app.RankGreat,
		"tata":      app.RankGood,
		"glorbo":    app.RankMid,
	}
	for id, want := range cases {
		if got := app.RankOf(id); got != want {
			t.Fatalf("RankOf(%s) = %s, want %s", id, got, want)
		}
	}
}
