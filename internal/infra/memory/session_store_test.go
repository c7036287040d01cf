package memory

import (
	"testing"

	"brainrot-quiz-service/internal/app"
	"brainrot-quiz-service/internal/game"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()
	g, err := game.Start(DefaultCharacters(), game.DefaultConfig())
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	first := app.NewPlayerSession("p1", g)
	if prev := store.Swap("p1", first); prev != nil {
		t.Fatalf("expected no previous session")
	}
	if got, ok := store.Get("p1"); !ok || got != first {
		t.Fatalf("expected stored session")
	}

	second := app.NewPlayerSession("p1", g)
	if prev := store.Swap("p1", second); prev != first {
		t.Fatalf("expected swap to return the replaced session")
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", store.Len())
	}

	if removed := store.Delete("p1"); removed != second {
		t.Fatalf("expected delete to return the session")
	}
	if _, ok := store.Get("p1"); ok {
		t.Fatalf("expected session removed")
	}
	if store.Delete("p1") != nil {
		t.Fatalf("expected nil deleting a missing session")
	}
}

func TestSessionStoreCompareAndDelete(t *testing.T) {
	store := NewSessionStore()
	g, err := game.Start(DefaultCharacters(), game.DefaultConfig())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	stale := app.NewPlayerSession("p1", g)
	current := app.NewPlayerSession("p1", g)
	store.Swap("p1", current)

	if store.CompareAndDelete("p1", stale) {
		t.Fatalf("expected replaced session not to delete the current one")
	}
	if got, ok := store.Get("p1"); !ok || got != current {
		t.Fatalf("expected current session kept")
	}
	if !store.CompareAndDelete("p1", current) {
		t.Fatalf("expected current session deleted")
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", store.Len())
	}
}
