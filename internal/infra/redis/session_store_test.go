package redis

import (
	"testing"
	"time"

	"brainrot-quiz-service/internal/app"
	"brainrot-quiz-service/internal/game"
	"brainrot-quiz-service/internal/infra/memory"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, client := runRedis(t)
	store := NewSessionStore(client, time.Minute)

	g, err := game.Start(memory.DefaultCharacters(), game.DefaultConfig(), game.WithID("session-1"))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	session := app.NewPlayerSession("p1", g)
	if prev := store.Swap("p1", session); prev != nil {
		t.Fatalf("expected no previous session")
	}
	if got, err := mr.Get("quiz:session:p1"); err != nil || got != "session-1" {
		t.Fatalf("expected liveness key with session id, got %q %v", got, err)
	}
	if got, ok := store.Get("p1"); !ok || got != session {
		t.Fatalf("expected local session")
	}

	if removed := store.Delete("p1"); removed != session {
		t.Fatalf("expected delete to return the session")
	}
	if mr.Exists("quiz:session:p1") {
		t.Fatalf("expected redis key to be removed")
	}
}

func TestSessionStoreCompareAndDeleteKeepsNewerSession(t *testing.T) {
	mr, client := runRedis(t)
	store := NewSessionStore(client, time.Minute)

	older, err := game.Start(memory.DefaultCharacters(), game.DefaultConfig(), game.WithID("session-1"))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	newer, err := game.Start(memory.DefaultCharacters(), game.DefaultConfig(), game.WithID("session-2"))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	first := app.NewPlayerSession("p1", older)
	second := app.NewPlayerSession("p1", newer)
	store.Swap("p1", first)
	store.Swap("p1", second)

	if store.CompareAndDelete("p1", first) {
		t.Fatalf("expected replaced session not to delete the newer one")
	}
	if got, err := mr.Get("quiz:session:p1"); err != nil || got != "session-2" {
		t.Fatalf("expected liveness key kept, got %q %v", got, err)
	}
	if !store.CompareAndDelete("p1", second) {
		t.Fatalf("expected newer session deleted")
	}
	if mr.Exists("quiz:session:p1") {
		t.Fatalf("expected redis key to be removed")
	}
}
