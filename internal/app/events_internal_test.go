package app

import (
	"testing"
	"time"

	"brainrot-quiz-service/internal/domain"
	"brainrot-quiz-service/internal/game"
)

func TestPublishIfSkipsStaleEvents(t *testing.T) {
	h := newHub()
	events, cancel := h.subscribe("p1")
	defer cancel()

	h.publishIf("p1", Event{Type: EventTick}, func() bool { return false })
	select {
	case ev := <-events:
		t.Fatalf("expected nothing delivered, got %s", ev.Type)
	default:
	}

	h.publishIf("p1", Event{Type: EventTick}, func() bool { return true })
	select {
	case ev := <-events:
		if ev.Type != EventTick {
			t.Fatalf("unexpected event %s", ev.Type)
		}
	default:
		t.Fatalf("expected the tick to be delivered")
	}
}

func TestTickAfterOutcomeIsDropped(t *testing.T) {
	pool := []domain.Character{{ID: "tung", Name: "Tung Tung Tung Sahur"}}
	cfg := game.DefaultConfig()
	cfg.QuestionCount = 1
	g, err := game.Start(pool, cfg)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer g.Close()

	s := &GameService{events: newHub()}
	events, cancel := s.events.subscribe("p1")
	defer cancel()
	onTick := s.onTick("p1", g)

	ticked, err := g.Tick()
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	onTick(ticked, false)
	if ev := <-events; ev.Type != EventTick || ev.State.TimeRemaining != 14 {
		t.Fatalf("expected a live tick at 14s, got %s at %d", ev.Type, ev.State.TimeRemaining)
	}

	// The tick is computed, then an answer lands before it is published.
	ticked, err = g.Tick()
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if _, err := g.SubmitAnswer("Tung Tung Tung Sahur"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	onTick(ticked, false)
	select {
	case ev := <-events:
		t.Fatalf("stale tick published after the outcome: %+v", ev.State)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestSameQuestionTime(t *testing.T) {
	ticked := domain.SessionState{Phase: domain.PhasePlaying, CurrentIndex: 1, TimeRemaining: 9}
	if !sameQuestionTime(ticked, ticked) {
		t.Fatalf("identical states should match")
	}
	restarted := ticked
	restarted.CurrentIndex, restarted.TimeRemaining = 0, 15
	if sameQuestionTime(restarted, ticked) {
		t.Fatalf("a restarted game should not match an older tick")
	}
	answered := ticked
	answered.Phase = domain.PhaseShowingResult
	if sameQuestionTime(answered, ticked) {
		t.Fatalf("an answered question should not match")
	}
}
