package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"brainrot-quiz-service/internal/domain"
)

func manualTicks() (chan time.Time, TickSource) {
	ch := make(chan time.Time)
	return ch, func() (<-chan time.Time, func()) { return ch, func() {} }
}

// tickSources hands out a fresh channel on every call so tests can tell questions apart.
type tickSources struct {
	mu       sync.Mutex
	channels []chan time.Time
	stopped  []bool
}

func (ts *tickSources) source() (<-chan time.Time, func()) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ch := make(chan time.Time)
	i := len(ts.channels)
	ts.channels = append(ts.channels, ch)
	ts.stopped = append(ts.stopped, false)
	return ch, func() {
		ts.mu.Lock()
		ts.stopped[i] = true
		ts.mu.Unlock()
	}
}

// await returns the n-th source (1-based) once the countdown created it.
func (ts *tickSources) await(t *testing.T, n int) chan time.Time {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		ts.mu.Lock()
		if len(ts.channels) >= n {
			ch := ts.channels[n-1]
			ts.mu.Unlock()
			return ch
		}
		ts.mu.Unlock()
		if time.Now().After(deadline) {
			t.Fatalf("countdown never created tick source %d", n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func (ts *tickSources) isStopped(n int) bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.stopped[n-1]
}

func waitRemaining(t *testing.T, s *Session, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for s.Snapshot().TimeRemaining != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d seconds remaining, got %d", want, s.Snapshot().TimeRemaining)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCountdownRestartsTickerPerQuestion(t *testing.T) {
	s := newTestSession(t, testPool(), DefaultConfig())
	sources := &tickSources{}
	stop := NewCountdown(sources.source).Start(context.Background(), s, nil)
	defer stop()

	first := sources.await(t, 1)
	first <- time.Now()
	waitRemaining(t, s, 14)

	answerCorrectly(t, s)
	if _, err := s.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	second := sources.await(t, 2)
	if !sources.isStopped(1) {
		t.Fatalf("first question's ticker still running")
	}
	select {
	case first <- time.Now():
		t.Fatalf("stale ticker still drives the session")
	case <-time.After(50 * time.Millisecond):
	}
	if got := s.Snapshot().TimeRemaining; got != 15 {
		t.Fatalf("new question should start with a full budget, got %d", got)
	}
	second <- time.Now()
	waitRemaining(t, s, 14)
}

func TestCountdownRestartsTickerOnRestart(t *testing.T) {
	s := newTestSession(t, testPool(), DefaultConfig())
	sources := &tickSources{}
	stop := NewCountdown(sources.source).Start(context.Background(), s, nil)
	defer stop()

	first := sources.await(t, 1)
	first <- time.Now()
	waitRemaining(t, s, 14)

	if _, err := s.Restart(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	second := sources.await(t, 2)
	select {
	case first <- time.Now():
		t.Fatalf("ticker of the previous play-through still drives the session")
	case <-time.After(50 * time.Millisecond):
	}
	if got := s.Snapshot().TimeRemaining; got != 15 {
		t.Fatalf("restarted question should start with a full budget, got %d", got)
	}
	second <- time.Now()
	waitRemaining(t, s, 14)
}

func TestTickForRejectsOtherQuestion(t *testing.T) {
	s := newTestSession(t, testPool(), DefaultConfig())
	stale, _ := s.activeQuestion()
	if _, err := s.Restart(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if _, err := s.tickFor(stale); !errors.Is(err, domain.ErrInvalidStateTransition) {
		t.Fatalf("expected stale tick rejected, got %v", err)
	}
	if got := s.Snapshot().TimeRemaining; got != 15 {
		t.Fatalf("stale tick changed the timer: %d", got)
	}
}

func TestCountdownTimesOutQuestion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QuestionSeconds = 3
	s := newTestSession(t, testPool(), cfg)

	ticks, source := manualTicks()
	timeouts := make(chan domain.SessionState, 1)
	stop := NewCountdown(source).Start(context.Background(), s, func(state domain.SessionState, timedOut bool) {
		if timedOut {
			timeouts <- state
		}
	})
	defer stop()

	for i := 0; i < 3; i++ {
		ticks <- time.Now()
	}

	select {
	case state := <-timeouts:
		if len(state.Outcomes) != 1 || state.Outcomes[0].SubmittedText != domain.TimeoutText {
			t.Fatalf("expected timeout outcome, got %+v", state.Outcomes)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for countdown")
	}

	// Nothing ticks while the result is shown.
	select {
	case ticks <- time.Now():
		t.Fatalf("countdown consumed a tick while the result was shown")
	case <-time.After(50 * time.Millisecond):
	}
	if got := s.Snapshot(); got.Phase != domain.PhaseShowingResult || len(got.Outcomes) != 1 {
		t.Fatalf("unexpected state after idle tick: %s with %d outcomes", got.Phase, len(got.Outcomes))
	}
}

func TestCountdownStopsWithContext(t *testing.T) {
	s := newTestSession(t, testPool(), DefaultConfig())
	ticks, source := manualTicks()

	stop := NewCountdown(source).Start(context.Background(), s, nil)
	ticks <- time.Now()
	deadline := time.Now().Add(2 * time.Second)
	for s.Snapshot().TimeRemaining != 14 {
		if time.Now().After(deadline) {
			t.Fatalf("tick never applied")
		}
		time.Sleep(5 * time.Millisecond)
	}
	stop()

	select {
	case ticks <- time.Now():
		t.Fatalf("countdown still consuming ticks after stop")
	case <-time.After(50 * time.Millisecond):
	}
	if got := s.Snapshot().TimeRemaining; got != 14 {
		t.Fatalf("expected exactly one applied tick, got %d remaining", got)
	}
}
