package game

import (
	"context"
	"errors"
	"time"

	"brainrot-quiz-service/internal/domain"
)

// TickSource yields one value per elapsed second. stop releases it.
type TickSource func() (ticks <-chan time.Time, stop func())

// SecondTicker is the production TickSource.
func SecondTicker() (<-chan time.Time, func()) {
	t := time.NewTicker(time.Second)
	return t.C, t.Stop
}

// TickFunc receives the state after every applied tick. timedOut is true when that tick
// finalized the question.
type TickFunc func(state domain.SessionState, timedOut bool)

// Countdown drives Session.Tick from a tick source for as long as its context lives.
// Every question gets its own tick source, so a question always starts with a full second
// and ticks of a finished question never reach the next one.
type Countdown struct {
	source TickSource
}

// NewCountdown returns a Countdown. A nil source means SecondTicker.
func NewCountdown(source TickSource) *Countdown {
	if source == nil {
		source = SecondTicker
	}
	return &Countdown{source: source}
}

// Run blocks until ctx is done.
func (c *Countdown) Run(ctx context.Context, s *Session, onTick TickFunc) {
	for {
		question, next := s.activeQuestion()
		if question != nil && question.Err() == nil {
			if !c.runQuestion(ctx, s, question, onTick) {
				return
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-next:
		}
	}
}

// runQuestion ticks question until it is finalized. It reports false when the countdown
// itself should stop.
func (c *Countdown) runQuestion(ctx context.Context, s *Session, question context.Context, onTick TickFunc) bool {
	ticks, stop := c.source()
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-question.Done():
			return true
		case _, ok := <-ticks:
			if !ok {
				return false
			}
			if ctx.Err() != nil {
				return false
			}
			state, err := s.tickFor(question)
			if errors.Is(err, domain.ErrInvalidStateTransition) {
				// An answer or a restart won the race for this question.
				return true
			}
			if onTick != nil {
				onTick(state, state.Phase == domain.PhaseShowingResult)
			}
		}
	}
}

// Start runs the countdown in a goroutine and returns a function that stops it and waits
// for it to exit.
func (c *Countdown) Start(parent context.Context, s *Session, onTick TickFunc) (stop func()) {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Run(ctx, s, onTick)
	}()
	return func() {
		cancel()
		<-done
	}
}
