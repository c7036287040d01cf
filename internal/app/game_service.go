package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"brainrot-quiz-service/internal/domain"
	"brainrot-quiz-service/internal/game"
	"brainrot-quiz-service/internal/observe"
	"go.uber.org/zap"
)

// PlayerSession is a player's live game plus the countdown that drives it.
type PlayerSession struct {
	PlayerID string
	Game     *game.Session
	stop     func()
}

// NewPlayerSession is exported for infrastructure layers and tests that seed sessions.
func NewPlayerSession(playerID string, g *game.Session) *PlayerSession {
	return &PlayerSession{PlayerID: playerID, Game: g}
}

// close stops the countdown and cancels pending per-question work.
func (p *PlayerSession) close() {
	if p.stop != nil {
		p.stop()
	}
	if p.Game != nil {
		p.Game.Close()
	}
}

// GameOption customizes a GameService.
type GameOption func(*GameService)

// WithLogger sets the service logger.
func WithLogger(log *zap.Logger) GameOption {
	return func(s *GameService) { s.log = log }
}

// WithMetrics sets the metric instruments.
func WithMetrics(m *observe.Metrics) GameOption {
	return func(s *GameService) { s.metrics = m }
}

// WithTickSource replaces the one-second ticker, for tests.
func WithTickSource(src game.TickSource) GameOption {
	return func(s *GameService) { s.countdown = game.NewCountdown(src) }
}

// WithSessionOptions forwards options to every game.Start call.
func WithSessionOptions(opts ...game.Option) GameOption {
	return func(s *GameService) { s.sessionOpts = append(s.sessionOpts, opts...) }
}

// GameService contains the play-through use cases.
type GameService struct {
	sessions    SessionRepository
	catalog     CatalogRepository
	board       *Leaderboard
	cfg         game.Config
	countdown   *game.Countdown
	sessionOpts []game.Option
	events      *hub
	metrics     *observe.Metrics
	log         *zap.Logger
}

func NewGameService(sessions SessionRepository, catalog CatalogRepository, board *Leaderboard, cfg game.Config, opts ...GameOption) *GameService {
	s := &GameService{
		sessions:  sessions,
		catalog:   catalog,
		board:     board,
		cfg:       cfg,
		countdown: game.NewCountdown(nil),
		events:    newHub(),
		metrics:   observe.Nop(),
		log:       zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start loads the character pool and begins a new session for playerID, replacing (and
// stopping) any session the player already had.
func (s *GameService) Start(ctx context.Context, playerID string) (domain.SessionState, error) {
	pool, err := s.catalog.Characters(ctx)
	if err != nil {
		return domain.SessionState{}, fmt.Errorf("%w: load characters: %v", domain.ErrInvalidConfiguration, err)
	}
	g, err := game.Start(pool, s.cfg, s.sessionOpts...)
	if err != nil {
		return domain.SessionState{}, err
	}

	ps := NewPlayerSession(playerID, g)
	ps.stop = s.countdown.Start(context.Background(), g, s.onTick(playerID, g))
	if prev := s.sessions.Swap(playerID, ps); prev != nil {
		prev.close()
	} else {
		s.metrics.ActiveSessions.Add(ctx, 1)
	}
	s.metrics.SessionsStarted.Add(ctx, 1)

	state := g.Snapshot()
	s.log.Info("game started",
		zap.String("player", playerID),
		zap.String("session", state.ID),
		zap.Int("questions", len(state.Questions)))
	s.events.publish(playerID, Event{Type: EventState, State: state})
	return state, nil
}

// State returns the player's current snapshot.
func (s *GameService) State(playerID string) (domain.SessionState, error) {
	ps, ok := s.sessions.Get(playerID)
	if !ok {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}
	return ps.Game.Snapshot(), nil
}

// Submit scores a manually entered or already captured answer.
func (s *GameService) Submit(ctx context.Context, playerID, text string) (domain.SessionState, error) {
	ps, ok := s.sessions.Get(playerID)
	if !ok {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}
	state, err := ps.Game.SubmitAnswer(text)
	if err != nil {
		return state, err
	}
	s.afterOutcome(ctx, playerID, state)
	return state, nil
}

// Capture awaits one transcript for the active question and submits it. The capture is
// aborted when the question ends first; a failed capture leaves the question running.
func (s *GameService) Capture(ctx context.Context, playerID string, capturer Capturer, timeout time.Duration) (domain.SessionState, error) {
	ps, ok := s.sessions.Get(playerID)
	if !ok {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}
	if phase := ps.Game.Phase(); phase != domain.PhasePlaying {
		return ps.Game.Snapshot(), fmt.Errorf("%w: capture in phase %s", domain.ErrInvalidStateTransition, phase)
	}

	question := ps.Game.QuestionContext()
	var (
		cctx   context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		cctx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		cctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()
	unbind := context.AfterFunc(question, cancel)
	defer unbind()

	text, err := capturer.Capture(cctx)
	if question.Err() != nil {
		return ps.Game.Snapshot(), fmt.Errorf("%w: question ended during capture", domain.ErrInvalidStateTransition)
	}
	if err != nil {
		s.metrics.CaptureFailures.Add(ctx, 1)
		s.log.Warn("capture failed", zap.String("player", playerID), zap.Error(err))
		state := ps.Game.Snapshot()
		s.events.publish(playerID, Event{Type: EventCaptureFailed, State: state, Message: "could not hear an answer, try again"})
		return state, fmt.Errorf("%w: %v", domain.ErrCaptureFailure, err)
	}

	state, err := ps.Game.SubmitForQuestion(question, text)
	if err != nil {
		return state, err
	}
	s.afterOutcome(ctx, playerID, state)
	return state, nil
}

// Advance moves past the result screen.
func (s *GameService) Advance(ctx context.Context, playerID string) (domain.SessionState, error) {
	ps, ok := s.sessions.Get(playerID)
	if !ok {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}
	state, err := ps.Game.Advance()
	if err != nil {
		return state, err
	}
	if state.Phase == domain.PhaseFinished {
		summary := game.Summarize(state)
		s.metrics.SessionsFinished.Add(ctx, 1)
		s.log.Info("game finished",
			zap.String("player", playerID),
			zap.Int("score", state.Score),
			zap.Int("correct", summary.Correct),
			zap.Int("answered", summary.Answered))
		s.events.publish(playerID, Event{Type: EventFinished, State: state, Summary: &summary})
		return state, nil
	}
	s.events.publish(playerID, Event{Type: EventState, State: state})
	return state, nil
}

// Restart starts the player's session over with the same settings.
func (s *GameService) Restart(ctx context.Context, playerID string) (domain.SessionState, error) {
	ps, ok := s.sessions.Get(playerID)
	if !ok {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}
	state, err := ps.Game.Restart()
	if err != nil {
		return state, err
	}
	s.metrics.SessionsStarted.Add(ctx, 1)
	s.events.publish(playerID, Event{Type: EventState, State: state})
	return state, nil
}

// Summary aggregates the player's outcomes.
func (s *GameService) Summary(playerID string) (domain.Summary, error) {
	ps, ok := s.sessions.Get(playerID)
	if !ok {
		return domain.Summary{}, domain.ErrSessionNotFound
	}
	return ps.Game.Summary(), nil
}

// SubmitRanking records the final score of a finished session under name. Remote failures
// never hide the player's own standing.
func (s *GameService) SubmitRanking(ctx context.Context, playerID, name string) (domain.RankInfo, error) {
	ps, ok := s.sessions.Get(playerID)
	if !ok {
		return domain.RankInfo{}, domain.ErrSessionNotFound
	}
	state := ps.Game.Snapshot()
	if state.Phase != domain.PhaseFinished {
		return domain.RankInfo{}, fmt.Errorf("%w: ranking before the game finished", domain.ErrInvalidStateTransition)
	}
	return s.board.Submit(ctx, name, state.Score)
}

// Subscribe returns a channel of the player's game events.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe(_ context.Context, playerID string) (<-chan Event, func()) {
	return s.events.subscribe(playerID)
}

// Leave stops and drops the player's session.
func (s *GameService) Leave(ctx context.Context, playerID string) {
	ps := s.sessions.Delete(playerID)
	if ps == nil {
		return
	}
	ps.close()
	s.metrics.ActiveSessions.Add(ctx, -1)
}

// LeaveSession is Leave for a connection that started sessionID: it does nothing when
// the player has since started another session elsewhere.
func (s *GameService) LeaveSession(ctx context.Context, playerID, sessionID string) {
	ps, ok := s.sessions.Get(playerID)
	if !ok || ps.Game.ID() != sessionID {
		return
	}
	if !s.sessions.CompareAndDelete(playerID, ps) {
		return
	}
	ps.close()
	s.metrics.ActiveSessions.Add(ctx, -1)
}

func (s *GameService) afterOutcome(ctx context.Context, playerID string, state domain.SessionState) {
	last := state.Outcomes[len(state.Outcomes)-1]
	result := observe.ResultIncorrect
	if last.IsCorrect {
		result = observe.ResultCorrect
	}
	s.metrics.RecordAnswer(ctx, result, last.ElapsedSeconds)
	s.events.publish(playerID, Event{Type: EventOutcome, State: state, Outcome: &last})
}

func (s *GameService) onTick(playerID string, g *game.Session) game.TickFunc {
	return func(state domain.SessionState, timedOut bool) {
		if !timedOut {
			// A tick that lost the race against an answer or a restart must not follow
			// the newer event.
			s.events.publishIf(playerID, Event{Type: EventTick, State: state}, func() bool {
				return sameQuestionTime(g.Snapshot(), state)
			})
			return
		}
		last := state.Outcomes[len(state.Outcomes)-1]
		s.metrics.RecordAnswer(context.Background(), observe.ResultTimeout, last.ElapsedSeconds)
		s.events.publish(playerID, Event{Type: EventOutcome, State: state, Outcome: &last})
	}
}

func sameQuestionTime(current, ticked domain.SessionState) bool {
	return current.Phase == domain.PhasePlaying &&
		current.CurrentIndex == ticked.CurrentIndex &&
		len(current.Outcomes) == len(ticked.Outcomes) &&
		current.TimeRemaining == ticked.TimeRemaining
}

// IsRecoverable reports whether err leaves the game playable.
func IsRecoverable(err error) bool {
	return errors.Is(err, domain.ErrInvalidStateTransition) ||
		errors.Is(err, domain.ErrCaptureFailure) ||
		errors.Is(err, domain.ErrPersistenceFailure)
}
