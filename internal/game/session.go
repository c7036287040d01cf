// Package game holds the quiz session controller: a small state machine that sequences
// questions, lives, the per-question countdown and scoring.
//
//	Intro -> Playing -> (ShowingResult -> Playing)* -> Finished
//
// A Session is safe for concurrent use. The countdown and answer submissions are competing
// finalizers of the same question; whichever arrives first moves the phase away from
// Playing and the other is rejected with domain.ErrInvalidStateTransition.
package game

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"brainrot-quiz-service/internal/domain"
	"brainrot-quiz-service/internal/scoring"
	"github.com/google/uuid"
)

const (
	basePoints        = 100
	timeBonusPerSec   = 10
	streakBonusPerHit = 20
)

// Option customizes a Session.
type Option func(*Session)

// WithRand sets the random source used to sample questions.
func WithRand(rnd *rand.Rand) Option {
	return func(s *Session) { s.rnd = rnd }
}

// WithClock is used by tests for deterministic timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithScorer overrides the scorer built from Config.Tolerance.
func WithScorer(scorer *scoring.Scorer) Option {
	return func(s *Session) { s.scorer = scorer }
}

// WithID sets the session id instead of a random UUID.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// Session is one play-through.
type Session struct {
	cfg    Config
	pool   []domain.Character
	scorer *scoring.Scorer
	rnd    *rand.Rand
	now    func() time.Time

	mu          sync.Mutex
	id          string
	state       domain.SessionState
	questionCtx context.Context
	cancelQ     context.CancelFunc
	// nextQ is closed when the following question begins.
	nextQ chan struct{}
}

// Start samples cfg.QuestionCount characters from pool and begins the first question.
func Start(pool []domain.Character, cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	valid := validPool(pool)
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: character pool is empty", domain.ErrInvalidConfiguration)
	}

	s := &Session{
		cfg:  cfg,
		pool: valid,
		now:  time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.scorer == nil {
		s.scorer = scoring.NewScorer(cfg.Tolerance)
	}
	if s.rnd == nil {
		s.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}

	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()
	return s, nil
}

// ID returns the session id. It is stable across restarts.
func (s *Session) ID() string {
	return s.id
}

// Config returns the settings the session was started with.
func (s *Session) Config() Config {
	return s.cfg
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Phase returns the current phase.
func (s *Session) Phase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Phase
}

// Current returns the character of the active question.
func (s *Session) Current() (domain.Character, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.CurrentIndex >= len(s.state.Questions) {
		return domain.Character{}, false
	}
	return s.state.Questions[s.state.CurrentIndex], true
}

// QuestionContext is canceled as soon as the active question is finalized, the session
// restarts or it is closed. Capture and audio work for a question should run under it.
func (s *Session) QuestionContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questionCtx
}

// Close cancels any pending per-question work.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelQ != nil {
		s.cancelQ()
	}
}

// Tick advances the countdown by one second. When the time runs out the question is
// finalized as a timeout.
func (s *Session) Tick() (domain.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickLocked()
}

// tickFor is Tick for a countdown started under question; ticks for any other question
// are rejected.
func (s *Session) tickFor(question context.Context) (domain.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if question != s.questionCtx || question.Err() != nil {
		return s.snapshotLocked(), fmt.Errorf("%w: tick for a finished question", domain.ErrInvalidStateTransition)
	}
	return s.tickLocked()
}

// activeQuestion returns the active question's context and a channel closed once the next
// question begins.
func (s *Session) activeQuestion() (context.Context, <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questionCtx, s.nextQ
}

func (s *Session) tickLocked() (domain.SessionState, error) {
	if s.state.Phase != domain.PhasePlaying {
		return s.snapshotLocked(), fmt.Errorf("%w: tick in phase %s", domain.ErrInvalidStateTransition, s.state.Phase)
	}
	if s.state.TimeRemaining > 0 {
		s.state.TimeRemaining--
	}
	if s.state.TimeRemaining == 0 {
		s.recordLocked(domain.QuestionOutcome{
			SubmittedText:   domain.TimeoutText,
			IsCorrect:       false,
			AccuracyPercent: 0,
		})
	}
	return s.snapshotLocked(), nil
}

// SubmitAnswer scores text against the active question.
func (s *Session) SubmitAnswer(text string) (domain.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitLocked(text)
}

// SubmitForQuestion is SubmitAnswer for work started under a QuestionContext: the answer is
// rejected unless question is still the active one.
func (s *Session) SubmitForQuestion(question context.Context, text string) (domain.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if question != s.questionCtx || question.Err() != nil {
		return s.snapshotLocked(), fmt.Errorf("%w: answer for a finished question", domain.ErrInvalidStateTransition)
	}
	return s.submitLocked(text)
}

func (s *Session) submitLocked(text string) (domain.SessionState, error) {
	if s.state.Phase != domain.PhasePlaying {
		return s.snapshotLocked(), fmt.Errorf("%w: answer in phase %s", domain.ErrInvalidStateTransition, s.state.Phase)
	}

	target := s.state.Questions[s.state.CurrentIndex]
	verdict := s.scorer.Evaluate(text, target.Name)
	outcome := domain.QuestionOutcome{
		SubmittedText:   text,
		IsCorrect:       verdict.Correct,
		AccuracyPercent: verdict.AccuracyPercent,
	}
	if verdict.Correct {
		outcome.TimeBonus = roundInt(float64(s.state.TimeRemaining * timeBonusPerSec))
		outcome.AccuracyPoints = roundInt(float64(verdict.AccuracyPercent) / 2)
		if s.state.Streak > 0 {
			outcome.StreakBonus = roundInt(float64(s.state.Streak * streakBonusPerHit))
		}
		outcome.PointsAwarded = basePoints + outcome.TimeBonus + outcome.AccuracyPoints + outcome.StreakBonus
	}
	s.recordLocked(outcome)
	return s.snapshotLocked(), nil
}

// Advance leaves the result screen: to the next question, or to Finished when lives or
// questions are exhausted.
func (s *Session) Advance() (domain.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase != domain.PhaseShowingResult {
		return s.snapshotLocked(), fmt.Errorf("%w: advance in phase %s", domain.ErrInvalidStateTransition, s.state.Phase)
	}
	if s.state.LivesRemaining == 0 || s.state.CurrentIndex == len(s.state.Questions)-1 {
		s.state.Phase = domain.PhaseFinished
		return s.snapshotLocked(), nil
	}
	s.state.CurrentIndex++
	s.beginQuestionLocked()
	return s.snapshotLocked(), nil
}

// Restart discards the play-through and starts over with a fresh sample. Always permitted.
func (s *Session) Restart() (domain.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	return s.snapshotLocked(), nil
}

// Summary aggregates the outcomes recorded so far.
func (s *Session) Summary() domain.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summarize(s.state)
}

// Summarize aggregates the outcomes of a state snapshot.
func Summarize(state domain.SessionState) domain.Summary {
	sum := domain.Summary{Score: state.Score, Answered: len(state.Outcomes)}
	if len(state.Outcomes) == 0 {
		return sum
	}

	streak, elapsed := 0, 0
	for _, o := range state.Outcomes {
		elapsed += o.ElapsedSeconds
		if o.IsCorrect {
			sum.Correct++
			streak++
			if streak > sum.BestStreak {
				sum.BestStreak = streak
			}
		} else {
			streak = 0
		}
	}
	if n := len(state.Questions); n > 0 {
		sum.AccuracyPercent = roundInt(float64(sum.Correct) / float64(n) * 100)
	}
	sum.AverageResponseSec = float64(elapsed) / float64(len(state.Outcomes))
	return sum
}

func (s *Session) resetLocked() {
	if s.cancelQ != nil {
		s.cancelQ()
	}
	s.state = domain.SessionState{
		ID:              s.id,
		Phase:           domain.PhaseIntro,
		Questions:       sampleQuestions(s.rnd, s.pool, s.cfg.QuestionCount),
		CurrentIndex:    0,
		LivesRemaining:  s.cfg.LivesStart,
		QuestionSeconds: s.cfg.QuestionSeconds,
		Outcomes:        []domain.QuestionOutcome{},
		StartedAt:       s.now(),
	}
	s.beginQuestionLocked()
}

func (s *Session) beginQuestionLocked() {
	s.state.TimeRemaining = s.cfg.QuestionSeconds
	s.state.Phase = domain.PhasePlaying
	s.questionCtx, s.cancelQ = context.WithCancel(context.Background())
	if s.nextQ != nil {
		close(s.nextQ)
	}
	s.nextQ = make(chan struct{})
}

// recordLocked finalizes the active question with outcome and applies it to the counters.
func (s *Session) recordLocked(outcome domain.QuestionOutcome) {
	target := s.state.Questions[s.state.CurrentIndex]
	outcome.CharacterID = target.ID
	outcome.CharacterName = target.Name
	outcome.ElapsedSeconds = s.cfg.QuestionSeconds - s.state.TimeRemaining
	outcome.AnsweredAt = s.now()
	if !outcome.IsCorrect {
		outcome.PointsAwarded, outcome.TimeBonus, outcome.StreakBonus, outcome.AccuracyPoints = 0, 0, 0, 0
	}

	s.state.Outcomes = append(s.state.Outcomes, outcome)
	if outcome.IsCorrect {
		s.state.Score += outcome.PointsAwarded
		s.state.Streak++
	} else {
		s.state.LivesRemaining = max(0, s.state.LivesRemaining-1)
		s.state.Streak = 0
	}
	s.state.Phase = domain.PhaseShowingResult
	s.cancelQ()
}

func (s *Session) snapshotLocked() domain.SessionState {
	out := s.state
	out.Questions = append([]domain.Character(nil), s.state.Questions...)
	out.Outcomes = append([]domain.QuestionOutcome{}, s.state.Outcomes...)
	return out
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
