package game

import (
	"fmt"

	"brainrot-quiz-service/internal/domain"
	"brainrot-quiz-service/internal/scoring"
)

// Upper bounds for the configurable budgets.
const (
	MaxLives           = 3
	MaxQuestionSeconds = 15
)

// Config holds the per-session game settings.
type Config struct {
	QuestionCount   int     `yaml:"questionCount"`
	LivesStart      int     `yaml:"lives"`
	QuestionSeconds int     `yaml:"questionSeconds"`
	Tolerance       float64 `yaml:"tolerance"`
}

// DefaultConfig returns 5 questions, 3 lives, 15 seconds per question and 0.8 tolerance.
func DefaultConfig() Config {
	return Config{
		QuestionCount:   5,
		LivesStart:      3,
		QuestionSeconds: 15,
		Tolerance:       scoring.DefaultTolerance,
	}
}

// WithDefaults fills zero fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.QuestionCount == 0 {
		c.QuestionCount = d.QuestionCount
	}
	if c.LivesStart == 0 {
		c.LivesStart = d.LivesStart
	}
	if c.QuestionSeconds == 0 {
		c.QuestionSeconds = d.QuestionSeconds
	}
	if c.Tolerance == 0 {
		c.Tolerance = d.Tolerance
	}
	return c
}

// Validate rejects settings the controller cannot run with.
func (c Config) Validate() error {
	if c.QuestionCount <= 0 {
		return fmt.Errorf("%w: question count must be positive, got %d", domain.ErrInvalidConfiguration, c.QuestionCount)
	}
	if c.LivesStart <= 0 || c.LivesStart > MaxLives {
		return fmt.Errorf("%w: lives must be in [1, %d], got %d", domain.ErrInvalidConfiguration, MaxLives, c.LivesStart)
	}
	if c.QuestionSeconds <= 0 || c.QuestionSeconds > MaxQuestionSeconds {
		return fmt.Errorf("%w: question seconds must be in [1, %d], got %d", domain.ErrInvalidConfiguration, MaxQuestionSeconds, c.QuestionSeconds)
	}
	if c.Tolerance <= 0 || c.Tolerance > 1 {
		return fmt.Errorf("%w: tolerance must be in (0, 1], got %v", domain.ErrInvalidConfiguration, c.Tolerance)
	}
	return nil
}
