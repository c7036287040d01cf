package game

import (
	"errors"
	"testing"

	"brainrot-quiz-service/internal/domain"
)

func TestConfigValidateBounds(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"defaults", func(*Config) {}, true},
		{"single life", func(c *Config) { c.LivesStart = 1 }, true},
		{"too many lives", func(c *Config) { c.LivesStart = MaxLives + 1 }, false},
		{"no lives", func(c *Config) { c.LivesStart = 0 }, false},
		{"short budget", func(c *Config) { c.QuestionSeconds = 5 }, true},
		{"budget over cap", func(c *Config) { c.QuestionSeconds = MaxQuestionSeconds + 1 }, false},
		{"tolerance above one", func(c *Config) { c.Tolerance = 1.5 }, false},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(&cfg)
		err := cfg.Validate()
		if tc.valid && err != nil {
			t.Fatalf("%s: expected valid, got %v", tc.name, err)
		}
		if !tc.valid && !errors.Is(err, domain.ErrInvalidConfiguration) {
			t.Fatalf("%s: expected invalid configuration, got %v", tc.name, err)
		}
	}
}

func TestStartRejectsLivesOverCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LivesStart = 4
	if _, err := Start(testPool(), cfg); !errors.Is(err, domain.ErrInvalidConfiguration) {
		t.Fatalf("expected lives over the cap to be rejected, got %v", err)
	}
}
