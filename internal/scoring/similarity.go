// Package scoring decides whether a spoken or typed answer matches a character name.
//
// Matching is deliberately permissive: speech-to-text output for long, invented names is
// noisy, so an answer counts as correct while its edit distance stays within
// Tolerance * len(name).
package scoring

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
)

// DefaultTolerance is the fraction of the name length that may differ.
const DefaultTolerance = 0.8

// Verdict is the result of comparing an answer with a target name.
type Verdict struct {
	Correct         bool `json:"correct"`
	AccuracyPercent int  `json:"accuracyPercent"`
	Distance        int  `json:"distance"`
}

// Scorer is read-only after construction and safe for concurrent use.
type Scorer struct {
	tolerance float64
}

// NewScorer returns a Scorer. Tolerances outside (0, 1] fall back to DefaultTolerance.
func NewScorer(tolerance float64) *Scorer {
	if tolerance <= 0 || tolerance > 1 || math.IsNaN(tolerance) {
		tolerance = DefaultTolerance
	}
	return &Scorer{tolerance: tolerance}
}

// Tolerance returns the configured fraction.
func (s *Scorer) Tolerance() float64 {
	return s.tolerance
}

// MaxDistance is the largest edit distance still accepted for target.
func (s *Scorer) MaxDistance(target string) int {
	return int(math.Floor(float64(utf8.RuneCountInString(target)) * s.tolerance))
}

// Evaluate compares submitted with target, case-insensitively.
func (s *Scorer) Evaluate(submitted, target string) Verdict {
	n := utf8.RuneCountInString(target)
	if n == 0 {
		return Verdict{Correct: submitted == "", AccuracyPercent: 0}
	}

	distance := Distance(submitted, target)
	accuracy := math.Round(100 - float64(distance)/float64(n)*100)

	return Verdict{
		Correct:         distance <= s.MaxDistance(target),
		AccuracyPercent: clamp(int(accuracy), 0, 100),
		Distance:        distance,
	}
}

// Distance is the case-insensitive Levenshtein distance between a and b, counted in runes.
func Distance(a, b string) int {
	a, b = strings.ToLower(a), strings.ToLower(b)
	switch {
	case a == b:
		return 0
	case a == "":
		return utf8.RuneCountInString(b)
	case b == "":
		return utf8.RuneCountInString(a)
	}
	return matchr.Levenshtein(a, b)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
