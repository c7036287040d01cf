package app

import (
	"math/rand"
	"testing"

	"brainrot-quiz-service/internal/domain"
)

func TestPickWeightedFollowsWeights(t *testing.T) {
	pool := []domain.Character{
		{ID: "udin", Name: "U Din Din Din Din Dun"},
		{ID: "glorbo", Name: "Glorbo Fruttodrillo"},
	}
	rnd := rand.New(rand.NewSource(3))
	counts := map[string]int{}
	for i := 0; i < 11000; i++ {
		counts[pickWeighted(rnd, pool).ID]++
	}
	// udin carries weight 10 against 1.
	if counts["udin"] < 9000 || counts["glorbo"] < 500 {
		t.Fatalf("unexpected distribution %v", counts)
	}
}
