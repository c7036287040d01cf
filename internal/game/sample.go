package game

import (
	"math/rand"

	"brainrot-quiz-service/internal/domain"
)

// sampleQuestions picks exactly count characters. The pool is sampled without replacement
// when it is large enough and with replacement otherwise.
func sampleQuestions(rnd *rand.Rand, pool []domain.Character, count int) []domain.Character {
	out := make([]domain.Character, 0, count)
	if len(pool) >= count {
		for _, i := range rnd.Perm(len(pool))[:count] {
			out = append(out, pool[i])
		}
		return out
	}
	for len(out) < count {
		out = append(out, pool[rnd.Intn(len(pool))])
	}
	return out
}

// validPool drops characters without an id or name.
func validPool(pool []domain.Character) []domain.Character {
	out := make([]domain.Character, 0, len(pool))
	for _, c := range pool {
		if c.Valid() {
			out = append(out, c)
		}
	}
	return out
}
