package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"brainrot-quiz-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

const catalogKey = "characters"

// CharacterLoader fetches the character catalog from a backing store (e.g., Postgres).
type CharacterLoader interface {
	LoadCharacters(ctx context.Context) ([]domain.Character, error)
}

// CatalogRepository caches the catalog with TTL to avoid repeated DB hits.
type CatalogRepository struct {
	loader CharacterLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	cached    []domain.Character
	expiresAt time.Time
}

func NewCatalogRepository(loader CharacterLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Characters returns a copy of the catalog, loading it on a miss.
func (r *CatalogRepository) Characters(ctx context.Context) ([]domain.Character, error) {
	if chars, ok := r.fresh(r.clock()); ok {
		return chars, nil
	}

	result, err, _ := r.sf.Do(catalogKey, func() (interface{}, error) {
		now := r.clock()
		if chars, ok := r.fresh(now); ok {
			return chars, nil
		}

		chars, err := r.loader.LoadCharacters(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cached = chars
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return chars, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]domain.Character(nil), result.([]domain.Character)...), nil
}

// Invalidate drops the cached catalog.
func (r *CatalogRepository) Invalidate() {
	r.mu.Lock()
	r.cached, r.expiresAt = nil, time.Time{}
	r.mu.Unlock()
}

func (r *CatalogRepository) fresh(now time.Time) ([]domain.Character, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.cached == nil || !r.expiresAt.After(now) {
		return nil, false
	}
	return append([]domain.Character(nil), r.cached...), true
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticCharacterLoader is a loader backed by a fixed slice (useful for tests/demos).
type StaticCharacterLoader struct {
	characters []domain.Character
}

func NewStaticCharacterLoader(characters []domain.Character) *StaticCharacterLoader {
	return &StaticCharacterLoader{characters: characters}
}

func (l *StaticCharacterLoader) LoadCharacters(_ context.Context) ([]domain.Character, error) {
	return append([]domain.Character(nil), l.characters...), nil
}
