package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sort"
	"sync"
	"time"

	"brainrot-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const catalogKey = "quiz:characters"

// CharacterLoader fetches the character catalog from a backing store (e.g., Postgres).
type CharacterLoader interface {
	LoadCharacters(ctx context.Context) ([]domain.Character, error)
}

// CatalogRepository caches the catalog in Redis and falls back to a loader on cache miss.
// Characters are stored as: HSET quiz:characters {characterID} {json}
type CatalogRepository struct {
	client *redis.Client
	loader CharacterLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewCatalogRepository(client *redis.Client, loader CharacterLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) Characters(ctx context.Context) ([]domain.Character, error) {
	if chars, ok := r.cached(ctx); ok {
		return chars, nil
	}

	result, err, _ := r.sf.Do(catalogKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if chars, ok := r.cached(ctx); ok {
			return chars, nil
		}

		chars, err := r.loader.LoadCharacters(ctx)
		if err != nil {
			return nil, err
		}

		pipe := r.client.Pipeline()
		for _, c := range chars {
			raw, err := json.Marshal(c)
			if err != nil {
				return nil, err
			}
			pipe.HSet(ctx, catalogKey, c.ID, raw)
		}
		if ttl := r.ttlWithJitter(); ttl > 0 && len(chars) > 0 {
			pipe.Expire(ctx, catalogKey, ttl)
		}
		// cache fill is best effort
		_, _ = pipe.Exec(ctx)

		return chars, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]domain.Character(nil), result.([]domain.Character)...), nil
}

// Invalidate drops the cached catalog.
func (r *CatalogRepository) Invalidate(ctx context.Context) error {
	return r.client.Del(ctx, catalogKey).Err()
}

func (r *CatalogRepository) cached(ctx context.Context) ([]domain.Character, bool) {
	fields, err := r.client.HGetAll(ctx, catalogKey).Result()
	if err != nil || len(fields) == 0 {
		return nil, false
	}
	chars := make([]domain.Character, 0, len(fields))
	for _, raw := range fields {
		var c domain.Character
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return nil, false
		}
		chars = append(chars, c)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i].ID < chars[j].ID })
	return chars, true
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
