package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// PullStore counts daily fortune pulls as: INCR quiz:fortune:{day}:{userID}
// The key expires when the day is over.
type PullStore struct {
	client *redis.Client
}

func NewPullStore(client *redis.Client) *PullStore {
	return &PullStore{client: client}
}

func (s *PullStore) IncrementPulls(ctx context.Context, userID, day string, ttl time.Duration) (int, error) {
	key := pullKey(userID, day)
	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 && ttl > 0 {
		if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, err
		}
	}
	return int(n), nil
}

func (s *PullStore) Pulls(ctx context.Context, userID, day string) (int, error) {
	n, err := s.client.Get(ctx, pullKey(userID, day)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

func pullKey(userID, day string) string {
	return "quiz:fortune:" + day + ":" + userID
}
