package redis

import (
	"context"
	"encoding/json"
	"strconv"

	"brainrot-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	likesKey            = "quiz:likes"
	guestbookIndexKey   = "quiz:guestbook"
	guestbookEntriesKey = "quiz:guestbook:entries"
	guestbookLikesKey   = "quiz:guestbook:likes"
)

// LikeStore keeps character like counters as: HINCRBY quiz:likes {characterID} 1
type LikeStore struct {
	client *redis.Client
}

func NewLikeStore(client *redis.Client) *LikeStore {
	return &LikeStore{client: client}
}

func (s *LikeStore) IncrementLike(ctx context.Context, characterID string) (int64, error) {
	return s.client.HIncrBy(ctx, likesKey, characterID, 1).Result()
}

func (s *LikeStore) Likes(ctx context.Context) (map[string]int64, error) {
	raw, err := s.client.HGetAll(ctx, likesKey).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(raw))
	for id, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		out[id] = n
	}
	return out, nil
}

// GuestbookStore keeps guestbook entries in Redis.
// Order is kept as:   ZADD quiz:guestbook {unixNano} {entryID}
// Entries are kept as: HSET quiz:guestbook:entries {entryID} {json}
// Likes are kept as:   HINCRBY quiz:guestbook:likes {entryID} 1
type GuestbookStore struct {
	client *redis.Client
}

func NewGuestbookStore(client *redis.Client) *GuestbookStore {
	return &GuestbookStore{client: client}
}

func (s *GuestbookStore) AddEntry(ctx context.Context, entry domain.GuestbookEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, guestbookEntriesKey, entry.ID, raw)
		pipe.ZAdd(ctx, guestbookIndexKey, redis.Z{Score: float64(entry.Timestamp.UnixNano()), Member: entry.ID})
		return nil
	})
	return err
}

func (s *GuestbookStore) LatestEntries(ctx context.Context, limit int) ([]domain.GuestbookEntry, error) {
	ids, err := s.client.ZRevRange(ctx, guestbookIndexKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.GuestbookEntry{}, nil
	}

	var entries, likes *redis.SliceCmd
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		entries = pipe.HMGet(ctx, guestbookEntriesKey, ids...)
		likes = pipe.HMGet(ctx, guestbookLikesKey, ids...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.GuestbookEntry, 0, len(ids))
	likeVals := likes.Val()
	for i, raw := range entries.Val() {
		str, ok := raw.(string)
		if !ok {
			continue
		}
		var e domain.GuestbookEntry
		if err := json.Unmarshal([]byte(str), &e); err != nil {
			continue
		}
		if n, ok := likeVals[i].(string); ok {
			e.Likes, _ = strconv.ParseInt(n, 10, 64)
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *GuestbookStore) LikeEntry(ctx context.Context, entryID string) (int64, error) {
	exists, err := s.client.HExists(ctx, guestbookEntriesKey, entryID).Result()
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, domain.ErrEntryNotFound
	}
	return s.client.HIncrBy(ctx, guestbookLikesKey, entryID, 1).Result()
}
