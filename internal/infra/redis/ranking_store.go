package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"brainrot-quiz-service/internal/app"
	"brainrot-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	rankingScoresKey  = "quiz:rankings"
	rankingEntriesKey = "quiz:rankings:entries"
	rankingPageSize   = 200
)

// RankingStore keeps the leaderboard in Redis.
// Scores are stored as:  ZADD quiz:rankings {score} {entryID}
// Entries are stored as: HSET quiz:rankings:entries {entryID} {json}
type RankingStore struct {
	client *redis.Client
}

func NewRankingStore(client *redis.Client) *RankingStore {
	return &RankingStore{client: client}
}

func (s *RankingStore) AddRanking(ctx context.Context, entry domain.RankingEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, rankingEntriesKey, entry.ID, raw)
		pipe.ZAdd(ctx, rankingScoresKey, redis.Z{Score: float64(entry.Score), Member: entry.ID})
		return nil
	})
	return err
}

// TopRankings walks the score index from the top in pages, skipping entries older than
// since, until limit entries are collected and no lower page can tie with them.
func (s *RankingStore) TopRankings(ctx context.Context, since time.Time, limit int) ([]domain.RankingEntry, error) {
	var out []domain.RankingEntry
	for start := int64(0); ; start += rankingPageSize {
		page, err := s.client.ZRevRangeWithScores(ctx, rankingScoresKey, start, start+rankingPageSize-1).Result()
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		ids := make([]string, len(page))
		for i, z := range page {
			ids[i] = fmt.Sprint(z.Member)
		}
		raws, err := s.client.HMGet(ctx, rankingEntriesKey, ids...).Result()
		if err != nil {
			return nil, err
		}
		for _, raw := range raws {
			str, ok := raw.(string)
			if !ok {
				continue
			}
			var e domain.RankingEntry
			if err := json.Unmarshal([]byte(str), &e); err != nil {
				continue
			}
			if !since.IsZero() && e.Timestamp.Before(since) {
				continue
			}
			out = append(out, e)
		}
		if len(page) < rankingPageSize {
			break
		}
		if limit > 0 && len(out) >= limit && int(page[len(page)-1].Score) < out[limit-1].Score {
			break
		}
	}
	app.SortRankings(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *RankingStore) Standing(ctx context.Context, score int) (int, int, error) {
	var better, total *redis.IntCmd
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		better = pipe.ZCount(ctx, rankingScoresKey, "("+strconv.Itoa(score), "+inf")
		total = pipe.ZCard(ctx, rankingScoresKey)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return int(better.Val()), int(total.Val()), nil
}
