package postgres

import (
	"context"
	"fmt"
	"time"

	"brainrot-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// RankingStore keeps the leaderboard in the rankings table.
type RankingStore struct {
	pool *pgxpool.Pool
}

func NewRankingStore(pool *pgxpool.Pool) *RankingStore {
	return &RankingStore{pool: pool}
}

func (s *RankingStore) AddRanking(ctx context.Context, entry domain.RankingEntry) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO rankings (id, name, score, created_at) VALUES ($1, $2, $3, $4)`,
		entry.ID, entry.Name, entry.Score, entry.Timestamp)
	if err != nil {
		return fmt.Errorf("insert ranking: %w", err)
	}
	return nil
}

func (s *RankingStore) TopRankings(ctx context.Context, since time.Time, limit int) ([]domain.RankingEntry, error) {
	rows, err := s.pool.Query(ctx, `SELECT id::text, name, score, created_at FROM rankings
		WHERE created_at >= $1 ORDER BY score DESC, created_at ASC LIMIT $2`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("top rankings: %w", err)
	}
	defer rows.Close()

	out := make([]domain.RankingEntry, 0, limit)
	for rows.Next() {
		var e domain.RankingEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Score, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan ranking: %w", err)
		}
		e.Timestamp = e.Timestamp.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *RankingStore) Standing(ctx context.Context, score int) (int, int, error) {
	var better, total int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FILTER (WHERE score > $1), count(*) FROM rankings`, score).
		Scan(&better, &total)
	if err != nil {
		return 0, 0, fmt.Errorf("ranking standing: %w", err)
	}
	return better, total, nil
}
