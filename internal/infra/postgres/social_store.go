package postgres

import (
	"context"
	"errors"
	"fmt"

	"brainrot-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// LikeStore keeps per-character like counters.
type LikeStore struct {
	pool *pgxpool.Pool
}

func NewLikeStore(pool *pgxpool.Pool) *LikeStore {
	return &LikeStore{pool: pool}
}

func (s *LikeStore) IncrementLike(ctx context.Context, characterID string) (int64, error) {
	var likes int64
	err := s.pool.QueryRow(ctx, `INSERT INTO character_likes (character_id, likes) VALUES ($1, 1)
		ON CONFLICT (character_id) DO UPDATE SET likes = character_likes.likes + 1
		RETURNING likes`, characterID).Scan(&likes)
	if err != nil {
		return 0, fmt.Errorf("increment like: %w", err)
	}
	return likes, nil
}

func (s *LikeStore) Likes(ctx context.Context) (map[string]int64, error) {
	rows, err := s.pool.Query(ctx, `SELECT character_id, likes FROM character_likes`)
	if err != nil {
		return nil, fmt.Errorf("load likes: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var id string
		var n int64
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan likes: %w", err)
		}
		out[id] = n
	}
	return out, rows.Err()
}

// GuestbookStore keeps visitor messages in guestbook_entries.
type GuestbookStore struct {
	pool *pgxpool.Pool
}

func NewGuestbookStore(pool *pgxpool.Pool) *GuestbookStore {
	return &GuestbookStore{pool: pool}
}

func (s *GuestbookStore) AddEntry(ctx context.Context, entry domain.GuestbookEntry) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO guestbook_entries (id, name, message, likes, created_at)
		VALUES ($1, $2, $3, $4, $5)`, entry.ID, entry.Name, entry.Message, entry.Likes, entry.Timestamp)
	if err != nil {
		return fmt.Errorf("insert guestbook entry: %w", err)
	}
	return nil
}

func (s *GuestbookStore) LatestEntries(ctx context.Context, limit int) ([]domain.GuestbookEntry, error) {
	rows, err := s.pool.Query(ctx, `SELECT id::text, name, message, likes, created_at FROM guestbook_entries
		ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("latest guestbook entries: %w", err)
	}
	defer rows.Close()

	out := make([]domain.GuestbookEntry, 0, limit)
	for rows.Next() {
		var e domain.GuestbookEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Message, &e.Likes, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan guestbook entry: %w", err)
		}
		e.Timestamp = e.Timestamp.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *GuestbookStore) LikeEntry(ctx context.Context, entryID string) (int64, error) {
	var likes int64
	err := s.pool.QueryRow(ctx, `UPDATE guestbook_entries SET likes = likes + 1 WHERE id::text = $1 RETURNING likes`,
		entryID).Scan(&likes)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrEntryNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("like guestbook entry: %w", err)
	}
	return likes, nil
}
