package postgres

import (
	"context"
	"fmt"

	"brainrot-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// CharacterLoader loads the character catalog from Postgres.
type CharacterLoader struct {
	pool *pgxpool.Pool
}

func NewCharacterLoader(pool *pgxpool.Pool) *CharacterLoader {
	return &CharacterLoader{pool: pool}
}

func (l *CharacterLoader) LoadCharacters(ctx context.Context) ([]domain.Character, error) {
	rows, err := l.pool.Query(ctx, `SELECT id, name, description, image_ref FROM characters ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("load characters: %w", err)
	}
	defer rows.Close()

	var out []domain.Character
	for rows.Next() {
		var c domain.Character
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ImageRef); err != nil {
			return nil, fmt.Errorf("scan character: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load characters: %w", err)
	}
	return out, nil
}

// Seed inserts characters that are not present yet; existing rows are left alone.
func (l *CharacterLoader) Seed(ctx context.Context, characters []domain.Character) error {
	batch := &pgx.Batch{}
	for i, c := range characters {
		batch.Queue(`INSERT INTO characters (id, name, description, image_ref, position)
			VALUES ($1, $2, $3, $4, $5) ON CONFLICT (id) DO NOTHING`,
			c.ID, c.Name, c.Description, c.ImageRef, i)
	}
	br := l.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range characters {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("seed characters: %w", err)
		}
	}
	return nil
}
