package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"faithkeeper/internal/domain/devotional"
)

type DevotionalRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewDevotionalRepository(pool *pgxpool.Pool, log *slog.Logger) *DevotionalRepository {
	return &DevotionalRepository{
		pool: pool,
		log:  log.With("component", "devotional_repository"),
	}
}

func (r *DevotionalRepository) GetByDate(ctx context.Context, date string) (*devotional.Devotional, error) {
	const query = `
		SELECT to_char(date, 'YYYY-MM-DD'), title, scripture, body, published_at
		FROM devotionals
		WHERE date = $1::date`

	var d devotional.Devotional
	err := r.pool.QueryRow(ctx, query, date).Scan(
		&d.Date,
		&d.Title,
		&d.Scripture,
		&d.Body,
		&d.PublishedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, devotional.ErrNotFound
		}
		r.log.Error("failed to get devotional", "date", date, "error", err)
		return nil, fmt.Errorf("get devotional: %w", err)
	}

	return &d, nil
}

func (r *DevotionalRepository) Upsert(ctx context.Context, d *devotional.Devotional) error {
	const query = `
		INSERT INTO devotionals (date, title, scripture, body, published_at)
		VALUES ($1::date, $2, $3, $4, $5)
		ON CONFLICT (date) DO UPDATE
		SET title        = EXCLUDED.title,
		    scripture    = EXCLUDED.scripture,
		    body         = EXCLUDED.body,
		    published_at = EXCLUDED.published_at`

	if _, err := r.pool.Exec(ctx, query, d.Date, d.Title, d.Scripture, d.Body, d.PublishedAt); err != nil {
		r.log.Error("failed to upsert devotional", "date", d.Date, "error", err)
		return fmt.Errorf("upsert devotional: %w", err)
	}
	return nil
}
