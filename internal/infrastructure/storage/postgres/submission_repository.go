package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"faithkeeper/internal/domain/submission"
)

type SubmissionRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewSubmissionRepository(pool *pgxpool.Pool, log *slog.Logger) *SubmissionRepository {
	return &SubmissionRepository{
		pool: pool,
		log:  log.With("component", "submission_repository"),
	}
}

// Upsert вставляет запись или перезаписывает существующую с тем же (kind, id).
// xmax = 0 только у строки, созданной этой же вставкой.
func (r *SubmissionRepository) Upsert(ctx context.Context, s *submission.Submission) (bool, error) {
	const query = `
		INSERT INTO submissions (kind, id, action_type, payload, received_at, delivery_count)
		VALUES ($1, $2, $3, $4, $5, 1)
		ON CONFLICT (kind, id) DO UPDATE
		SET action_type    = EXCLUDED.action_type,
		    payload        = EXCLUDED.payload,
		    received_at    = EXCLUDED.received_at,
		    delivery_count = submissions.delivery_count + 1
		RETURNING (xmax = 0) AS inserted`

	var inserted bool
	err := r.pool.QueryRow(ctx, query,
		string(s.Kind),
		s.ID,
		nullable(s.ActionType),
		[]byte(s.Payload),
		s.ReceivedAt,
	).Scan(&inserted)
	if err != nil {
		r.log.Error("failed to upsert submission", "kind", s.Kind, "id", s.ID, "error", err)
		return false, fmt.Errorf("upsert submission: %w", err)
	}

	return inserted, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
