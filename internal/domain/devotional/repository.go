package devotional

import "context"

type Repository interface {
	GetByDate(ctx context.Context, date string) (*Devotional, error)
	Upsert(ctx context.Context, d *Devotional) error
}
