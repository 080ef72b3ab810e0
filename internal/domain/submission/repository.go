package submission

import "context"

type Repository interface {
	// Upsert сохраняет запись по (kind, id), last writer wins.
	// Возвращает true, если запись создана впервые.
	Upsert(ctx context.Context, s *Submission) (bool, error)
}
