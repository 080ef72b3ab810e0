package devotional

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/exp/slog"
)

const DateLayout = "2006-01-02"

type Servicer interface {
	Get(ctx context.Context, date string) (*Devotional, error)
	Publish(ctx context.Context, d Devotional) (*Devotional, error)
}

type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With("component", "devotional_service"),
		now:  time.Now,
	}
}

func (s *Service) Get(ctx context.Context, date string) (*Devotional, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalid, date)
	}

	d, err := s.repo.GetByDate(ctx, date)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Error("failed to get devotional", "date", date, "error", err)
		}
		return nil, err
	}
	return d, nil
}

// Publish создает или заменяет материал на дату d.Date
func (s *Service) Publish(ctx context.Context, d Devotional) (*Devotional, error) {
	if _, err := time.Parse(DateLayout, d.Date); err != nil {
		return nil, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalid, d.Date)
	}
	if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Body) == "" {
		return nil, fmt.Errorf("%w: title and body are required", ErrInvalid)
	}

	d.PublishedAt = s.now().UTC()
	if err := s.repo.Upsert(ctx, &d); err != nil {
		s.log.Error("failed to publish devotional", "date", d.Date, "error", err)
		return nil, fmt.Errorf("publish devotional: %w", err)
	}

	s.log.Info("devotional published", "date", d.Date)
	return &d, nil
}
