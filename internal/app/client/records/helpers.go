// Package records кодирует соглашение о синхронизации (synced, cached_at)
// и правила идентичности сущностей поверх локального хранилища.
package records

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"faithkeeper/internal/app/client/localstore"
)

// Helpers типизированные операции над коллекциями хранилища
type Helpers struct {
	store *localstore.Store
	log   *slog.Logger
	now   func() time.Time
	newID func() string
}

// Option настройка Helpers
type Option func(*Helpers)

// WithClock подменяет источник времени
func WithClock(now func() time.Time) Option {
	return func(h *Helpers) {
		h.now = now
	}
}

// WithIDGenerator подменяет генератор идентификаторов
func WithIDGenerator(newID func() string) Option {
	return func(h *Helpers) {
		h.newID = newID
	}
}

// New создает набор помощников над хранилищем
func New(store *localstore.Store, log *slog.Logger, opts ...Option) *Helpers {
	h := &Helpers{
		store: store,
		log:   log.With("component", "records"),
		now:   time.Now,
		newID: NewID,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewID генерирует локально уникальный идентификатор, упорядоченный по времени (UUIDv7)
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Store возвращает хранилище, над которым работают помощники
func (h *Helpers) Store() *localstore.Store {
	return h.store
}

// PendingCount сумма несинхронизированных записей всех изменяемых коллекций
// и недоставленных действий исходящей очереди.
func (h *Helpers) PendingCount(ctx context.Context) (int, error) {
	journal, err := localstore.CountByIndex[localstore.JournalEntry](ctx, h.store, localstore.IndexSynced, false)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчета записей дневника: %w", err)
	}
	prayers, err := localstore.CountByIndex[localstore.PrayerRequest](ctx, h.store, localstore.IndexSynced, false)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчета молитвенных просьб: %w", err)
	}
	checkins, err := localstore.CountByIndex[localstore.DailyCheckin](ctx, h.store, localstore.IndexSynced, false)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчета отметок: %w", err)
	}
	actions, err := localstore.Count[localstore.PendingAction](ctx, h.store)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчета очереди действий: %w", err)
	}
	return journal + prayers + checkins + actions, nil
}

// markSynced читает запись и переключает synced. Если запись исчезла между
// чтением и записью или mark отказался от отметки, ничего не происходит.
func markSynced[T localstore.Entity](ctx context.Context, s *localstore.Store, id string, mark func(T) (T, bool)) (bool, error) {
	rec, ok, err := localstore.Get[T](ctx, s, id)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	rec, ok = mark(rec)
	if !ok {
		return false, nil
	}
	return localstore.Update(ctx, s, rec)
}

// sameVersion запись не менялась после того, как ее копия ушла на сервер
func sameVersion(stored, delivered time.Time) bool {
	return stored.Equal(delivered)
}
