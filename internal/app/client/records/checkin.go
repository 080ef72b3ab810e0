package records

import (
	"context"
	"fmt"

	"faithkeeper/internal/app/client/localstore"
)

// SaveCheckin сохраняет ежедневную отметку. Без даты берется текущий день.
// Если на эту дату отметка уже есть, новая ложится на тот же ключ;
// отметка с другим явным идентификатором отклоняется уникальным индексом.
func (h *Helpers) SaveCheckin(ctx context.Context, c localstore.DailyCheckin) (localstore.DailyCheckin, error) {
	now := h.now()
	if c.Date == "" {
		c.Date = now.Format(localstore.DateLayout)
	}

	if c.ID == "" {
		existing, ok, err := h.CheckinForDate(ctx, c.Date)
		if err != nil {
			return c, fmt.Errorf("ошибка поиска отметки за %s: %w", c.Date, err)
		}
		if ok {
			c.ID = existing.ID
			if c.CreatedAt.IsZero() {
				c.CreatedAt = existing.CreatedAt
			}
		} else {
			c.ID = h.newID()
		}
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now.UTC()
	}
	c.UpdatedAt = now.UTC()
	c.Synced = false

	if err := localstore.Put(ctx, h.store, c); err != nil {
		return c, fmt.Errorf("ошибка сохранения отметки за %s: %w", c.Date, err)
	}

	h.log.Debug("Отметка сохранена локально", "id", c.ID, "date", c.Date)
	return c, nil
}

// CheckinForDate отметка за календарную дату (YYYY-MM-DD)
func (h *Helpers) CheckinForDate(ctx context.Context, date string) (localstore.DailyCheckin, bool, error) {
	found, err := localstore.GetByIndex[localstore.DailyCheckin](ctx, h.store, localstore.IndexDate, date)
	if err != nil || len(found) == 0 {
		return localstore.DailyCheckin{}, false, err
	}
	return found[0], true, nil
}

// UnsyncedCheckins отметки, ожидающие отправки
func (h *Helpers) UnsyncedCheckins(ctx context.Context) ([]localstore.DailyCheckin, error) {
	return localstore.GetByIndex[localstore.DailyCheckin](ctx, h.store, localstore.IndexSynced, false)
}

// MarkCheckinSynced помечает отметку как доставленную
func (h *Helpers) MarkCheckinSynced(ctx context.Context, id string) error {
	_, err := markSynced(ctx, h.store, id, func(c localstore.DailyCheckin) (localstore.DailyCheckin, bool) {
		c.Synced = true
		return c, true
	})
	if err != nil {
		return fmt.Errorf("ошибка отметки синхронизации отметки %s: %w", id, err)
	}
	return nil
}

// ConfirmCheckin помечает доставленную копию отметки, если она не менялась
func (h *Helpers) ConfirmCheckin(ctx context.Context, delivered localstore.DailyCheckin) (bool, error) {
	updated, err := markSynced(ctx, h.store, delivered.ID, func(c localstore.DailyCheckin) (localstore.DailyCheckin, bool) {
		c.Synced = true
		return c, sameVersion(c.UpdatedAt, delivered.UpdatedAt)
	})
	if err != nil {
		return false, fmt.Errorf("ошибка отметки синхронизации отметки %s: %w", delivered.ID, err)
	}
	return updated, nil
}
