package records

import (
	"context"
	"fmt"

	"faithkeeper/internal/app/client/localstore"
)

// SavePrayerRequest сохраняет молитвенную просьбу офлайн
func (h *Helpers) SavePrayerRequest(ctx context.Context, p localstore.PrayerRequest) (localstore.PrayerRequest, error) {
	now := h.now().UTC()
	if p.ID == "" {
		p.ID = h.newID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.Status == "" {
		p.Status = localstore.PrayerActive
	}
	p.UpdatedAt = now
	p.Synced = false

	if err := localstore.Put(ctx, h.store, p); err != nil {
		return p, fmt.Errorf("ошибка сохранения молитвенной просьбы: %w", err)
	}

	h.log.Debug("Молитвенная просьба сохранена локально", "id", p.ID, "status", p.Status)
	return p, nil
}

// UnsyncedPrayerRequests просьбы, ожидающие отправки
func (h *Helpers) UnsyncedPrayerRequests(ctx context.Context) ([]localstore.PrayerRequest, error) {
	return localstore.GetByIndex[localstore.PrayerRequest](ctx, h.store, localstore.IndexSynced, false)
}

// MarkPrayerRequestSynced помечает просьбу как доставленную
func (h *Helpers) MarkPrayerRequestSynced(ctx context.Context, id string) error {
	_, err := markSynced(ctx, h.store, id, func(p localstore.PrayerRequest) (localstore.PrayerRequest, bool) {
		p.Synced = true
		return p, true
	})
	if err != nil {
		return fmt.Errorf("ошибка отметки синхронизации просьбы %s: %w", id, err)
	}
	return nil
}

// ConfirmPrayerRequest помечает доставленную копию просьбы, если она не менялась
func (h *Helpers) ConfirmPrayerRequest(ctx context.Context, delivered localstore.PrayerRequest) (bool, error) {
	updated, err := markSynced(ctx, h.store, delivered.ID, func(p localstore.PrayerRequest) (localstore.PrayerRequest, bool) {
		p.Synced = true
		return p, sameVersion(p.UpdatedAt, delivered.UpdatedAt)
	})
	if err != nil {
		return false, fmt.Errorf("ошибка отметки синхронизации просьбы %s: %w", delivered.ID, err)
	}
	return updated, nil
}

// PrayerRequestsByStatus просьбы с заданным статусом
func (h *Helpers) PrayerRequestsByStatus(ctx context.Context, status localstore.PrayerStatus) ([]localstore.PrayerRequest, error) {
	return localstore.GetByIndex[localstore.PrayerRequest](ctx, h.store, localstore.IndexStatus, string(status))
}

// PrayerRequest просьба по идентификатору
func (h *Helpers) PrayerRequest(ctx context.Context, id string) (localstore.PrayerRequest, bool, error) {
	return localstore.Get[localstore.PrayerRequest](ctx, h.store, id)
}

// SetPrayerStatus меняет статус просьбы. Изменение снова ставит ее
// в очередь на отправку. Для отсутствующей просьбы возвращает false.
func (h *Helpers) SetPrayerStatus(ctx context.Context, id string, status localstore.PrayerStatus) (localstore.PrayerRequest, bool, error) {
	switch status {
	case localstore.PrayerActive, localstore.PrayerAnswered, localstore.PrayerArchived:
	default:
		return localstore.PrayerRequest{}, false, fmt.Errorf("неизвестный статус просьбы: %q", status)
	}

	p, ok, err := h.PrayerRequest(ctx, id)
	if err != nil || !ok {
		return p, false, err
	}

	p.Status = status
	saved, err := h.SavePrayerRequest(ctx, p)
	return saved, true, err
}
