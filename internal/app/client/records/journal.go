package records

import (
	"context"
	"fmt"
	"sort"

	"faithkeeper/internal/app/client/localstore"
)

// SaveJournalEntry сохраняет запись дневника офлайн. Идентификатор и время
// создания назначаются, если отсутствуют; synced всегда сбрасывается.
func (h *Helpers) SaveJournalEntry(ctx context.Context, e localstore.JournalEntry) (localstore.JournalEntry, error) {
	now := h.now().UTC()
	if e.ID == "" {
		e.ID = h.newID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	e.Synced = false

	if err := localstore.Put(ctx, h.store, e); err != nil {
		return e, fmt.Errorf("ошибка сохранения записи дневника: %w", err)
	}

	h.log.Debug("Запись дневника сохранена локально", "id", e.ID)
	return e, nil
}

// UnsyncedJournalEntries записи дневника, ожидающие отправки
func (h *Helpers) UnsyncedJournalEntries(ctx context.Context) ([]localstore.JournalEntry, error) {
	return localstore.GetByIndex[localstore.JournalEntry](ctx, h.store, localstore.IndexSynced, false)
}

// MarkJournalEntrySynced помечает запись как доставленную
func (h *Helpers) MarkJournalEntrySynced(ctx context.Context, id string) error {
	updated, err := markSynced(ctx, h.store, id, func(e localstore.JournalEntry) (localstore.JournalEntry, bool) {
		e.Synced = true
		return e, true
	})
	if err != nil {
		return fmt.Errorf("ошибка отметки синхронизации записи дневника %s: %w", id, err)
	}
	if !updated {
		h.log.Debug("Запись дневника исчезла до отметки синхронизации", "id", id)
	}
	return nil
}

// ConfirmJournalEntry помечает доставленную копию как синхронизированную.
// Если запись успели изменить после отправки, она остается в очереди.
func (h *Helpers) ConfirmJournalEntry(ctx context.Context, delivered localstore.JournalEntry) (bool, error) {
	updated, err := markSynced(ctx, h.store, delivered.ID, func(e localstore.JournalEntry) (localstore.JournalEntry, bool) {
		e.Synced = true
		return e, sameVersion(e.UpdatedAt, delivered.UpdatedAt)
	})
	if err != nil {
		return false, fmt.Errorf("ошибка отметки синхронизации записи дневника %s: %w", delivered.ID, err)
	}
	return updated, nil
}

// JournalEntry возвращает запись дневника по идентификатору
func (h *Helpers) JournalEntry(ctx context.Context, id string) (localstore.JournalEntry, bool, error) {
	return localstore.Get[localstore.JournalEntry](ctx, h.store, id)
}

// JournalEntries все записи дневника, новые первыми
func (h *Helpers) JournalEntries(ctx context.Context) ([]localstore.JournalEntry, error) {
	entries, err := localstore.GetAll[localstore.JournalEntry](ctx, h.store)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}
