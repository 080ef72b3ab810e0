package records

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"faithkeeper/internal/app/client/localstore"
)

// CacheDevotional кеширует материал для чтения. Материал другой версии
// на ту же дату вытесняется.
func (h *Helpers) CacheDevotional(ctx context.Context, d localstore.Devotional) (localstore.Devotional, error) {
	d.CachedAt = h.now().UTC()

	if d.Date != "" {
		prev, ok, err := h.DevotionalForDate(ctx, d.Date)
		if err != nil {
			return d, fmt.Errorf("ошибка поиска материала за %s: %w", d.Date, err)
		}
		if ok && prev.ID != d.ID {
			if err := localstore.Delete[localstore.Devotional](ctx, h.store, prev.ID); err != nil {
				return d, fmt.Errorf("ошибка вытеснения материала %s: %w", prev.ID, err)
			}
		}
	}

	if err := localstore.Put(ctx, h.store, d); err != nil {
		return d, fmt.Errorf("ошибка кеширования материала %s: %w", d.ID, err)
	}
	return d, nil
}

// Devotional материал по идентификатору
func (h *Helpers) Devotional(ctx context.Context, id string) (localstore.Devotional, bool, error) {
	return localstore.Get[localstore.Devotional](ctx, h.store, id)
}

// DevotionalForDate материал за календарную дату без знания идентификатора
func (h *Helpers) DevotionalForDate(ctx context.Context, date string) (localstore.Devotional, bool, error) {
	found, err := localstore.GetByIndex[localstore.Devotional](ctx, h.store, localstore.IndexDate, date)
	if err != nil || len(found) == 0 {
		return localstore.Devotional{}, false, err
	}
	return found[0], true, nil
}

// ContentKey ключ кеша "{type}-{id}"
func ContentKey(typ, id string) string {
	return typ + "-" + id
}

// CacheContent перезаписывает запись кеша для пары тип/идентификатор
func (h *Helpers) CacheContent(ctx context.Context, typ, id string, payload any) (localstore.CachedContent, error) {
	raw, ok := payload.(json.RawMessage)
	if !ok {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return localstore.CachedContent{}, fmt.Errorf("ошибка сериализации кеша %s: %w", ContentKey(typ, id), err)
		}
	}

	c := localstore.CachedContent{
		Key:       ContentKey(typ, id),
		Type:      typ,
		ContentID: id,
		Payload:   raw,
		CachedAt:  h.now().UTC(),
	}
	if err := localstore.Put(ctx, h.store, c); err != nil {
		return c, fmt.Errorf("ошибка записи кеша %s: %w", c.Key, err)
	}
	return c, nil
}

// CachedContent запись кеша по типу и идентификатору
func (h *Helpers) CachedContent(ctx context.Context, typ, id string) (localstore.CachedContent, bool, error) {
	return localstore.Get[localstore.CachedContent](ctx, h.store, ContentKey(typ, id))
}

// CachedContentByType все записи кеша заданного типа
func (h *Helpers) CachedContentByType(ctx context.Context, typ string) ([]localstore.CachedContent, error) {
	return localstore.GetByIndex[localstore.CachedContent](ctx, h.store, localstore.IndexType, typ)
}

// SweepCachedContent удаляет записи кеша старше maxAge
func (h *Helpers) SweepCachedContent(ctx context.Context, maxAge time.Duration) (int, error) {
	bound := h.now().Add(-maxAge)
	removed, err := localstore.DeleteBefore[localstore.CachedContent](ctx, h.store, localstore.IndexCachedAt, bound)
	if err != nil {
		return 0, fmt.Errorf("ошибка очистки кеша: %w", err)
	}
	if removed > 0 {
		h.log.Info("Устаревший кеш удален", "removed", removed, "max_age", maxAge)
	}
	return removed, nil
}

// ClearCachedContent удаляет весь кеш
func (h *Helpers) ClearCachedContent(ctx context.Context) error {
	return localstore.Clear[localstore.CachedContent](ctx, h.store)
}
