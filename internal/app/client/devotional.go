package client

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"faithkeeper/internal/app/client/localstore"
)

// ReadDevotional материал дня: при наличии сети с сервера с сохранением
// в коллекцию материалов, иначе последняя сохраненная версия за дату.
func ReadDevotional(
	ctx context.Context,
	deps OfflineDeps,
	date string,
	fetch func(ctx context.Context, date string) (localstore.Devotional, error),
	opts FetchOptions,
) (OfflineData[localstore.Devotional], error) {
	var zero OfflineData[localstore.Devotional]
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	online := deps.Online == nil || deps.Online()
	key := "devotional-" + date

	var fetchErr error
	if online {
		d, err := fetch(ctx, date)
		if err == nil {
			stored, err := deps.Records.CacheDevotional(ctx, d)
			if err != nil {
				log.Warn("Не удалось сохранить материал", "date", date, "error", err)
				stored = d
			}
			return OfflineData[localstore.Devotional]{Data: stored, Source: SourceNetwork, CachedAt: stored.CachedAt}, nil
		}
		fetchErr = err
		log.Debug("Сервер не ответил, читаем сохраненный материал", "date", date, "error", err)
	}

	d, ok, err := deps.Records.DevotionalForDate(ctx, date)
	if err != nil {
		return zero, fmt.Errorf("%w: %w", missing(online, key, fetchErr), err)
	}
	if !ok {
		return zero, missing(online, key, fetchErr)
	}

	return OfflineData[localstore.Devotional]{
		Data:     d,
		Source:   SourceCache,
		Stale:    opts.MaxAge > 0 && now().Sub(d.CachedAt) > opts.MaxAge,
		CachedAt: d.CachedAt,
	}, nil
}

// Devotional материал дня для этого приложения
func (a *App) Devotional(ctx context.Context, date string) (OfflineData[localstore.Devotional], error) {
	return ReadDevotional(ctx, a.Offline(), date, a.remote.FetchDevotional, FetchOptions{MaxAge: a.config.CacheMaxAge})
}
