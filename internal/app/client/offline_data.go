package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"faithkeeper/internal/app/client/records"
)

// DataSource откуда получены данные
type DataSource string

const (
	SourceNetwork DataSource = "network"
	SourceCache   DataSource = "cache"
)

// OfflineData результат чтения с откатом на кеш
type OfflineData[T any] struct {
	Data     T
	Source   DataSource
	Stale    bool
	CachedAt time.Time
}

// OfflineDeps зависимости чтения с откатом на кеш
type OfflineDeps struct {
	Records *records.Helpers
	Online  func() bool
	Log     *slog.Logger
	Now     func() time.Time
}

// FetchOptions параметры чтения
type FetchOptions struct {
	// MaxAge старше этого значения кеш помечается Stale, но все равно
	// возвращается. Ноль отключает проверку.
	MaxAge time.Duration
}

// cacheType тип записи кеша для произвольных ключей
const cacheType = "offline"

// FetchOffline читает данные по ключу: при наличии сети сначала сервер,
// с перезаписью кеша; без сети или при ошибке сервера - последняя
// сохраненная копия.
func FetchOffline[T any](
	ctx context.Context,
	deps OfflineDeps,
	key string,
	fetch func(ctx context.Context) (T, error),
	opts FetchOptions,
) (OfflineData[T], error) {
	var zero OfflineData[T]
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	online := deps.Online == nil || deps.Online()

	var fetchErr error
	if online {
		data, err := fetch(ctx)
		if err == nil {
			if _, err := deps.Records.CacheContent(ctx, cacheType, key, data); err != nil {
				log.Warn("Не удалось обновить кеш", "key", key, "error", err)
			}
			return OfflineData[T]{Data: data, Source: SourceNetwork, CachedAt: now()}, nil
		}
		fetchErr = err
		log.Debug("Сервер не ответил, читаем кеш", "key", key, "error", err)
	}

	cached, ok, err := deps.Records.CachedContent(ctx, cacheType, key)
	if err != nil {
		return zero, errors.Join(missing(online, key, fetchErr), err)
	}
	if !ok {
		return zero, missing(online, key, fetchErr)
	}

	var data T
	if err := json.Unmarshal(cached.Payload, &data); err != nil {
		return zero, errors.Join(missing(online, key, fetchErr), fmt.Errorf("ошибка разбора кеша %s: %w", key, err))
	}

	return OfflineData[T]{
		Data:     data,
		Source:   SourceCache,
		Stale:    opts.MaxAge > 0 && now().Sub(cached.CachedAt) > opts.MaxAge,
		CachedAt: cached.CachedAt,
	}, nil
}

func missing(online bool, key string, fetchErr error) error {
	if !online {
		return fmt.Errorf("%w: %s", ErrOfflineNoData, key)
	}
	return fmt.Errorf("%w: %s: %w", ErrLoadFailed, key, fetchErr)
}
