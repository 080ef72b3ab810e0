package client

import "errors"

var (
	// ErrDelivery попытка доставки не удалась: сеть, таймаут или не-2xx ответ.
	// Запись остается в очереди до следующего прохода.
	ErrDelivery = errors.New("delivery failed")
	// ErrOfflineNoData нет сети и нет сохраненной копии
	ErrOfflineNoData = errors.New("no offline data available")
	// ErrLoadFailed сеть не ответила, кеш пуст
	ErrLoadFailed = errors.New("failed to load data")
)
