package connectivity

import (
	"context"
	"time"
)

// Probe проверка доступности сервера для хостов без собственного сигнала сети
type Probe interface {
	HealthCheck(ctx context.Context) error
}

// ProbeFunc адаптер функции к Probe
type ProbeFunc func(ctx context.Context) error

func (f ProbeFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

// Watch опрашивает probe с заданным интервалом и переводит монитор
// в online/offline по результату. Первая проверка выполняется сразу.
// Блокируется до отмены ctx.
func (m *Monitor) Watch(ctx context.Context, probe Probe, interval time.Duration) {
	check := func() {
		probeCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()

		err := probe.HealthCheck(probeCtx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			m.log.Debug("Сервер недоступен", "error", err)
		}
		m.SetOnline(err == nil)
	}

	check()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
