package client

import (
	"context"
	"errors"
	gosync "sync"
	"time"

	"golang.org/x/exp/slog"
)

// ErrAlreadyRegistered тег уже зарегистрирован
var ErrAlreadyRegistered = errors.New("background task already registered")

// BackgroundRegistrar фоновая доставка вне основного цикла приложения.
// Регистрация выполняется по возможности: ошибка не должна останавливать клиент.
type BackgroundRegistrar interface {
	Register(ctx context.Context, tag string, run func(context.Context)) error
	Unregister(tag string)
}

// IntervalScheduler запускает зарегистрированные задачи по таймеру
type IntervalScheduler struct {
	interval time.Duration
	log      *slog.Logger

	mu    gosync.Mutex
	tasks map[string]context.CancelFunc
	wg    gosync.WaitGroup
}

func NewIntervalScheduler(interval time.Duration, log *slog.Logger) *IntervalScheduler {
	return &IntervalScheduler{
		interval: interval,
		log:      log.With("component", "scheduler"),
		tasks:    make(map[string]context.CancelFunc),
	}
}

// Register запускает run каждые interval до Unregister или отмены ctx
func (s *IntervalScheduler) Register(ctx context.Context, tag string, run func(context.Context)) error {
	if s.interval <= 0 {
		return errors.New("interval must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[tag]; ok {
		return ErrAlreadyRegistered
	}

	taskCtx, cancel := context.WithCancel(ctx)
	s.tasks[tag] = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-taskCtx.Done():
				return
			case <-ticker.C:
				run(taskCtx)
			}
		}
	}()

	s.log.Info("Фоновая задача зарегистрирована", "tag", tag, "interval", s.interval)
	return nil
}

// Unregister останавливает задачу. Неизвестный тег игнорируется.
func (s *IntervalScheduler) Unregister(tag string) {
	s.mu.Lock()
	cancel, ok := s.tasks[tag]
	delete(s.tasks, tag)
	s.mu.Unlock()

	if ok {
		cancel()
		s.log.Info("Фоновая задача снята", "tag", tag)
	}
}

// Wait дожидается завершения всех задач
func (s *IntervalScheduler) Wait() {
	s.wg.Wait()
}
