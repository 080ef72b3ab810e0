package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	gosync "sync"
	"time"

	"golang.org/x/exp/slog"

	"faithkeeper/internal/app/client/connectivity"
	"faithkeeper/internal/app/client/localstore"
	"faithkeeper/internal/app/client/records"
)

const backgroundTag = "faithkeeper-sync"

// Причины пропуска прохода
const (
	SkipOffline    = "offline"
	SkipInProgress = "in_progress"
)

// SyncService доставляет локальные записи на сервер
type SyncService struct {
	records    *records.Helpers
	remote     Deliverer
	monitor    *connectivity.Monitor
	background BackgroundRegistrar
	log        *slog.Logger
	config     SyncConfig

	mu           gosync.RWMutex
	isSyncing    bool
	pendingCount int
	lastSync     time.Time
	stats        SyncStats

	runMu  gosync.Mutex
	cancel context.CancelFunc
	wg     gosync.WaitGroup
}

// SyncConfig конфигурация синхронизации
type SyncConfig struct {
	// DeliveryTimeout ограничивает одну попытку доставки
	DeliveryTimeout time.Duration
	// StatsPath файл статистики; пустой путь отключает сохранение
	StatsPath string
}

// SyncStats накопленная статистика синхронизации
type SyncStats struct {
	TotalSyncs      int       `json:"total_syncs"`
	LastSync        time.Time `json:"last_sync"`
	LastSuccessful  time.Time `json:"last_successful"`
	LastFailed      time.Time `json:"last_failed"`
	TotalDelivered  int       `json:"total_delivered"`
	TotalErrors     int       `json:"total_errors"`
	AvgSyncDuration float64   `json:"avg_sync_duration"`
}

// SyncError ошибка доставки одной записи
type SyncError struct {
	RecordID   string    `json:"record_id"`
	Collection string    `json:"collection"`
	Error      string    `json:"error"`
	Timestamp  time.Time `json:"timestamp"`
}

// SyncResult результат прохода синхронизации
type SyncResult struct {
	Skipped    bool          `json:"skipped"`
	SkipReason string        `json:"skip_reason,omitempty"`
	Delivered  int           `json:"delivered"`
	Failed     int           `json:"failed"`
	Pending    int           `json:"pending"`
	Errors     []SyncError   `json:"errors,omitempty"`
	StartTime  time.Time     `json:"start_time"`
	EndTime    time.Time     `json:"end_time"`
	Duration   time.Duration `json:"duration"`
}

// Success проход завершен без ошибок доставки
func (r *SyncResult) Success() bool {
	return !r.Skipped && r.Failed == 0
}

func NewSyncService(
	helpers *records.Helpers,
	remote Deliverer,
	monitor *connectivity.Monitor,
	background BackgroundRegistrar,
	cfg SyncConfig,
	log *slog.Logger,
) *SyncService {
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = 15 * time.Second
	}

	s := &SyncService{
		records:    helpers,
		remote:     remote,
		monitor:    monitor,
		background: background,
		log:        log.With("component", "sync"),
		config:     cfg,
	}

	if stats, err := loadStats(cfg.StatsPath); err != nil {
		s.log.Warn("Не удалось загрузить статистику синхронизации", "error", err)
	} else {
		s.stats = stats
		s.lastSync = stats.LastSync
	}

	return s
}

// SyncAll выполняет проход синхронизации. Пропускается, если сети нет или
// проход уже идет. Ошибки доставки отдельных записей не прерывают проход.
func (s *SyncService) SyncAll(ctx context.Context) (*SyncResult, error) {
	s.mu.Lock()
	if !s.monitor.Online() {
		pending := s.pendingCount
		s.mu.Unlock()
		return &SyncResult{Skipped: true, SkipReason: SkipOffline, Pending: pending}, nil
	}
	if s.isSyncing {
		pending := s.pendingCount
		s.mu.Unlock()
		return &SyncResult{Skipped: true, SkipReason: SkipInProgress, Pending: pending}, nil
	}
	s.isSyncing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSyncing = false
		s.mu.Unlock()
	}()

	result := &SyncResult{StartTime: time.Now()}
	s.log.Info("Начало синхронизации", "start_time", result.StartTime)

	// порядок коллекций фиксирован
	passes := []func(context.Context, *SyncResult) error{
		s.syncJournal,
		s.syncPrayers,
		s.syncCheckins,
		s.syncActions,
	}
	for _, pass := range passes {
		if err := pass(ctx, result); err != nil {
			return s.finish(result), err
		}
	}

	result = s.finish(result)

	s.mu.Lock()
	s.lastSync = result.EndTime
	s.updateStats(result)
	stats := s.stats
	s.mu.Unlock()

	s.saveStats(stats)

	if result.Success() {
		s.log.Info("Синхронизация успешно завершена",
			"duration", result.Duration,
			"delivered", result.Delivered,
			"pending", result.Pending,
		)
	} else {
		s.log.Warn("Синхронизация завершена с ошибками",
			"duration", result.Duration,
			"delivered", result.Delivered,
			"errors", result.Failed,
			"pending", result.Pending,
		)
	}

	return result, nil
}

// finish пересчитывает очередь и закрывает результат
func (s *SyncService) finish(result *SyncResult) *SyncResult {
	// счетчик пересчитывается даже после отмены прохода
	pending, err := s.RefreshPendingCount(context.Background())
	if err != nil {
		s.log.Error("Ошибка пересчета очереди", "error", err)
	}
	result.Pending = pending
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	return result
}

func (s *SyncService) syncJournal(ctx context.Context, result *SyncResult) error {
	entries, err := s.records.UnsyncedJournalEntries(ctx)
	if err != nil {
		s.recordFailure(result, localstore.JournalEntries, "", err)
		return ctx.Err()
	}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.deliver(ctx, func(ctx context.Context) error {
			return s.remote.SubmitJournalEntry(ctx, e)
		})
		if err == nil {
			_, err = s.records.ConfirmJournalEntry(ctx, e)
		}
		s.settle(result, localstore.JournalEntries, e.ID, err)
	}
	return nil
}

func (s *SyncService) syncPrayers(ctx context.Context, result *SyncResult) error {
	prayers, err := s.records.UnsyncedPrayerRequests(ctx)
	if err != nil {
		s.recordFailure(result, localstore.PrayerRequests, "", err)
		return ctx.Err()
	}
	for _, p := range prayers {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.deliver(ctx, func(ctx context.Context) error {
			return s.remote.SubmitPrayerRequest(ctx, p)
		})
		if err == nil {
			_, err = s.records.ConfirmPrayerRequest(ctx, p)
		}
		s.settle(result, localstore.PrayerRequests, p.ID, err)
	}
	return nil
}

func (s *SyncService) syncCheckins(ctx context.Context, result *SyncResult) error {
	checkins, err := s.records.UnsyncedCheckins(ctx)
	if err != nil {
		s.recordFailure(result, localstore.DailyCheckins, "", err)
		return ctx.Err()
	}
	for _, c := range checkins {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.deliver(ctx, func(ctx context.Context) error {
			return s.remote.SubmitCheckin(ctx, c)
		})
		if err == nil {
			_, err = s.records.ConfirmCheckin(ctx, c)
		}
		s.settle(result, localstore.DailyCheckins, c.ID, err)
	}
	return nil
}

func (s *SyncService) syncActions(ctx context.Context, result *SyncResult) error {
	actions, err := s.records.PendingActions(ctx)
	if err != nil {
		s.recordFailure(result, localstore.PendingActions, "", err)
		return ctx.Err()
	}
	for _, a := range actions {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.deliver(ctx, func(ctx context.Context) error {
			return s.remote.DispatchAction(ctx, a)
		})
		if err == nil {
			err = s.records.RemovePendingAction(ctx, a.ID)
		}
		s.settle(result, localstore.PendingActions, a.ID, err)
	}
	return nil
}

// deliver одна попытка доставки, ограниченная DeliveryTimeout
func (s *SyncService) deliver(ctx context.Context, call func(context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, s.config.DeliveryTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- call(callCtx)
	}()

	select {
	case err := <-done:
		return err
	case <-callCtx.Done():
		return fmt.Errorf("%w: %w", ErrDelivery, callCtx.Err())
	}
}

func (s *SyncService) settle(result *SyncResult, collection localstore.Collection, id string, err error) {
	if err != nil {
		s.recordFailure(result, collection, id, err)
		return
	}
	result.Delivered++
}

func (s *SyncService) recordFailure(result *SyncResult, collection localstore.Collection, id string, err error) {
	result.Failed++
	result.Errors = append(result.Errors, SyncError{
		RecordID:   id,
		Collection: string(collection),
		Error:      err.Error(),
		Timestamp:  time.Now(),
	})
	s.log.Warn("Запись не доставлена",
		"collection", collection,
		"id", id,
		"error", err,
	)
}

// updateStats вызывается под s.mu
func (s *SyncService) updateStats(result *SyncResult) {
	s.stats.TotalSyncs++
	s.stats.LastSync = result.EndTime

	if result.Success() {
		s.stats.LastSuccessful = result.EndTime
	} else {
		s.stats.LastFailed = result.EndTime
	}

	s.stats.TotalDelivered += result.Delivered
	s.stats.TotalErrors += result.Failed

	if s.stats.AvgSyncDuration == 0 {
		s.stats.AvgSyncDuration = result.Duration.Seconds()
	} else {
		s.stats.AvgSyncDuration = (s.stats.AvgSyncDuration*float64(s.stats.TotalSyncs-1) +
			result.Duration.Seconds()) / float64(s.stats.TotalSyncs)
	}
}

// RefreshPendingCount пересчитывает размер очереди по хранилищу
func (s *SyncService) RefreshPendingCount(ctx context.Context) (int, error) {
	n, err := s.records.PendingCount(ctx)
	if err != nil {
		return s.PendingCount(), err
	}
	s.mu.Lock()
	s.pendingCount = n
	s.mu.Unlock()
	return n, nil
}

// Start подписывается на переходы сети и регистрирует фоновую доставку.
// Проход запускается при каждом переходе offline -> online и один раз
// при старте, если сеть уже есть. Работает до отмены ctx или Stop.
func (s *SyncService) Start(ctx context.Context) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if s.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	if _, err := s.RefreshPendingCount(runCtx); err != nil {
		s.log.Warn("Не удалось подсчитать очередь", "error", err)
	}

	if s.background != nil {
		err := s.background.Register(runCtx, backgroundTag, func(ctx context.Context) {
			if _, err := s.SyncAll(ctx); err != nil {
				s.log.Error("Ошибка фоновой синхронизации", "error", err)
			}
		})
		if err != nil {
			s.log.Warn("Фоновая синхронизация недоступна", "tag", backgroundTag, "error", err)
		}
	}

	sub := s.monitor.Subscribe()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer sub.Close()
		s.watch(runCtx, sub)
	}()

	s.log.Info("Синхронизация запущена", "online", s.monitor.Online())
}

func (s *SyncService) watch(ctx context.Context, sub *connectivity.Subscription) {
	if s.monitor.Online() {
		s.runPass(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Синхронизация остановлена")
			return
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			if ev.Online {
				s.runPass(ctx)
			}
		}
	}
}

func (s *SyncService) runPass(ctx context.Context) {
	if _, err := s.SyncAll(ctx); err != nil && ctx.Err() == nil {
		s.log.Error("Ошибка синхронизации", "error", err)
	}
}

// Stop отменяет подписку и фоновую регистрацию, дожидается текущего прохода
func (s *SyncService) Stop() {
	s.runMu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.runMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	if s.background != nil {
		s.background.Unregister(backgroundTag)
	}
	s.wg.Wait()
}

// IsOnline текущее состояние сети
func (s *SyncService) IsOnline() bool {
	return s.monitor.Online()
}

// IsSyncing проверяет, выполняется ли синхронизация
func (s *SyncService) IsSyncing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isSyncing
}

// PendingCount размер очереди на момент последнего пересчета
func (s *SyncService) PendingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pendingCount
}

// LastSyncTime время завершения последнего прохода
func (s *SyncService) LastSyncTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSync
}

// Stats возвращает копию статистики
func (s *SyncService) Stats() SyncStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// ResetStats обнуляет накопленную статистику
func (s *SyncService) ResetStats() {
	s.mu.Lock()
	s.stats = SyncStats{}
	s.mu.Unlock()

	s.saveStats(SyncStats{})
	s.log.Info("Статистика синхронизации сброшена")
}

func loadStats(path string) (SyncStats, error) {
	var stats SyncStats
	if path == "" {
		return stats, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return stats, nil
	}
	if err != nil {
		return stats, fmt.Errorf("ошибка чтения статистики: %w", err)
	}

	if err := json.Unmarshal(data, &stats); err != nil {
		return SyncStats{}, fmt.Errorf("ошибка парсинга статистики: %w", err)
	}
	return stats, nil
}

func (s *SyncService) saveStats(stats SyncStats) {
	if s.config.StatsPath == "" {
		return
	}

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		s.log.Error("Ошибка сериализации статистики", "error", err)
		return
	}

	if err := os.WriteFile(s.config.StatsPath, data, 0600); err != nil {
		s.log.Error("Ошибка записи статистики", "error", err)
	}
}
