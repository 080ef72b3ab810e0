package client

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	gosync "sync"
	"syscall"
	"time"

	"golang.org/x/exp/slog"

	"faithkeeper/internal/app/client/config"
	"faithkeeper/internal/app/client/connectivity"
	"faithkeeper/internal/app/client/localstore"
	"faithkeeper/internal/app/client/records"
)

type App struct {
	config    *config.Config
	log       *slog.Logger
	store     *localstore.Store
	records   *records.Helpers
	remote    *httpClient
	monitor   *connectivity.Monitor
	scheduler *IntervalScheduler
	sync      *SyncService
	wg        gosync.WaitGroup
	mu        gosync.Mutex
	cancel    context.CancelFunc
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	if err := os.MkdirAll(cfg.ConfigDir, 0700); err != nil {
		return nil, fmt.Errorf("ошибка создания директории конфигурации: %w", err)
	}

	var opts []localstore.Option
	if cfg.StorageDisabled {
		opts = append(opts, localstore.WithDisabled())
	}
	store := localstore.New(cfg.DataPath, log, opts...)
	helpers := records.New(store, log)

	remote := NewHTTPClient(cfg, log)

	// сеть считается недоступной, пока проверка не скажет обратное
	monitor := connectivity.NewMonitor(false, log)
	scheduler := NewIntervalScheduler(cfg.SyncInterval, log)

	syncService := NewSyncService(helpers, remote, monitor, scheduler, SyncConfig{
		DeliveryTimeout: cfg.DeliveryTimeout,
		StatsPath:       filepath.Join(cfg.ConfigDir, "sync_stats.json"),
	}, log)

	return &App{
		config:    cfg,
		log:       log,
		store:     store,
		records:   helpers,
		remote:    remote,
		monitor:   monitor,
		scheduler: scheduler,
		sync:      syncService,
	}, nil
}

// Records типизированные операции над локальными данными
func (a *App) Records() *records.Helpers {
	return a.records
}

// Sync сервис синхронизации
func (a *App) Sync() *SyncService {
	return a.sync
}

// Monitor состояние сети
func (a *App) Monitor() *connectivity.Monitor {
	return a.monitor
}

// Config конфигурация клиента
func (a *App) Config() *config.Config {
	return a.config
}

// InitStorage открывает локальное хранилище
func (a *App) InitStorage(ctx context.Context) error {
	if err := a.store.Initialize(ctx); err != nil {
		return fmt.Errorf("ошибка инициализации хранилища: %w", err)
	}
	return nil
}

// CheckConnection проверяет соединение с сервером и обновляет состояние сети
func (a *App) CheckConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := a.remote.HealthCheck(ctx)
	a.monitor.SetOnline(err == nil)
	return err
}

// Offline параметры чтения с откатом на кеш для этого приложения
func (a *App) Offline() OfflineDeps {
	return OfflineDeps{
		Records: a.records,
		Online:  a.monitor.Online,
		Log:     a.log,
	}
}

// Run запускает проверку сети, синхронизацию и очистку кеша.
// Блокируется до отмены ctx или сигнала завершения.
func (a *App) Run(ctx context.Context) error {
	if err := a.InitStorage(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	a.mu.Lock()
	a.cancel = cancel
	a.mu.Unlock()
	defer cancel()

	go a.handleSignals(ctx)

	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		a.monitor.Watch(ctx, a.remote, a.config.ProbeInterval)
	}()
	go func() {
		defer a.wg.Done()
		a.sweepCache(ctx)
	}()

	a.sync.Start(ctx)

	a.log.Info("Клиент запущен",
		"server", a.config.ServerAddress,
		"env", a.config.Env,
		"data_path", a.config.DataPath,
	)

	<-ctx.Done()

	a.sync.Stop()
	a.scheduler.Wait()
	a.wg.Wait()
	return nil
}

func (a *App) sweepCache(ctx context.Context) {
	if a.config.CacheMaxAge <= 0 {
		return
	}

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		if _, err := a.records.SweepCachedContent(ctx, a.config.CacheMaxAge); err != nil && ctx.Err() == nil {
			a.log.Warn("Ошибка очистки кеша", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (a *App) handleSignals(ctx context.Context) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		a.log.Info("Получен сигнал завершения", "signal", sig.String())
		a.Shutdown()
	case <-ctx.Done():
	}
}

// Shutdown останавливает Run
func (a *App) Shutdown() {
	a.mu.Lock()
	cancel := a.cancel
	a.mu.Unlock()

	if cancel != nil {
		a.log.Info("Завершение работы клиента...")
		cancel()
	}
}

// Close закрывает локальное хранилище
func (a *App) Close() error {
	return a.store.Close()
}

type appKey struct{}

// WithApp кладет приложение в контекст команды
func WithApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appKey{}, app)
}

// FromContext достает приложение из контекста команды
func FromContext(ctx context.Context) (*App, error) {
	app, ok := ctx.Value(appKey{}).(*App)
	if !ok || app == nil {
		return nil, fmt.Errorf("приложение не инициализировано")
	}
	return app, nil
}
