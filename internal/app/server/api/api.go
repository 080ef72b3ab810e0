// GET  /api/v1/health                 # Проверка доступности (зонд клиента)
// POST /api/v1/journal-entries        # Принять запись дневника
// POST /api/v1/prayer-requests        # Принять молитвенную просьбу
// POST /api/v1/checkins               # Принять ежедневную отметку
// POST /api/v1/actions/{type}         # Принять действие исходящей очереди
// GET  /api/v1/devotionals/{date}     # Материал дня
// PUT  /api/v1/devotionals/{date}     # Опубликовать материал дня

package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"

	devotionalAPI "faithkeeper/internal/app/server/api/http/devotional"
	healthAPI "faithkeeper/internal/app/server/api/http/health"
	"faithkeeper/internal/app/server/api/http/middleware"
	"faithkeeper/internal/app/server/api/http/middleware/logger"
	submissionAPI "faithkeeper/internal/app/server/api/http/submission"
	"faithkeeper/internal/domain/devotional"
	"faithkeeper/internal/domain/submission"
	"faithkeeper/internal/infrastructure/storage/postgres"
)

type Handlers struct {
	Health     *healthAPI.Handler
	Submission *submissionAPI.Handler
	Devotional *devotionalAPI.Handler
}

// New создает *chi.Mux со всеми операциями через huma.Register
func New(storage *postgres.Storage, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("Faithkeeper API", "1.0.0")
	API := humachi.New(mux, config)

	h := handlers(storage, log)
	h.Health.SetupRoutes(API)
	h.Submission.SetupRoutes(API)
	h.Devotional.SetupRoutes(API)

	return mux
}

func handlers(storage *postgres.Storage, log *slog.Logger) *Handlers {
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	healthHandler := healthAPI.NewHandler(storage, log, middlewares.Add(loggerMW.Middleware()).GetAllAndClear())

	submissionRepo := postgres.NewSubmissionRepository(storage.Pool(), log)
	submissionService := submission.NewService(submissionRepo, log)
	submissionHandler := submissionAPI.NewHandler(submissionService, log, middlewares.Add(loggerMW.Middleware()).GetAllAndClear())

	devotionalRepo := postgres.NewDevotionalRepository(storage.Pool(), log)
	devotionalService := devotional.NewService(devotionalRepo, log)
	devotionalHandler := devotionalAPI.NewHandler(devotionalService, log, middlewares.Add(loggerMW.Middleware()).GetAllAndClear())

	return &Handlers{
		Health:     healthHandler,
		Submission: submissionHandler,
		Devotional: devotionalHandler,
	}
}
