// cmd/client/cmd/root.go
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"faithkeeper/internal/app/client"
	"faithkeeper/internal/app/client/config"
	"faithkeeper/internal/utils/logger"
)

var (
	cfg        *config.Config
	log        *slog.Logger
	app        *client.App
	debug      bool
	jsonOutput bool
	serverURL  string
	dataPath   string
)

var rootCmd = &cobra.Command{
	Use:   "faithkeeper",
	Short: "Faithkeeper - офлайн-клиент дневника, молитв и ежедневных отметок",
	Long: `Faithkeeper хранит записи дневника, молитвенные просьбы и ежедневные
отметки на устройстве и отправляет их на сервер, когда появляется сеть.

Запись никогда не ждет сети: все изменения сначала сохраняются локально.
Команда "sync" выполняет проход синхронизации, "daemon" держит клиент
запущенным и синхронизирует при восстановлении соединения.

Сервер по умолчанию ждет на http://localhost:8080 без TLS. Если он стоит
за HTTPS-прокси, задайте ENABLE_TLS=true и SERVER_ADDRESS.`,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: closeApp,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	// Переопределяем настройки из флагов командной строки
	if serverURL != "" {
		cfg.ServerAddress = serverURL
	}
	if dataPath != "" {
		cfg.DataPath = dataPath
	}
	if debug {
		cfg.LogLevel = "debug"
	}

	opts := []logger.Option{logger.WithWriter(os.Stderr), logger.WithLevel(cfg.LogLevel)}
	if cfg.LogFile != "" {
		opts = append(opts, logger.WithFile(cfg.LogFile))
	}
	log = logger.New(cfg.Env, opts...)

	app, err = client.New(cfg, log)
	if err != nil {
		return fmt.Errorf("ошибка инициализации приложения: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Без хранилища команды чтения и записи вернут ошибку сами,
	// status и daemon продолжают работать
	if err := app.InitStorage(ctx); err != nil {
		log.Warn("Локальное хранилище недоступно", "error", err)
	}

	cmd.SetContext(client.WithApp(ctx, app))
	return nil
}

func closeApp(_ *cobra.Command, _ []string) error {
	if app == nil {
		return nil
	}
	return app.Close()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "включить отладочный режим")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "вывод в формате JSON")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "адрес сервера Faithkeeper")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "путь к файлу локального хранилища")

	// Команды добавляются в init.go
}
