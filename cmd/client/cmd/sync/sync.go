package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"faithkeeper/cmd/client/cmd/ui"
	"faithkeeper/internal/app/client"
)

const maxShownErrors = 3

var resetStats bool

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Синхронизация с сервером",
	Long: `Отправляет на сервер все неотправленные записи: дневник, молитвенные
просьбы, ежедневные отметки и очередь действий, в этом порядке.

Записи, которые не удалось доставить, остаются в очереди до следующего прохода.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := client.FromContext(cmd.Context())
		if err != nil {
			return err
		}

		if resetStats {
			app.Sync().ResetStats()
			ui.New(cmd).Success("Статистика синхронизации сброшена")
			return nil
		}

		return runSync(cmd.Context(), app, ui.New(cmd))
	},
}

var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Состояние сети и очереди",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := client.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		return showSyncStatus(cmd.Context(), app, ui.New(cmd))
	},
}

func runSync(ctx context.Context, app *client.App, out *ui.Printer) error {
	if !out.JSON() {
		out.Title("=== Синхронизация данных ===")
	}

	// ошибка проверки видна как офлайн, подробности только в debug-логе
	_ = app.CheckConnection(ctx)

	result, err := app.Sync().SyncAll(ctx)
	if err != nil {
		return fmt.Errorf("синхронизация прервана: %w", err)
	}

	if out.JSON() {
		return out.Print(result)
	}

	if result.Skipped {
		switch result.SkipReason {
		case client.SkipOffline:
			out.Warn("Нет соединения с сервером, синхронизация отложена")
		case client.SkipInProgress:
			out.Warn("Синхронизация уже выполняется")
		}
		out.Status(app.Monitor().Online(), result.Pending)
		return nil
	}

	if result.Success() {
		out.Success("Синхронизация завершена за %v", result.Duration.Round(time.Millisecond))
	} else {
		out.Warn("Синхронизация завершена с ошибками за %v", result.Duration.Round(time.Millisecond))
	}
	out.Line("Отправлено: %d", result.Delivered)

	if result.Failed > 0 {
		out.Line("Не отправлено: %d", result.Failed)
		for i, e := range result.Errors {
			if i == maxShownErrors {
				out.Faint("  ... и еще %d", len(result.Errors)-maxShownErrors)
				break
			}
			out.Faint("  • %s/%s", e.Collection, e.RecordID)
		}
	}

	out.Status(app.Monitor().Online(), result.Pending)
	return nil
}

func showSyncStatus(ctx context.Context, app *client.App, out *ui.Printer) error {
	_ = app.CheckConnection(ctx)

	pending, err := app.Sync().RefreshPendingCount(ctx)
	if err != nil {
		return err
	}
	stats := app.Sync().Stats()

	if out.JSON() {
		return out.Print(struct {
			Online  bool             `json:"online"`
			Pending int              `json:"pending"`
			Stats   client.SyncStats `json:"stats"`
		}{app.Monitor().Online(), pending, stats})
	}

	out.Status(app.Monitor().Online(), pending)
	out.Line("")
	out.Title("Статистика:")
	out.Line("  Всего синхронизаций: %d", stats.TotalSyncs)
	out.Line("  Отправлено записей: %d", stats.TotalDelivered)
	out.Line("  Ошибок доставки: %d", stats.TotalErrors)
	if stats.AvgSyncDuration > 0 {
		out.Line("  Средняя длительность: %.2f сек", stats.AvgSyncDuration)
	}
	out.Line("  Последняя синхронизация: %s", formatTime(stats.LastSync))
	out.Line("  Последняя успешная: %s", formatTime(stats.LastSuccessful))
	if !stats.LastFailed.IsZero() {
		out.Line("  Последняя с ошибками: %s", formatTime(stats.LastFailed))
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "никогда"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func init() {
	SyncCmd.Flags().BoolVar(&resetStats, "reset-stats", false, "сбросить статистику синхронизации")
}
