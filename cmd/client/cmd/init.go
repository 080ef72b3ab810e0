// cmd/client/cmd/init.go
package cmd

import (
	"github.com/spf13/cobra"

	"faithkeeper/cmd/client/cmd/action"
	"faithkeeper/cmd/client/cmd/checkin"
	"faithkeeper/cmd/client/cmd/content"
	"faithkeeper/cmd/client/cmd/journal"
	"faithkeeper/cmd/client/cmd/prayer"
	"faithkeeper/cmd/client/cmd/sync"
	"faithkeeper/cmd/client/cmd/ui"
	"faithkeeper/internal/app/client"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Подготовить клиент к работе",
	Long: `Команда init выполняет первоначальную настройку клиента:
	1. Создает каталог конфигурации и файл локального хранилища
	2. Проверяет соединение с сервером

Клиент работает и без сервера: записи копятся локально и уйдут
при первой успешной синхронизации.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := client.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		out := ui.New(cmd)

		out.Title("=== Инициализация Faithkeeper ===")

		if err := app.InitStorage(cmd.Context()); err != nil {
			return err
		}
		out.Success("Локальное хранилище: %s", app.Config().DataPath)

		if err := app.CheckConnection(cmd.Context()); err != nil {
			log.Debug("Проверка соединения не прошла", "error", err)
			out.Warn("Сервер %s недоступен, работа продолжится офлайн", app.Config().ServerAddress)
		} else {
			out.Success("Соединение с сервером установлено")
		}

		pending, err := app.Sync().RefreshPendingCount(cmd.Context())
		if err != nil {
			return err
		}
		out.Status(app.Monitor().Online(), pending)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(daemonCmd)

	rootCmd.AddCommand(journal.JournalCmd)
	journal.JournalCmd.AddCommand(journal.AddCmd)
	journal.JournalCmd.AddCommand(journal.ListCmd)

	rootCmd.AddCommand(prayer.PrayerCmd)
	prayer.PrayerCmd.AddCommand(prayer.AddCmd)
	prayer.PrayerCmd.AddCommand(prayer.ListCmd)
	prayer.PrayerCmd.AddCommand(prayer.StatusCmd)

	rootCmd.AddCommand(checkin.CheckinCmd)
	checkin.CheckinCmd.AddCommand(checkin.SetCmd)
	checkin.CheckinCmd.AddCommand(checkin.ShowCmd)

	rootCmd.AddCommand(action.ActionCmd)
	action.ActionCmd.AddCommand(action.QueueCmd)
	action.ActionCmd.AddCommand(action.ListCmd)

	rootCmd.AddCommand(content.DevotionalCmd)
	rootCmd.AddCommand(content.CacheCmd)
	content.CacheCmd.AddCommand(content.SweepCmd)
	content.CacheCmd.AddCommand(content.ClearCmd)

	rootCmd.AddCommand(sync.SyncCmd)
	sync.SyncCmd.AddCommand(sync.StatusCmd)
}
