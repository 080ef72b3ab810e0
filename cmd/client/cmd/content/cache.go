package content

import (
	"time"

	"github.com/spf13/cobra"

	"faithkeeper/cmd/client/cmd/ui"
	"faithkeeper/internal/app/client"
)

// CacheCmd управление кешем прочитанного контента
var CacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Кеш контента",
	Long:  `Кеш нужен только для чтения офлайн. Неотправленные записи он не содержит.`,
}

var maxAge time.Duration

var SweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Удалить устаревшие записи кеша",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := client.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		out := ui.New(cmd)

		age := maxAge
		if age == 0 {
			age = app.Config().CacheMaxAge
		}

		removed, err := app.Records().SweepCachedContent(cmd.Context(), age)
		if err != nil {
			return err
		}
		out.Success("Удалено записей кеша: %d", removed)
		return nil
	},
}

var ClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Очистить кеш полностью",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := client.FromContext(cmd.Context())
		if err != nil {
			return err
		}

		if err := app.Records().ClearCachedContent(cmd.Context()); err != nil {
			return err
		}
		ui.New(cmd).Success("Кеш очищен")
		return nil
	},
}

func init() {
	SweepCmd.Flags().DurationVar(&maxAge, "max-age", 0, "возраст записей для удаления, по умолчанию CACHE_MAX_AGE_HOURS")
}
