// cmd/client/cmd/daemon.go
package cmd

import (
	"github.com/spf13/cobra"

	"faithkeeper/internal/app/client"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Фоновая синхронизация",
	Long: `Держит клиент запущенным: проверяет сеть, синхронизирует при
восстановлении соединения и по таймеру, чистит устаревший кеш.
Завершается по Ctrl+C или SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := client.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		return app.Run(cmd.Context())
	},
}
