package content

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"faithkeeper/cmd/client/cmd/ui"
	"faithkeeper/internal/app/client"
	"faithkeeper/internal/app/client/localstore"
)

var date string

// DevotionalCmd материал дня с откатом на сохраненную копию
var DevotionalCmd = &cobra.Command{
	Use:   "devotional",
	Short: "Материал дня",
	Long: `Загружает материал дня с сервера и сохраняет его на устройстве.
Без сети показывает последнюю сохраненную копию.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := client.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		out := ui.New(cmd)

		day := date
		if day == "" {
			day = time.Now().Format(localstore.DateLayout)
		}

		// результат проверки уже отражен в индикаторе сети
		_ = app.CheckConnection(cmd.Context())

		res, err := app.Devotional(cmd.Context(), day)
		switch {
		case errors.Is(err, client.ErrOfflineNoData):
			out.Warn("Нет сети и нет сохраненного материала за %s", day)
			return nil
		case err != nil:
			return err
		}

		if out.JSON() {
			return out.Print(res)
		}

		d := res.Data
		out.Title("%s", d.Title)
		if d.Scripture != "" {
			out.Faint("%s", d.Scripture)
		}
		out.Line("")
		out.Line("%s", d.Body)
		out.Line("")
		if res.Source == client.SourceCache {
			note := fmt.Sprintf("сохранено %s", res.CachedAt.Local().Format("2006-01-02 15:04"))
			if res.Stale {
				out.Warn("Офлайн-копия устарела, %s", note)
			} else {
				out.Faint("Офлайн-копия, %s", note)
			}
		}
		return nil
	},
}

func init() {
	DevotionalCmd.Flags().StringVarP(&date, "date", "d", "", "дата ГГГГ-ММ-ДД, по умолчанию сегодня")
}
