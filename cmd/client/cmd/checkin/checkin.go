package checkin

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"faithkeeper/cmd/client/cmd/ui"
	"faithkeeper/internal/app/client"
	"faithkeeper/internal/app/client/localstore"
)

// CheckinCmd ежедневные отметки
var CheckinCmd = &cobra.Command{
	Use:   "checkin",
	Short: "Ежедневные отметки",
	Long:  `Не более одной отметки на календарную дату: повторная отметка за ту же дату заменяет прежнюю.`,
}

var (
	date      string
	mood      int
	practices []string
	notes     string
)

var SetCmd = &cobra.Command{
	Use:   "set",
	Short: "Отметить день",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := client.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		out := ui.New(cmd)

		day, err := resolveDate(date)
		if err != nil {
			return err
		}
		if mood < 0 || mood > 5 {
			return fmt.Errorf("настроение должно быть от 1 до 5")
		}

		saved, err := app.Records().SaveCheckin(cmd.Context(), localstore.DailyCheckin{
			Date:      day,
			Mood:      mood,
			Practices: practices,
			Notes:     notes,
		})
		if err != nil {
			return fmt.Errorf("ошибка сохранения отметки: %w", err)
		}

		if out.JSON() {
			return out.Print(saved)
		}
		out.Success("Отметка за %s сохранена", saved.Date)
		pending, _ := app.Sync().RefreshPendingCount(cmd.Context())
		out.Status(app.Monitor().Online(), pending)
		return nil
	},
}

var ShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Показать отметку за день",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := client.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		out := ui.New(cmd)

		day, err := resolveDate(date)
		if err != nil {
			return err
		}

		c, ok, err := app.Records().CheckinForDate(cmd.Context(), day)
		if err != nil {
			return err
		}
		if !ok {
			out.Line("Отметки за %s нет", day)
			return nil
		}

		if out.JSON() {
			return out.Print(c)
		}
		out.Title("Отметка за %s", c.Date)
		if c.Mood > 0 {
			out.Line("Настроение: %d/5", c.Mood)
		}
		for _, p := range c.Practices {
			out.Line("  • %s", p)
		}
		if c.Notes != "" {
			out.Line("%s", c.Notes)
		}
		out.Faint("Синхронизирована: %s", ui.SyncMark(c.Synced))
		return nil
	},
}

// resolveDate пустая дата - сегодня по местному времени
func resolveDate(s string) (string, error) {
	if s == "" {
		return time.Now().Format(localstore.DateLayout), nil
	}
	if _, err := time.Parse(localstore.DateLayout, s); err != nil {
		return "", fmt.Errorf("дата должна быть в формате ГГГГ-ММ-ДД: %q", s)
	}
	return s, nil
}

func init() {
	for _, c := range []*cobra.Command{SetCmd, ShowCmd} {
		c.Flags().StringVarP(&date, "date", "d", "", "дата ГГГГ-ММ-ДД, по умолчанию сегодня")
	}
	SetCmd.Flags().IntVarP(&mood, "mood", "m", 0, "настроение от 1 до 5")
	SetCmd.Flags().StringSliceVarP(&practices, "practice", "p", nil, "практики дня: prayer, reading, ...")
	SetCmd.Flags().StringVarP(&notes, "notes", "n", "", "заметка")
}
