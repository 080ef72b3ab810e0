package prayer

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"faithkeeper/cmd/client/cmd/ui"
	"faithkeeper/internal/app/client"
	"faithkeeper/internal/app/client/localstore"
)

// PrayerCmd родительская команда для молитвенных просьб
var PrayerCmd = &cobra.Command{
	Use:   "prayer",
	Short: "Молитвенные просьбы",
}

var (
	body       string
	private    bool
	listStatus string
)

var AddCmd = &cobra.Command{
	Use:   "add [заголовок]",
	Short: "Добавить просьбу",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := client.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		out := ui.New(cmd)

		saved, err := app.Records().SavePrayerRequest(cmd.Context(), localstore.PrayerRequest{
			Title:     strings.Join(args, " "),
			Body:      body,
			IsPrivate: private,
		})
		if err != nil {
			return fmt.Errorf("ошибка сохранения просьбы: %w", err)
		}

		if out.JSON() {
			return out.Print(saved)
		}
		out.Success("Просьба сохранена: %s", saved.ID)
		pending, _ := app.Sync().RefreshPendingCount(cmd.Context())
		out.Status(app.Monitor().Online(), pending)
		return nil
	},
}

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список просьб по статусу",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := client.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		out := ui.New(cmd)

		requests, err := app.Records().PrayerRequestsByStatus(cmd.Context(), localstore.PrayerStatus(listStatus))
		if err != nil {
			return fmt.Errorf("ошибка получения просьб: %w", err)
		}

		if out.JSON() {
			return out.Print(requests)
		}
		if len(requests) == 0 {
			out.Line("Просьбы со статусом %q не найдены", listStatus)
			return nil
		}

		w := out.Table()
		fmt.Fprintf(w, "ID\tОбновлено\tЗаголовок\tЛичная\tСинхр.\t\n")
		for _, p := range requests {
			privacy := ""
			if p.IsPrivate {
				privacy = "да"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
				p.ID,
				p.UpdatedAt.Local().Format("2006-01-02 15:04"),
				ui.Truncate(p.Title, 40),
				privacy,
				ui.SyncMark(p.Synced),
			)
		}
		w.Flush()
		return nil
	},
}

var StatusCmd = &cobra.Command{
	Use:       "status [id] [active|answered|archived]",
	Short:     "Изменить статус просьбы",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{string(localstore.PrayerActive), string(localstore.PrayerAnswered), string(localstore.PrayerArchived)},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := client.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		out := ui.New(cmd)

		saved, ok, err := app.Records().SetPrayerStatus(cmd.Context(), args[0], localstore.PrayerStatus(args[1]))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("просьба %s не найдена", args[0])
		}

		if out.JSON() {
			return out.Print(saved)
		}
		out.Success("Статус просьбы %s: %s", saved.ID, saved.Status)
		return nil
	},
}

func init() {
	AddCmd.Flags().StringVarP(&body, "body", "b", "", "текст просьбы")
	AddCmd.Flags().BoolVar(&private, "private", false, "не показывать другим")
	ListCmd.Flags().StringVar(&listStatus, "status", string(localstore.PrayerActive), "статус: active, answered, archived")
}
