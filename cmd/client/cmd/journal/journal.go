package journal

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"faithkeeper/cmd/client/cmd/ui"
	"faithkeeper/internal/app/client"
	"faithkeeper/internal/app/client/localstore"
)

// JournalCmd родительская команда для записей дневника
var JournalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Дневник",
	Long:  `Записи дневника сохраняются локально и отправляются на сервер при синхронизации.`,
}

var (
	title string
	tags  []string
	id    string
)

var AddCmd = &cobra.Command{
	Use:   "add [текст]",
	Short: "Добавить или изменить запись",
	Long: `Сохраняет запись дневника. С флагом --id заменяет существующую запись,
иначе создает новую.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := client.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		out := ui.New(cmd)

		entry := localstore.JournalEntry{
			ID:      id,
			Title:   title,
			Content: strings.Join(args, " "),
			Tags:    tags,
		}
		if id != "" {
			prev, ok, err := app.Records().JournalEntry(cmd.Context(), id)
			if err != nil {
				return err
			}
			if ok {
				entry.CreatedAt = prev.CreatedAt
				if title == "" {
					entry.Title = prev.Title
				}
			}
		}

		saved, err := app.Records().SaveJournalEntry(cmd.Context(), entry)
		if err != nil {
			return fmt.Errorf("ошибка сохранения записи: %w", err)
		}

		if out.JSON() {
			return out.Print(saved)
		}
		out.Success("Запись сохранена: %s", saved.ID)
		pending, _ := app.Sync().RefreshPendingCount(cmd.Context())
		out.Status(app.Monitor().Online(), pending)
		return nil
	},
}

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список записей дневника",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := client.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		out := ui.New(cmd)

		entries, err := app.Records().JournalEntries(cmd.Context())
		if err != nil {
			return fmt.Errorf("ошибка получения записей: %w", err)
		}

		if out.JSON() {
			return out.Print(entries)
		}
		if len(entries) == 0 {
			out.Line("Записи не найдены")
			return nil
		}

		w := out.Table()
		fmt.Fprintf(w, "ID\tСоздано\tЗаголовок\tСинхр.\t\n")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
				e.ID,
				e.CreatedAt.Local().Format("2006-01-02 15:04"),
				ui.Truncate(headline(e), 40),
				ui.SyncMark(e.Synced),
			)
		}
		w.Flush()
		out.Line("\nВсего записей: %d", len(entries))
		return nil
	},
}

func headline(e localstore.JournalEntry) string {
	if e.Title != "" {
		return e.Title
	}
	return e.Content
}

func init() {
	AddCmd.Flags().StringVarP(&title, "title", "t", "", "заголовок записи")
	AddCmd.Flags().StringSliceVar(&tags, "tag", nil, "метки записи")
	AddCmd.Flags().StringVar(&id, "id", "", "идентификатор изменяемой записи")
}
