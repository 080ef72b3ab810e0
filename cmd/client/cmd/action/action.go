package action

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"faithkeeper/cmd/client/cmd/ui"
	"faithkeeper/internal/app/client"
	"faithkeeper/internal/app/client/records"
)

// ActionCmd исходящая очередь одноразовых действий
var ActionCmd = &cobra.Command{
	Use:   "action",
	Short: "Очередь действий",
	Long: `Одноразовые действия (например, "помолился за просьбу") ставятся в очередь
и отправляются при синхронизации. Доставленное действие удаляется из очереди.`,
}

var payload string

var QueueCmd = &cobra.Command{
	Use:   "queue [тип]",
	Short: "Поставить действие в очередь",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := client.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		out := ui.New(cmd)

		var body any
		if payload != "" {
			if !json.Valid([]byte(payload)) {
				return fmt.Errorf("--payload должен быть корректным JSON")
			}
			body = json.RawMessage(payload)
		}

		a, err := app.Records().QueueAction(cmd.Context(), args[0], body)
		if errors.Is(err, records.ErrInvalidActionType) {
			return fmt.Errorf("недопустимый тип %q: нужны строчные латинские буквы, цифры или символы _ . - (первой идёт буква, не длиннее 64)", args[0])
		}
		if err != nil {
			return err
		}

		if out.JSON() {
			return out.Print(a)
		}
		out.Success("Действие %s поставлено в очередь: %s", a.ActionType, a.ID)
		pending, _ := app.Sync().RefreshPendingCount(cmd.Context())
		out.Status(app.Monitor().Online(), pending)
		return nil
	},
}

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Недоставленные действия",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := client.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		out := ui.New(cmd)

		actions, err := app.Records().PendingActions(cmd.Context())
		if err != nil {
			return err
		}

		if out.JSON() {
			return out.Print(actions)
		}
		if len(actions) == 0 {
			out.Line("Очередь пуста")
			return nil
		}

		w := out.Table()
		fmt.Fprintf(w, "ID\tТип\tСоздано\tДанные\t\n")
		for _, a := range actions {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
				a.ID,
				a.ActionType,
				a.CreatedAt.Local().Format("2006-01-02 15:04"),
				ui.Truncate(string(a.Payload), 40),
			)
		}
		w.Flush()
		return nil
	},
}

func init() {
	QueueCmd.Flags().StringVar(&payload, "payload", "", `данные действия в JSON, например '{"prayer_id":"..."}'`)
}
