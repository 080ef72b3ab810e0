// Package ui вывод команд клиента: цвет только в терминале, --json для скриптов.
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type Printer struct {
	out  io.Writer
	json bool

	green  *color.Color
	yellow *color.Color
	red    *color.Color
	bold   *color.Color
	faint  *color.Color
}

// New принтер для команды. Учитывает глобальный флаг --json.
func New(cmd *cobra.Command) *Printer {
	asJSON, _ := cmd.Flags().GetBool("json")
	return NewPrinter(cmd.OutOrStdout(), asJSON)
}

func NewPrinter(out io.Writer, asJSON bool) *Printer {
	p := &Printer{
		out:    out,
		json:   asJSON,
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed),
		bold:   color.New(color.Bold),
		faint:  color.New(color.Faint),
	}

	if !isTerminal(out) {
		for _, c := range []*color.Color{p.green, p.yellow, p.red, p.bold, p.faint} {
			c.DisableColor()
		}
	}
	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// JSON режим машиночитаемого вывода
func (p *Printer) JSON() bool {
	return p.json
}

func (p *Printer) Title(format string, args ...any) {
	p.bold.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) Line(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) Success(format string, args ...any) {
	p.green.Fprint(p.out, "✓ ")
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) Warn(format string, args ...any) {
	p.yellow.Fprint(p.out, "! ")
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) Error(format string, args ...any) {
	p.red.Fprint(p.out, "✗ ")
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) Faint(format string, args ...any) {
	p.faint.Fprintf(p.out, format+"\n", args...)
}

// Status индикатор сети и очереди. Ошибки доставки сюда не попадают,
// только количество ожидающих записей.
func (p *Printer) Status(online bool, pending int) {
	if online {
		p.green.Fprint(p.out, "● онлайн")
	} else {
		p.yellow.Fprint(p.out, "○ офлайн")
	}

	switch {
	case pending > 0:
		fmt.Fprintf(p.out, "  %s\n", PendingText(pending))
	default:
		fmt.Fprintln(p.out, "  все синхронизировано")
	}
}

// PendingText "N items waiting to sync"
func PendingText(n int) string {
	return fmt.Sprintf("%d %s синхронизации", n, plural(n, "запись ожидает", "записи ожидают", "записей ожидают"))
}

func plural(n int, one, few, many string) string {
	n %= 100
	if n >= 11 && n <= 14 {
		return many
	}
	switch n % 10 {
	case 1:
		return one
	case 2, 3, 4:
		return few
	default:
		return many
	}
}

// Print выводит v как JSON
func (p *Printer) Print(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Truncate обрезает строку до n символов
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// SyncMark отметка синхронизации в таблицах
func SyncMark(synced bool) string {
	if synced {
		return "✓"
	}
	return "…"
}

// Table табличный вывод; вызывающий делает Flush
func (p *Printer) Table() *tabwriter.Writer {
	return tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
}
