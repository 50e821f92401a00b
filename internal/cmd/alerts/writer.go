package alerts

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/roomstock/inventory/internal/cmd/globals"
)

// Writer handles alert output.
type Writer interface {
	WriteAlert(alert *Alert) error
}

// WriterFunc is an adapter to allow functions to be used as Writers.
type WriterFunc func(*Alert) error

// WriteAlert calls the function.
func (f WriterFunc) WriteAlert(alert *Alert) error {
	return f(alert)
}

// DiscardWriter is a Writer that discards all alerts.
var DiscardWriter Writer = WriterFunc(func(*Alert) error { return nil })

// NewWriterTo writes one alert per line to w. The icon is colored only when
// color is true and w is a terminal.
func NewWriterTo(w io.Writer, color bool) Writer {
	color = color && isTerminal(w)
	return WriterFunc(func(alert *Alert) error {
		line := alert.String()
		if color {
			icon := alert.Level.Icon()
			line = alert.Level.Color() + icon + resetColor + line[len(icon):]
		}
		_, err := fmt.Fprintln(w, line)
		return err
	})
}

// For returns the writer a command reports status through: its stderr,
// silenced by --quiet and uncolored under --no-color.
func For(cmd *cobra.Command) Writer {
	flags := globals.Parse(cmd)
	if flags.Quiet {
		return DiscardWriter
	}
	return NewWriterTo(cmd.ErrOrStderr(), !flags.NoColor)
}

// Report writes a formatted alert for cmd. Write errors are ignored since
// status lines are advisory.
func Report(cmd *cobra.Command, level Level, format string, args ...any) {
	_ = For(cmd).WriteAlert(Newf(level, format, args...))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
