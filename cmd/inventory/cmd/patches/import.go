package patches

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roomstock/inventory/internal/cmd/alerts"
	"github.com/roomstock/inventory/internal/cmd/application"
	"github.com/roomstock/inventory/internal/cmd/output"
	"github.com/roomstock/inventory/pkg/errors"
	"github.com/roomstock/inventory/pkg/exchange"
)

// NewImportCommand creates the patches import command.
func NewImportCommand(app application.Application) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Merge an updates file into local edits",
		Long: `Import reads an updates file and merges it into the local edits.

A malformed file is rejected as a whole and local edits stay exactly as they
were. With --dry-run nothing is written; the command only reports which
patches would be added, replaced or left unchanged.`,
		Example: `  inventory patches import site-a.json
  inventory patches import --dry-run site-a.json
  cat site-a.json | inventory patches import -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]

			var r io.Reader
			if source == "-" {
				r = cmd.InOrStdin()
				source = "stdin"
			} else {
				f, err := os.Open(source)
				if err != nil {
					return errors.WrapIO("open", source, err)
				}
				defer f.Close()
				r = f
			}

			engine, err := app.Engine(cmd.Context())
			if err != nil {
				return err
			}

			opts := []exchange.Option{exchange.WithSource(source)}
			if dryRun {
				opts = append(opts, exchange.WithDryRun())
			}
			result, err := engine.Import(cmd.Context(), r, opts...)
			if err != nil {
				return err
			}

			switch {
			case dryRun:
				alerts.Report(cmd, alerts.LevelInfo, "Dry run: %d of %d patches would change", len(result.Added)+len(result.Replaced), result.Total())
			case result.Changed():
				alerts.Report(cmd, alerts.LevelSuccess, "Imported %d patches from %s", result.Total(), source)
			default:
				alerts.Report(cmd, alerts.LevelInfo, "Nothing new in %s", source)
			}

			return output.FormatImport(cmd.OutOrStdout(), result, output.DetectFormat(app.OutputFormat()))
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without writing")

	return cmd
}
