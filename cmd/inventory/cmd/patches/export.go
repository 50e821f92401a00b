package patches

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/roomstock/inventory/internal/cmd/alerts"
	"github.com/roomstock/inventory/internal/cmd/application"
	"github.com/roomstock/inventory/pkg/constants"
	"github.com/roomstock/inventory/pkg/errors"
)

// NewExportCommand creates the patches export command.
func NewExportCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write local edits to an updates file",
		Long: `Export writes every local patch as an updates file. With no argument the
file is ` + constants.ExportFilename + ` in the current directory; "-" writes to stdout.`,
		Example: `  inventory patches export
  inventory patches export site-a.json
  inventory patches export - | jq .`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := constants.ExportFilename
			if len(args) == 1 {
				path = args[0]
			}

			engine, err := app.Engine(cmd.Context())
			if err != nil {
				return err
			}

			if path == "-" {
				return engine.Export(cmd.Context(), cmd.OutOrStdout())
			}

			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions)
			if err != nil {
				return errors.WrapIO("create", path, err)
			}
			if err := engine.Export(cmd.Context(), f); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return errors.WrapIO("close", path, err)
			}

			alerts.Report(cmd, alerts.LevelSuccess, "Exported %d patches to %s", engine.Store().Len(), path)
			return nil
		},
	}
}
