package items

import (
	"github.com/spf13/cobra"

	"github.com/roomstock/inventory/internal/cmd/application"
	"github.com/roomstock/inventory/internal/cmd/output"
	"github.com/roomstock/inventory/pkg/inventory"
)

// NewShowCommand creates the show command.
func NewShowCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "show <item-id>",
		GroupID: "core",
		Short:   "Show one item; edited fields are marked with *",
		Args:    cobra.ExactArgs(1),
		Example: `  inventory show LOBBY-01-p3
  inventory show LOBBY-01-p3 -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := app.Engine(cmd.Context())
			if err != nil {
				return err
			}

			rec, err := engine.Item(args[0])
			if err != nil {
				return err
			}

			var base *inventory.Record
			if b, ok := engine.Base(rec.ItemID); ok {
				base = &b
			}

			return output.FormatRecord(cmd.OutOrStdout(), rec, base, output.DetectFormat(app.OutputFormat()))
		},
	}
}
