// Package items provides the read-only inventory commands.
package items

import (
	"github.com/spf13/cobra"

	"github.com/roomstock/inventory/internal/cmd/application"
	"github.com/roomstock/inventory/internal/cmd/globals"
	"github.com/roomstock/inventory/internal/cmd/output"
)

// NewListCommand creates the list command.
func NewListCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		GroupID: "core",
		Aliases: []string{"ls"},
		Short:   "List items with local edits applied",
		Args:    cobra.NoArgs,
		Example: `  inventory list                         # All items, newest local items first
  inventory list --search pendant        # Free-text search
  inventory list --area "Public Areas"   # Exact area match
  inventory list -o wide --limit 20      # More columns, first 20 rows`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := app.Engine(cmd.Context())
			if err != nil {
				return err
			}

			flags := globals.ParseQuery(cmd)
			records := engine.Items(flags.Query())
			if flags.Limit > 0 && len(records) > flags.Limit {
				records = records[:flags.Limit]
			}

			return output.FormatItems(cmd.OutOrStdout(), records, output.DetectFormat(app.OutputFormat()))
		},
	}

	globals.AddQueryFlags(cmd)

	return cmd
}
