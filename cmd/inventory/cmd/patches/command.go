// Package patches provides the commands that move local edits between
// machines and discard them.
package patches

import (
	"github.com/spf13/cobra"

	"github.com/roomstock/inventory/internal/cmd/application"
)

// NewCommand creates the patches command with its subcommands.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "patches",
		GroupID: "management",
		Aliases: []string{"edits"},
		Short:   "Export, import, inspect and clear local edits",
		Long: `Local edits are stored as one patch per item. An updates file is a JSON
object mapping item ids to patches, the same shape the store keeps.

Importing merges whole patches: an incoming patch replaces any local patch
for the same item, and items absent from the file keep their local patch.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(NewExportCommand(app))
	cmd.AddCommand(NewImportCommand(app))
	cmd.AddCommand(NewShowCommand(app))
	cmd.AddCommand(NewClearCommand(app))

	return cmd
}
