package patches

import (
	"github.com/spf13/cobra"

	"github.com/roomstock/inventory/internal/cmd/application"
	"github.com/roomstock/inventory/internal/cmd/output"
	"github.com/roomstock/inventory/internal/cmd/table"
	"github.com/roomstock/inventory/pkg/errors"
)

// NewShowCommand creates the patches show command.
func NewShowCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "show [item-id]",
		Aliases: []string{"ls"},
		Short:   "List patched items, or the fields one patch sets",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := app.Engine(cmd.Context())
			if err != nil {
				return err
			}
			store := engine.Store()
			format := output.DetectFormat(app.OutputFormat())

			if len(args) == 0 {
				if !format.IsTable() {
					return output.FormatAny(cmd.OutOrStdout(), store.Snapshot(), format)
				}
				return output.FormatAny(cmd.OutOrStdout(), table.PatchesToTableData(store.IDs(), store.Get), format)
			}

			patch, ok := store.Get(args[0])
			if !ok {
				return errors.NewNotFoundError("patch", args[0])
			}
			if !format.IsTable() {
				return output.FormatAny(cmd.OutOrStdout(), patch, format)
			}
			return output.FormatAny(cmd.OutOrStdout(), table.PatchToTableData(patch), format)
		},
	}
}
