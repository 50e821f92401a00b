package patches

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roomstock/inventory/internal/cmd/alerts"
	"github.com/roomstock/inventory/internal/cmd/application"
	"github.com/roomstock/inventory/pkg/errors"
)

// NewClearCommand creates the patches clear command.
func NewClearCommand(app application.Application) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Discard every local edit and reload the dataset",
		Long: `Clear erases all local patches, including items created with add, and
reloads the canonical dataset. Export first if the edits may be needed.`,
		Example: `  inventory patches export backup.json && inventory patches clear --yes`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.NewValidationError("yes", false, "clearing edits cannot be undone; pass --yes to confirm")
			}

			engine, err := app.Engine(cmd.Context())
			if err != nil {
				return err
			}
			discarded := engine.Store().IDs()

			canonical, err := app.Dataset(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := engine.Reset(cmd.Context(), canonical); err != nil {
				return err
			}

			alert := alerts.Newf(alerts.LevelSuccess, "Cleared %d patches", len(discarded))
			if len(discarded) > 0 {
				alert.WithDetails(strings.Join(discarded, ", "))
			}
			_ = alerts.For(cmd).WriteAlert(alert)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm discarding all local edits")

	return cmd
}
