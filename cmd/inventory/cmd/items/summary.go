package items

import (
	"github.com/spf13/cobra"

	"github.com/roomstock/inventory/internal/cmd/application"
	"github.com/roomstock/inventory/internal/cmd/output"
	"github.com/roomstock/inventory/pkg/constants"
	"github.com/roomstock/inventory/pkg/errors"
)

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(app application.Application) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:     "summary",
		GroupID: "core",
		Short:   "Show stock levels, inventory value and warranty alerts",
		Args:    cobra.NoArgs,
		Example: `  inventory summary
  inventory summary --days 30`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if days < 0 {
				return errors.NewValidationError("days", days, "must not be negative")
			}

			engine, err := app.Engine(cmd.Context())
			if err != nil {
				return err
			}

			return output.FormatSummary(cmd.OutOrStdout(), engine.Summary(days), output.DetectFormat(app.OutputFormat()))
		},
	}

	cmd.Flags().IntVar(&days, "days", constants.DefaultExpiringDays,
		"Warranty look-ahead window in days")

	return cmd
}
