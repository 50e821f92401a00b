package edit

import (
	"github.com/spf13/cobra"

	"github.com/roomstock/inventory/internal/cmd/alerts"
	"github.com/roomstock/inventory/internal/cmd/application"
)

// NewAddCommand creates the add command.
func NewAddCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "add [<field>=<value>...]",
		GroupID: "edit",
		Short:   "Create a new local item",
		Long: `Add creates a blank item with a NEW- id in Public Areas / Public Spaces.
The item exists only as a local patch until the patches are exported and
merged into the dataset. Fields may be set in the same step.`,
		Example: `  inventory add
  inventory add vendor=Acme model=X-200 on_hand=4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// parsed first so a typo does not leave a blank item behind
			changes, err := parseAssignments(args)
			if err != nil {
				return err
			}

			engine, err := app.Engine(cmd.Context())
			if err != nil {
				return err
			}

			rec, err := engine.Create(cmd.Context())
			if err != nil {
				return err
			}
			if len(changes) > 0 {
				if rec, err = engine.Apply(cmd.Context(), rec.ItemID, changes); err != nil {
					return err
				}
			}

			alerts.Report(cmd, alerts.LevelSuccess, "Created %s", rec.ItemID)
			return writeRecord(cmd, app, rec)
		},
	}
}
