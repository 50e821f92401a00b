package edit

import (
	"github.com/spf13/cobra"

	"github.com/roomstock/inventory/internal/cmd/alerts"
	"github.com/roomstock/inventory/internal/cmd/application"
)

// NewImageCommand creates the image command and its add subcommand.
func NewImageCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "image",
		GroupID: "edit",
		Short:   "Manage item image links",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "add <item-id> <url>",
		Short:   "Append an image URL to an item",
		Example: `  inventory image add LOBBY-01-p3 https://example.com/pendant.jpg`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := app.Engine(cmd.Context())
			if err != nil {
				return err
			}
			rec, err := engine.AddImage(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			alerts.Report(cmd, alerts.LevelSuccess, "Added image to %s (%d total)", rec.ItemID, len(rec.ImageURLs))
			return writeRecord(cmd, app, rec)
		},
	})

	return cmd
}

// NewTagCommand creates the tag command and its add subcommand.
func NewTagCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tag",
		GroupID: "edit",
		Short:   "Manage item tags",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "add <item-id> <tag>",
		Short:   "Add a tag to an item; existing tags are left alone",
		Example: `  inventory tag add LOBBY-01-p3 lighting`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := app.Engine(cmd.Context())
			if err != nil {
				return err
			}
			rec, err := engine.AddTag(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			alerts.Report(cmd, alerts.LevelSuccess, "Tagged %s", rec.ItemID)
			return writeRecord(cmd, app, rec)
		},
	})

	return cmd
}
