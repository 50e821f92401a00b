package items

import (
	"github.com/spf13/cobra"

	"github.com/roomstock/inventory/internal/cmd/application"
	"github.com/roomstock/inventory/internal/cmd/output"
)

// NewFacetsCommand creates the facets command, which lists the values the
// --area, --zone and --category filters accept.
func NewFacetsCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "facets",
		GroupID: "core",
		Short:   "List distinct areas, zones and categories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := app.Engine(cmd.Context())
			if err != nil {
				return err
			}
			return output.FormatAny(cmd.OutOrStdout(), engine.Facets(), output.DetectFormat(app.OutputFormat()))
		},
	}
}
