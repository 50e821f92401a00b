package app

import (
	"github.com/spf13/cobra"

	"github.com/roomstock/inventory/cmd/inventory/cmd/edit"
	"github.com/roomstock/inventory/cmd/inventory/cmd/items"
	"github.com/roomstock/inventory/cmd/inventory/cmd/patches"
	"github.com/roomstock/inventory/cmd/inventory/cmd/serve"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(items.NewListCommand(a))
	rootCmd.AddCommand(items.NewShowCommand(a))
	rootCmd.AddCommand(items.NewSummaryCommand(a))
	rootCmd.AddCommand(items.NewFacetsCommand(a))

	// Editing commands
	rootCmd.AddCommand(edit.NewEditCommand(a))
	rootCmd.AddCommand(edit.NewAddCommand(a))
	rootCmd.AddCommand(edit.NewImageCommand(a))
	rootCmd.AddCommand(edit.NewTagCommand(a))

	// Management commands
	rootCmd.AddCommand(patches.NewCommand(a))
	rootCmd.AddCommand(serve.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(a.NewVersionCommand())
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("inventory %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
