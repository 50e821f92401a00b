package app

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roomstock/inventory/internal/cmd/globals"
	"github.com/roomstock/inventory/internal/cmd/output"
	"github.com/roomstock/inventory/internal/storage"
)

// Execute runs the inventory CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "inventory",
		Short:   "Inventory edit overlay CLI",
		Version: a.version,
		Long: `Inventory shows the canonical item dataset with your local edits applied.

The dataset is never modified. Every edit is kept as a sparse patch in a
local store and reapplied on top of the dataset each time it loads. Patches
can be exported to a file, shared, and imported elsewhere.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "edit",
		Title: "Editing Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands:",
	})

	globals.AddFlags(rootCmd)
	rootCmd.PersistentFlags().String("config", "", "config file (default is $HOME/.inventory.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	rootCmd.PersistentFlags().String("data", "", "canonical dataset file path or http(s) URL")
	rootCmd.PersistentFlags().String("store-backend", "",
		"patch store backend: "+strings.Join(storage.Backends(), ", "))
	rootCmd.PersistentFlags().String("store-dir", "", "patch store directory (default is ~/.inventory)")

	rootCmd.SetVersionTemplate("inventory {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	// A config file named on the command line replaces the one found at startup.
	if configFile := mustGetString(cmd, "config"); configFile != "" {
		config, err := loadConfig(configFile)
		if err != nil {
			return err
		}
		a.config = config
	}

	flags := globals.Parse(cmd)
	if _, err := output.ParseFormat(flags.Format); err != nil {
		return err
	}
	a.config.UpdateFromFlags(Flags{
		Verbose:      flags.Verbose,
		Quiet:        flags.Quiet,
		NoColor:      flags.NoColor,
		Format:       flags.Format,
		LogLevel:     mustGetString(cmd, "log-level"),
		Data:         mustGetString(cmd, "data"),
		StoreBackend: mustGetString(cmd, "store-backend"),
		StoreDir:     mustGetString(cmd, "store-dir"),
	})

	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
