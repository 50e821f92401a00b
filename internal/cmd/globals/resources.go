package globals

import (
	"github.com/spf13/cobra"

	"github.com/roomstock/inventory/pkg/inventory"
)

// QueryFlags holds the item selection flags.
type QueryFlags struct {
	Search   string
	Area     string
	Zone     string
	Category string
	Limit    int
}

// Query returns the selection as an inventory query.
func (f *QueryFlags) Query() inventory.Query {
	return inventory.Query{
		Search:   f.Search,
		Area:     f.Area,
		Zone:     f.Zone,
		Category: f.Category,
	}
}

// AddQueryFlags adds item selection flags to a command.
func AddQueryFlags(cmd *cobra.Command) *QueryFlags {
	flags := &QueryFlags{}

	cmd.Flags().StringVarP(&flags.Search, "search", "s", "",
		"Search description, spec, notes, vendor, model, part number and tags")
	cmd.Flags().StringVar(&flags.Area, "area", "",
		"Only items in this area")
	cmd.Flags().StringVar(&flags.Zone, "zone", "",
		"Only items in this zone")
	cmd.Flags().StringVar(&flags.Category, "category", "",
		"Only items in this category")
	cmd.Flags().IntVarP(&flags.Limit, "limit", "l", 0,
		"Limit number of results")

	return flags
}

// ParseQuery extracts query flags from a command.
// The command must have had AddQueryFlags called on it, otherwise this will panic.
func ParseQuery(cmd *cobra.Command) *QueryFlags {
	return &QueryFlags{
		Search:   mustGetString(cmd, "search"),
		Area:     mustGetString(cmd, "area"),
		Zone:     mustGetString(cmd, "zone"),
		Category: mustGetString(cmd, "category"),
		Limit:    mustGetInt(cmd, "limit"),
	}
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetInt retrieves an integer flag value or panics if the flag doesn't exist.
func mustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
