// Package edit provides the commands that change items. Every change is
// recorded as a patch and saved before the command returns.
package edit

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roomstock/inventory/internal/cmd/alerts"
	"github.com/roomstock/inventory/internal/cmd/application"
	"github.com/roomstock/inventory/internal/cmd/output"
	"github.com/roomstock/inventory/pkg/errors"
	"github.com/roomstock/inventory/pkg/inventory"
)

// NewEditCommand creates the edit command.
func NewEditCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "edit <item-id> (<field> <value> | <field>=<value>...)",
		GroupID: "edit",
		Short:   "Set editable fields on an item",
		Long: `Edit sets one or more editable text fields on an item.

Field names may use dashes or underscores. Dataset fields such as spec or
description cannot be edited. An empty value clears a field.

warranty_end is derived from warranty_start and warranty_months only while
it is blank. Once set, by hand or by an earlier derivation, it is kept; clear
it in the same edit to have it derived again.`,
		Example: `  inventory edit LOBBY-01-p3 vendor Acme
  inventory edit LOBBY-01-p3 warranty-start=2024-01-31 warranty-months=12
  inventory edit LOBBY-01-p3 warranty-months=24 warranty-end=
  inventory edit LOBBY-01-p3 link=`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			changes, err := parseChanges(args[1:])
			if err != nil {
				return err
			}

			engine, err := app.Engine(cmd.Context())
			if err != nil {
				return err
			}

			rec, err := engine.Apply(cmd.Context(), args[0], changes)
			if err != nil {
				return err
			}

			alerts.Report(cmd, alerts.LevelSuccess, "Updated %s (%s)", rec.ItemID, joinFields(changes))
			return writeRecord(cmd, app, rec)
		},
	}
}

// parseChanges accepts either "field value" or any number of "field=value".
func parseChanges(args []string) (map[inventory.Field]string, error) {
	if len(args) == 2 && !strings.Contains(args[0], "=") {
		f, err := textField(args[0])
		if err != nil {
			return nil, err
		}
		return map[inventory.Field]string{f: args[1]}, nil
	}
	return parseAssignments(args)
}

// parseAssignments accepts "field=value" arguments only.
func parseAssignments(args []string) (map[inventory.Field]string, error) {
	changes := make(map[inventory.Field]string, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, errors.NewValidationError("args", arg, "expected <field>=<value>")
		}
		f, err := textField(name)
		if err != nil {
			return nil, err
		}
		changes[f] = value
	}
	return changes, nil
}

// textField resolves name to an editable text field. The list fields have
// their own commands.
func textField(name string) (inventory.Field, error) {
	f, err := inventory.ParseField(name)
	if err != nil {
		return "", err
	}
	if !f.IsText() {
		return "", errors.NewValidationError(string(f), name, "not a text field, use the image or tag command")
	}
	return f, nil
}

func joinFields(changes map[inventory.Field]string) string {
	names := make([]string, 0, len(changes))
	for _, f := range inventory.EditableFields() {
		if _, ok := changes[f]; ok {
			names = append(names, string(f))
		}
	}
	return strings.Join(names, ", ")
}

// writeRecord prints the updated record in the selected format.
func writeRecord(cmd *cobra.Command, app application.Application, rec inventory.Record) error {
	engine, err := app.Engine(cmd.Context())
	if err != nil {
		return err
	}
	var base *inventory.Record
	if b, ok := engine.Base(rec.ItemID); ok {
		base = &b
	}
	return output.FormatRecord(cmd.OutOrStdout(), rec, base, output.DetectFormat(app.OutputFormat()))
}
