// Package table provides common table formatting utilities for CLI commands.
package table

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/roomstock/inventory/pkg/exchange"
	"github.com/roomstock/inventory/pkg/inventory"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// ItemsToTableData converts effective records to table format. The wide
// form adds the purchase and stock columns.
func ItemsToTableData(records []inventory.Record, wide bool) Data {
	headers := []string{"ID", "Area", "Zone", "Category", "Description", "Vendor", "Warranty End"}
	align := []Align{AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignLeft}
	if wide {
		headers = append(headers, "Model", "Part #", "Unit Cost", "On Hand", "Min", "Location", "Tags")
		align = append(align, AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignLeft, AlignLeft)
	}

	rows := make([][]string, 0, len(records))
	for i := range records {
		r := &records[i]
		row := []string{
			r.ItemID,
			dash(string(r.Area)),
			dash(string(r.Zone)),
			dash(string(r.Category)),
			dash(Truncate(string(r.Description), 48)),
			dash(string(r.Vendor)),
			dash(string(r.WarrantyEnd)),
		}
		if wide {
			row = append(row,
				dash(string(r.Model)),
				dash(string(r.PartNumber)),
				dash(string(r.UnitCost)),
				dash(string(r.OnHand)),
				dash(string(r.MinOnHand)),
				dash(string(r.StorageLocation)),
				dash(strings.Join(r.Tags, ", ")),
			)
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// RecordToTableData renders one record as a field/value table. Editable
// fields whose value differs from base, the record as the dataset has it,
// are marked with an asterisk. A nil base marks nothing.
func RecordToTableData(r inventory.Record, base *inventory.Record) Data {
	rows := [][]string{
		{"item_id", r.ItemID},
		{"spec", string(r.Spec)},
		{"description", string(r.Description)},
		{"category", string(r.Category)},
		{"section_note", string(r.SectionNote)},
		{"area", string(r.Area)},
		{"zone", string(r.Zone)},
		{"attic_stock", r.AtticStock.String()},
		{"total", r.Total.String()},
		{"uom", string(r.UOM)},
		{"notes", string(r.Notes)},
		{"source_page", r.SourcePage.String()},
	}
	for _, f := range inventory.EditableFields() {
		value := fieldValue(&r, f)
		name := string(f)
		if base != nil && fieldValue(base, f) != value {
			name += " *"
		}
		rows = append(rows, []string{name, value})
	}
	return Data{
		Headers:         []string{"Field", "Value"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft},
	}
}

func fieldValue(r *inventory.Record, f inventory.Field) string {
	if f.IsList() {
		return strings.Join(listOf(r, f), ", ")
	}
	v, _ := r.Get(f)
	return v
}

// SummaryToTableData renders the headline numbers of a summary.
func SummaryToTableData(s inventory.Summary) Data {
	return Data{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Items", strconv.Itoa(s.Items)},
			{"Created locally", strconv.Itoa(s.Created)},
			{"Priced", strconv.Itoa(s.Priced)},
			{"Inventory value", s.Value.StringFixed(2)},
			{"Below minimum stock", strconv.Itoa(len(s.LowStock))},
			{"Warranty expiring", strconv.Itoa(len(s.Expiring))},
			{"Warranty expired", strconv.Itoa(len(s.Expired))},
		},
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// StockAlertsToTableData lists items below their minimum.
func StockAlertsToTableData(alerts []inventory.StockAlert) Data {
	rows := make([][]string, 0, len(alerts))
	for _, a := range alerts {
		rows = append(rows, []string{
			a.ItemID,
			dash(Truncate(a.Description, 48)),
			dash(a.Location),
			a.OnHand.String(),
			a.MinOnHand.String(),
		})
	}
	return Data{
		Headers:         []string{"ID", "Description", "Location", "On Hand", "Min"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignRight},
	}
}

// WarrantyAlertsToTableData lists warranties by end date.
func WarrantyAlertsToTableData(alerts []inventory.WarrantyAlert) Data {
	rows := make([][]string, 0, len(alerts))
	for _, a := range alerts {
		rows = append(rows, []string{
			a.ItemID,
			dash(Truncate(a.Description, 48)),
			dash(a.Vendor),
			a.WarrantyEnd,
			strconv.Itoa(a.DaysLeft),
		})
	}
	return Data{
		Headers:         []string{"ID", "Description", "Vendor", "Ends", "Days"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignRight},
	}
}

// PatchesToTableData lists the ids with local edits and the fields each
// patch sets.
func PatchesToTableData(ids []string, get func(string) (inventory.Patch, bool)) Data {
	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		p, ok := get(id)
		if !ok {
			continue
		}
		fields := p.Fields()
		names := make([]string, len(fields))
		for i, f := range fields {
			names[i] = string(f)
		}
		rows = append(rows, []string{id, strconv.Itoa(len(fields)), Truncate(strings.Join(names, ", "), 80)})
	}
	return Data{
		Headers:         []string{"ID", "Fields", "Set"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignLeft},
	}
}

// ImportToTableData summarises an import.
func ImportToTableData(r *exchange.ImportResult) Data {
	return Data{
		Headers: []string{"Outcome", "Count", "IDs"},
		Rows: [][]string{
			{"Added", strconv.Itoa(len(r.Added)), Truncate(strings.Join(r.Added, ", "), 80)},
			{"Replaced", strconv.Itoa(len(r.Replaced)), Truncate(strings.Join(r.Replaced, ", "), 80)},
			{"Unchanged", strconv.Itoa(len(r.Unchanged)), Truncate(strings.Join(r.Unchanged, ", "), 80)},
		},
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignLeft},
	}
}

// Truncate shortens s to at most n runes, ending in "...".
func Truncate(s string, n int) string {
	if n <= 3 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func listOf(r *inventory.Record, f inventory.Field) inventory.List {
	if f == inventory.FieldTags {
		return r.Tags
	}
	return r.ImageURLs
}

// PatchToTableData lists the fields one patch sets. A set-but-empty value is
// shown as (cleared).
func PatchToTableData(p inventory.Patch) Data {
	var rows [][]string
	for _, f := range p.Fields() {
		var value string
		if f.IsList() {
			if l := patchList(&p, f); l != nil {
				value = strings.Join(*l, ", ")
			}
		} else {
			value, _ = p.Get(f)
		}
		if value == "" {
			value = "(cleared)"
		}
		rows = append(rows, []string{string(f), Truncate(value, 80)})
	}
	return Data{
		Headers: []string{"Field", "Value"},
		Rows:    rows,
	}
}

func patchList(p *inventory.Patch, f inventory.Field) *inventory.List {
	if f == inventory.FieldImageURLs {
		return p.ImageURLs
	}
	return p.Tags
}
