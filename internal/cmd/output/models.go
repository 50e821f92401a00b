package output

import (
	"io"

	"github.com/roomstock/inventory/internal/cmd/table"
	"github.com/roomstock/inventory/pkg/exchange"
	"github.com/roomstock/inventory/pkg/inventory"
)

// FormatItems writes records as a table or as structured data.
func FormatItems(w io.Writer, records []inventory.Record, format Format) error {
	var data any = records
	if format.IsTable() {
		data = table.ItemsToTableData(records, format == FormatWide)
	}
	return NewFormatter(format).Format(w, data)
}

// FormatRecord writes one record. base, when set, is the dataset version of
// the record and the table form marks the fields that differ from it.
func FormatRecord(w io.Writer, rec inventory.Record, base *inventory.Record, format Format) error {
	var data any = rec
	if format.IsTable() {
		data = table.RecordToTableData(rec, base)
	}
	return NewFormatter(format).Format(w, data)
}

// FormatSummary writes the headline numbers followed by the alert lists
// that are not empty.
func FormatSummary(w io.Writer, s inventory.Summary, format Format) error {
	if !format.IsTable() {
		return NewFormatter(format).Format(w, s)
	}
	f := NewFormatter(format)
	if err := f.Format(w, table.SummaryToTableData(s)); err != nil {
		return err
	}
	if len(s.LowStock) > 0 {
		if _, err := io.WriteString(w, "\nBelow minimum stock\n"); err != nil {
			return err
		}
		if err := f.Format(w, table.StockAlertsToTableData(s.LowStock)); err != nil {
			return err
		}
	}
	if len(s.Expiring) > 0 {
		if _, err := io.WriteString(w, "\nWarranty expiring\n"); err != nil {
			return err
		}
		if err := f.Format(w, table.WarrantyAlertsToTableData(s.Expiring)); err != nil {
			return err
		}
	}
	if len(s.Expired) > 0 {
		if _, err := io.WriteString(w, "\nWarranty expired\n"); err != nil {
			return err
		}
		if err := f.Format(w, table.WarrantyAlertsToTableData(s.Expired)); err != nil {
			return err
		}
	}
	return nil
}

// FormatImport writes the outcome of an import.
func FormatImport(w io.Writer, r *exchange.ImportResult, format Format) error {
	var data any = r
	if format.IsTable() {
		data = table.ImportToTableData(r)
	}
	return NewFormatter(format).Format(w, data)
}

// FormatAny handles the common pattern of formatting any data type for output.
func FormatAny(w io.Writer, data any, format Format) error {
	return NewFormatter(format).Format(w, data)
}
