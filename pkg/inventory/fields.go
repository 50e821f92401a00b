package inventory

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roomstock/inventory/pkg/errors"
)

// Field names a user-editable column of a record.
type Field string

// Editable fields. These, and only these, are carried by a Patch.
const (
	FieldVendor          Field = "vendor"
	FieldModel           Field = "model"
	FieldPartNumber      Field = "part_number"
	FieldUnitCost        Field = "unit_cost"
	FieldWarrantyMonths  Field = "warranty_months"
	FieldWarrantyStart   Field = "warranty_start"
	FieldWarrantyEnd     Field = "warranty_end"
	FieldInstalledDate   Field = "installed_date"
	FieldLastReplaced    Field = "last_replaced"
	FieldOnHand          Field = "on_hand"
	FieldMinOnHand       Field = "min_on_hand"
	FieldStorageLocation Field = "storage_location"
	FieldLink            Field = "link"
	FieldImageURLs       Field = "image_urls"
	FieldTags            Field = "tags"
)

var textFields = []Field{
	FieldVendor,
	FieldModel,
	FieldPartNumber,
	FieldUnitCost,
	FieldWarrantyMonths,
	FieldWarrantyStart,
	FieldWarrantyEnd,
	FieldInstalledDate,
	FieldLastReplaced,
	FieldOnHand,
	FieldMinOnHand,
	FieldStorageLocation,
	FieldLink,
}

// canonicalFields are read-only; they come from the dataset and never from a patch.
var canonicalFields = []string{
	"item_id", "spec", "description", "category", "section_note", "area", "zone",
	"room_type_quantities", "attic_stock", "total", "uom", "notes", "source_page",
}

// EditableFields returns every editable field in display order.
func EditableFields() []Field {
	return append(TextFields(), FieldImageURLs, FieldTags)
}

// TextFields returns the editable fields that hold a single text value.
func TextFields() []Field {
	return slices.Clone(textFields)
}

// IsText reports whether f holds a single text value.
func (f Field) IsText() bool {
	return slices.Contains(textFields, f)
}

// IsList reports whether f holds a list of values.
func (f Field) IsList() bool {
	return f == FieldImageURLs || f == FieldTags
}

// AffectsWarranty reports whether changing f can change the derived end date.
func (f Field) AffectsWarranty() bool {
	return f == FieldWarrantyStart || f == FieldWarrantyMonths || f == FieldWarrantyEnd
}

func (f Field) String() string { return string(f) }

// ParseField resolves a field name. Dashes are accepted in place of
// underscores so "part-number" works on the command line.
func ParseField(name string) (Field, error) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	f := Field(n)
	if f.IsText() || f.IsList() {
		return f, nil
	}
	if slices.Contains(canonicalFields, n) {
		return "", fmt.Errorf("field %s: %w", n, errors.ErrReadOnly)
	}
	return "", errors.NewValidationError("field", name, "unknown field")
}

// IsCanonical reports whether name is one of the read-only dataset columns.
func IsCanonical(name string) bool {
	return slices.Contains(canonicalFields, name)
}
