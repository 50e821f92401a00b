// Package inventory defines the inventory line item, the patch that carries a
// user's edits to it, and the read-side helpers (search, facets, summary)
// that work on effective records.
package inventory

import (
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/roomstock/inventory/pkg/constants"
	"github.com/roomstock/inventory/pkg/errors"
	"github.com/roomstock/inventory/pkg/warranty"
)

// Record is one physical inventory line item.
//
// Fields down to SourcePage are canonical: they come from the dataset and are
// never edited. The rest are editable and are what a Patch carries.
type Record struct {
	ItemID             string         `json:"item_id" yaml:"item_id"`
	Spec               Text           `json:"spec" yaml:"spec"`
	Description        Text           `json:"description" yaml:"description"`
	Category           Text           `json:"category" yaml:"category"`
	SectionNote        Text           `json:"section_note" yaml:"section_note"`
	Area               Text           `json:"area" yaml:"area"`
	Zone               Text           `json:"zone" yaml:"zone"`
	RoomTypeQuantities map[string]any `json:"room_type_quantities" yaml:"room_type_quantities"`
	AtticStock         Loose          `json:"attic_stock" yaml:"attic_stock"`
	Total              Loose          `json:"total" yaml:"total"`
	UOM                Text           `json:"uom" yaml:"uom"`
	Notes              Text           `json:"notes" yaml:"notes"`
	SourcePage         Loose          `json:"source_page" yaml:"source_page"`

	Vendor          Text `json:"vendor" yaml:"vendor"`
	Model           Text `json:"model" yaml:"model"`
	PartNumber      Text `json:"part_number" yaml:"part_number"`
	UnitCost        Text `json:"unit_cost" yaml:"unit_cost"`
	WarrantyMonths  Text `json:"warranty_months" yaml:"warranty_months"`
	WarrantyStart   Text `json:"warranty_start" yaml:"warranty_start"`
	WarrantyEnd     Text `json:"warranty_end" yaml:"warranty_end"`
	InstalledDate   Text `json:"installed_date" yaml:"installed_date"`
	LastReplaced    Text `json:"last_replaced" yaml:"last_replaced"`
	OnHand          Text `json:"on_hand" yaml:"on_hand"`
	MinOnHand       Text `json:"min_on_hand" yaml:"min_on_hand"`
	StorageLocation Text `json:"storage_location" yaml:"storage_location"`
	Link            Text `json:"link" yaml:"link"`
	ImageURLs       List `json:"image_urls" yaml:"image_urls"`
	Tags            List `json:"tags" yaml:"tags"`
}

// NewRecord returns a blank record for an item that is not in the dataset.
// Its id is derived from now so it cannot collide with dataset ids.
func NewRecord(now time.Time) Record {
	return Record{
		ItemID:     constants.NewItemPrefix + strconv.FormatInt(now.UnixMilli(), 10),
		Area:       constants.NewItemArea,
		Zone:       constants.NewItemZone,
		AtticStock: LooseString(""),
		Total:      LooseString(""),
		SourcePage: LooseString(""),
		ImageURLs:  List{},
		Tags:       List{},
	}
}

// IsNew reports whether the record was created locally rather than loaded
// from the dataset.
func (r *Record) IsNew() bool {
	return strings.HasPrefix(r.ItemID, constants.NewItemPrefix)
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	c := r
	c.RoomTypeQuantities = maps.Clone(r.RoomTypeQuantities)
	c.AtticStock = slices.Clone(r.AtticStock)
	c.Total = slices.Clone(r.Total)
	c.SourcePage = slices.Clone(r.SourcePage)
	c.ImageURLs = cloneList(r.ImageURLs)
	c.Tags = cloneList(r.Tags)
	return c
}

// Recompute fills the derived warranty end date. An explicit end date is kept.
func (r *Record) Recompute() {
	r.WarrantyEnd = Text(warranty.ComputeEnd(string(r.WarrantyStart), string(r.WarrantyMonths), string(r.WarrantyEnd)))
}

// Get returns the value of a text field.
func (r *Record) Get(f Field) (string, bool) {
	p := r.textField(f)
	if p == nil {
		return "", false
	}
	return string(*p), true
}

// Set assigns a text field. List fields and unknown fields are rejected.
func (r *Record) Set(f Field, value string) error {
	p := r.textField(f)
	if p == nil {
		if f.IsList() {
			return errors.NewValidationError(string(f), value, "list fields are changed with add, not set")
		}
		return errors.NewValidationError("field", string(f), "not an editable text field")
	}
	*p = Text(value)
	return nil
}

// AddImage appends url to the image list. Blank urls are ignored.
func (r *Record) AddImage(url string) bool {
	url = strings.TrimSpace(url)
	if url == "" {
		return false
	}
	if r.ImageURLs == nil {
		r.ImageURLs = List{}
	}
	r.ImageURLs = append(r.ImageURLs, url)
	return true
}

// AddTag adds tag unless it is blank or already present.
func (r *Record) AddTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" || slices.Contains(r.Tags, tag) {
		return false
	}
	if r.Tags == nil {
		r.Tags = List{}
	}
	r.Tags = append(r.Tags, tag)
	return true
}

// Patch extracts the editable subset of r. Every editable field is present
// in the result; canonical fields never are.
func (r *Record) Patch() Patch {
	p := Patch{}
	for _, f := range textFields {
		v := *r.textField(f)
		p.set(f, v)
	}
	images := cloneList(r.ImageURLs)
	tags := cloneList(r.Tags)
	p.ImageURLs = &images
	p.Tags = &tags
	return p
}

func (r *Record) textField(f Field) *Text {
	switch f {
	case FieldVendor:
		return &r.Vendor
	case FieldModel:
		return &r.Model
	case FieldPartNumber:
		return &r.PartNumber
	case FieldUnitCost:
		return &r.UnitCost
	case FieldWarrantyMonths:
		return &r.WarrantyMonths
	case FieldWarrantyStart:
		return &r.WarrantyStart
	case FieldWarrantyEnd:
		return &r.WarrantyEnd
	case FieldInstalledDate:
		return &r.InstalledDate
	case FieldLastReplaced:
		return &r.LastReplaced
	case FieldOnHand:
		return &r.OnHand
	case FieldMinOnHand:
		return &r.MinOnHand
	case FieldStorageLocation:
		return &r.StorageLocation
	case FieldLink:
		return &r.Link
	}
	return nil
}

func cloneList(l List) List {
	if l == nil {
		return List{}
	}
	return slices.Clone(l)
}
