package inventory

import (
	"slices"
)

// Patch is the set of edited values for one item. A nil field is not part
// of the patch and leaves the record's value alone; a pointer to "" is an
// explicit override that clears the value.
type Patch struct {
	Vendor          *Text `json:"vendor,omitempty"`
	Model           *Text `json:"model,omitempty"`
	PartNumber      *Text `json:"part_number,omitempty"`
	UnitCost        *Text `json:"unit_cost,omitempty"`
	WarrantyMonths  *Text `json:"warranty_months,omitempty"`
	WarrantyStart   *Text `json:"warranty_start,omitempty"`
	WarrantyEnd     *Text `json:"warranty_end,omitempty"`
	InstalledDate   *Text `json:"installed_date,omitempty"`
	LastReplaced    *Text `json:"last_replaced,omitempty"`
	OnHand          *Text `json:"on_hand,omitempty"`
	MinOnHand       *Text `json:"min_on_hand,omitempty"`
	StorageLocation *Text `json:"storage_location,omitempty"`
	Link            *Text `json:"link,omitempty"`
	ImageURLs       *List `json:"image_urls,omitempty"`
	Tags            *List `json:"tags,omitempty"`
}

// Get returns the patched value of a text field and whether it is present.
func (p *Patch) Get(f Field) (string, bool) {
	s := p.slot(f)
	if s == nil || *s == nil {
		return "", false
	}
	return string(**s), true
}

// Has reports whether f is present in the patch.
func (p *Patch) Has(f Field) bool {
	switch f {
	case FieldImageURLs:
		return p.ImageURLs != nil
	case FieldTags:
		return p.Tags != nil
	}
	_, ok := p.Get(f)
	return ok
}

// Fields lists the fields present in the patch, in display order.
func (p *Patch) Fields() []Field {
	var out []Field
	for _, f := range EditableFields() {
		if p.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// IsEmpty reports whether no field is present.
func (p *Patch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// ApplyTo overwrites every field of r that is present in the patch, empty
// values included. Derived fields are not recomputed here.
func (p *Patch) ApplyTo(r *Record) {
	for _, f := range textFields {
		if v, ok := p.Get(f); ok {
			*r.textField(f) = Text(v)
		}
	}
	if p.ImageURLs != nil {
		r.ImageURLs = cloneList(*p.ImageURLs)
	}
	if p.Tags != nil {
		r.Tags = cloneList(*p.Tags)
	}
}

// Clone returns a deep copy of p.
func (p Patch) Clone() Patch {
	c := Patch{}
	for _, f := range textFields {
		if v, ok := p.Get(f); ok {
			c.set(f, Text(v))
		}
	}
	if p.ImageURLs != nil {
		l := cloneList(*p.ImageURLs)
		c.ImageURLs = &l
	}
	if p.Tags != nil {
		l := cloneList(*p.Tags)
		c.Tags = &l
	}
	return c
}

// Equal reports whether p and o carry the same fields with the same values.
func (p *Patch) Equal(o *Patch) bool {
	for _, f := range textFields {
		a, aok := p.Get(f)
		b, bok := o.Get(f)
		if aok != bok || a != b {
			return false
		}
	}
	return listEqual(p.ImageURLs, o.ImageURLs) && listEqual(p.Tags, o.Tags)
}

func (p *Patch) set(f Field, v Text) {
	if s := p.slot(f); s != nil {
		*s = &v
	}
}

func (p *Patch) slot(f Field) **Text {
	switch f {
	case FieldVendor:
		return &p.Vendor
	case FieldModel:
		return &p.Model
	case FieldPartNumber:
		return &p.PartNumber
	case FieldUnitCost:
		return &p.UnitCost
	case FieldWarrantyMonths:
		return &p.WarrantyMonths
	case FieldWarrantyStart:
		return &p.WarrantyStart
	case FieldWarrantyEnd:
		return &p.WarrantyEnd
	case FieldInstalledDate:
		return &p.InstalledDate
	case FieldLastReplaced:
		return &p.LastReplaced
	case FieldOnHand:
		return &p.OnHand
	case FieldMinOnHand:
		return &p.MinOnHand
	case FieldStorageLocation:
		return &p.StorageLocation
	case FieldLink:
		return &p.Link
	}
	return nil
}

func listEqual(a, b *List) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return slices.Equal(*a, *b)
}
