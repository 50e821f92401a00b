package inventory_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomstock/inventory/pkg/errors"
	"github.com/roomstock/inventory/pkg/inventory"
)

const canonicalJSON = `{
  "item_id": "CH-01-p12",
  "spec": "CH",
  "description": "Desk chair",
  "category": null,
  "section_note": "Furniture",
  "area": "Guestrooms",
  "zone": "",
  "room_type_quantities": {"K1": 2, "QQ": 1},
  "attic_stock": 4,
  "total": "12",
  "uom": "EA",
  "notes": "",
  "source_page": 12,
  "vendor": "",
  "image_urls": [],
  "tags": []
}`

func TestRecordDecodesLooseDataset(t *testing.T) {
	var r inventory.Record
	require.NoError(t, json.Unmarshal([]byte(canonicalJSON), &r))

	assert.Equal(t, "CH-01-p12", r.ItemID)
	assert.Equal(t, inventory.Text(""), r.Category)
	assert.Equal(t, "4", r.AtticStock.String())
	assert.Equal(t, "12", r.Total.String())
	total, ok := r.Total.Float()
	assert.True(t, ok)
	assert.Equal(t, 12.0, total)
	assert.Len(t, r.RoomTypeQuantities, 2)

	out, err := json.Marshal(r)
	require.NoError(t, err)
	var back map[string]any
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, float64(4), back["attic_stock"])
	assert.Equal(t, "12", back["total"])
	assert.Equal(t, float64(12), back["source_page"])
}

func TestNewRecord(t *testing.T) {
	now := time.UnixMilli(1718000000123)
	r := inventory.NewRecord(now)

	assert.Equal(t, "NEW-1718000000123", r.ItemID)
	assert.True(t, r.IsNew())
	assert.Equal(t, inventory.Text("Public Areas"), r.Area)
	assert.Equal(t, inventory.Text("Public Spaces"), r.Zone)
	assert.Nil(t, r.RoomTypeQuantities)
	assert.NotNil(t, r.ImageURLs)
	assert.Empty(t, r.ImageURLs)
	assert.NotNil(t, r.Tags)
	assert.Empty(t, r.Vendor)

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"room_type_quantities":null`)
	assert.Contains(t, string(out), `"attic_stock":""`)
	assert.Contains(t, string(out), `"tags":[]`)
}

func TestRecordSetAndGet(t *testing.T) {
	r := inventory.NewRecord(time.Now())

	require.NoError(t, r.Set(inventory.FieldVendor, "Acme"))
	v, ok := r.Get(inventory.FieldVendor)
	assert.True(t, ok)
	assert.Equal(t, "Acme", v)

	err := r.Set(inventory.FieldTags, "x")
	assert.True(t, errors.IsValidationError(err))

	err = r.Set(inventory.Field("spec"), "x")
	assert.True(t, errors.IsValidationError(err))

	_, ok = r.Get(inventory.FieldImageURLs)
	assert.False(t, ok)
}

func TestRecordRecompute(t *testing.T) {
	r := inventory.NewRecord(time.Now())
	r.WarrantyStart = "2024-01-31"
	r.WarrantyMonths = "1"
	r.Recompute()
	assert.Equal(t, inventory.Text("2024-03-02"), r.WarrantyEnd)

	r.WarrantyMonths = "24"
	r.Recompute()
	assert.Equal(t, inventory.Text("2024-03-02"), r.WarrantyEnd, "an end date that is already set is kept")
}

func TestAddImageAndTag(t *testing.T) {
	r := inventory.NewRecord(time.Now())

	assert.True(t, r.AddImage(" https://img/a.jpg "))
	assert.True(t, r.AddImage("https://img/a.jpg"))
	assert.False(t, r.AddImage("   "))
	assert.Equal(t, inventory.List{"https://img/a.jpg", "https://img/a.jpg"}, r.ImageURLs)

	assert.True(t, r.AddTag("spare"))
	assert.False(t, r.AddTag("spare"))
	assert.False(t, r.AddTag(""))
	assert.True(t, r.AddTag("lobby"))
	assert.Equal(t, inventory.List{"spare", "lobby"}, r.Tags)
}

func TestRecordPatchCarriesOnlyEditableFields(t *testing.T) {
	var r inventory.Record
	require.NoError(t, json.Unmarshal([]byte(canonicalJSON), &r))
	r.Vendor = "Acme"
	r.AddTag("spare")

	p := r.Patch()
	out, err := json.Marshal(p)
	require.NoError(t, err)

	var keys map[string]any
	require.NoError(t, json.Unmarshal(out, &keys))
	assert.Len(t, keys, len(inventory.EditableFields()))
	for _, f := range inventory.EditableFields() {
		assert.Contains(t, keys, string(f))
	}
	for _, canonical := range []string{"item_id", "spec", "description", "area", "total", "room_type_quantities"} {
		assert.NotContains(t, keys, canonical)
	}
	assert.Equal(t, "Acme", keys["vendor"])
	assert.Equal(t, []any{"spare"}, keys["tags"])
	assert.Equal(t, []any{}, keys["image_urls"])
}

func TestRecordClone(t *testing.T) {
	var r inventory.Record
	require.NoError(t, json.Unmarshal([]byte(canonicalJSON), &r))
	r.AddTag("a")

	c := r.Clone()
	c.AddTag("b")
	c.RoomTypeQuantities["K1"] = 99

	assert.Equal(t, inventory.List{"a"}, r.Tags)
	assert.Equal(t, float64(2), r.RoomTypeQuantities["K1"])
}
