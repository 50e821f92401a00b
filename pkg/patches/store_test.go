package patches_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomstock/inventory/internal/storage"
	"github.com/roomstock/inventory/pkg/errors"
	"github.com/roomstock/inventory/pkg/inventory"
	"github.com/roomstock/inventory/pkg/logging"
	"github.com/roomstock/inventory/pkg/patches"
)

// failing wraps a backend and fails the operations that are switched on.
type failing struct {
	*storage.Memory
	get, put, del error
}

func (f *failing) Get(ctx context.Context, key string) ([]byte, error) {
	if f.get != nil {
		return nil, f.get
	}
	return f.Memory.Get(ctx, key)
}

func (f *failing) Put(ctx context.Context, key string, value []byte) error {
	if f.put != nil {
		return f.put
	}
	return f.Memory.Put(ctx, key, value)
}

func (f *failing) Delete(ctx context.Context, key string) error {
	if f.del != nil {
		return f.del
	}
	return f.Memory.Delete(ctx, key)
}

func record(id, vendor string) *inventory.Record {
	r := inventory.NewRecord(time.Now())
	r.ItemID = id
	r.Vendor = inventory.Text(vendor)
	return &r
}

func TestLoadEmpty(t *testing.T) {
	ctx := context.Background()
	for name, content := range map[string]string{"absent": "", "blank": "  \n", "empty object": "{}"} {
		t.Run(name, func(t *testing.T) {
			mem := storage.NewMemory()
			if content != "" {
				require.NoError(t, mem.Put(ctx, "inventory_edits_v1", []byte(content)))
			}
			s := patches.New(mem)
			res, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, patches.LoadEmpty, res.Status)
			assert.Zero(t, s.Len())
		})
	}
}

func TestLoadDiscardsMalformedContent(t *testing.T) {
	ctx := context.Background()
	for name, content := range map[string]string{
		"not json":         "{not json",
		"array":            "[1,2,3]",
		"string":           `"hello"`,
		"null":             "null",
		"non object patch": `{"A": "vendor"}`,
		"nested value":     `{"A": {"vendor": {"x": 1}}}`,
	} {
		t.Run(name, func(t *testing.T) {
			tl := logging.NewTestLogger(t)
			mem := storage.NewMemory()
			require.NoError(t, mem.Put(ctx, "inventory_edits_v1", []byte(content)))

			s := patches.New(mem, patches.WithLogger(tl.Logger))
			res, err := s.Load(ctx)
			require.NoError(t, err)

			assert.Equal(t, patches.LoadDiscarded, res.Status)
			assert.Error(t, res.Cause)
			assert.Zero(t, s.Len())
			assert.True(t, tl.HasLevel(zerolog.WarnLevel))

			left, err := mem.Get(ctx, "inventory_edits_v1")
			require.NoError(t, err)
			assert.Nil(t, left, "durable entry is erased")
		})
	}
}

func TestLoadBackendFailure(t *testing.T) {
	boom := errors.New("disk gone")
	s := patches.New(&failing{Memory: storage.NewMemory(), get: boom})
	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, s.Len())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()

	s := patches.New(mem, patches.WithKey("site-a"))
	require.NoError(t, s.Remember(record("A", "Acme")))
	b := record("B", "")
	b.AddTag("spare")
	b.AddImage("https://img/b.jpg")
	require.NoError(t, s.Remember(b))
	require.NoError(t, s.Save(ctx))

	raw, err := mem.Get(ctx, "site-a")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"A\": {", "saved pretty printed")

	again := patches.New(mem, patches.WithKey("site-a"))
	res, err := again.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, patches.LoadRestored, res.Status)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, s.Snapshot(), again.Snapshot())
}

func TestRemember(t *testing.T) {
	s := patches.New(storage.NewMemory())

	require.NoError(t, s.Remember(record("A", "First")))
	require.NoError(t, s.Remember(record("A", "Second")))
	assert.Equal(t, 1, s.Len(), "one patch per id")

	p, ok := s.Get("A")
	require.True(t, ok)
	v, _ := p.Get(inventory.FieldVendor)
	assert.Equal(t, "Second", v)
	assert.Len(t, p.Fields(), len(inventory.EditableFields()))

	err := s.Remember(record("  ", "x"))
	assert.True(t, errors.IsValidationError(err))
	assert.True(t, errors.IsValidationError(s.Remember(nil)))
}

func TestRememberDropsCanonicalFields(t *testing.T) {
	s := patches.New(storage.NewMemory())
	r := record("A", "Acme")
	r.Spec = "CH"
	r.Description = "chair"
	r.Total = inventory.LooseString("4")
	require.NoError(t, s.Remember(r))

	data, err := json.Marshal(s)
	require.NoError(t, err)
	var decoded map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	for key := range decoded["A"] {
		assert.False(t, inventory.IsCanonical(key), "canonical field %s leaked", key)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	s := patches.New(mem)
	require.NoError(t, s.Remember(record("A", "x")))
	require.NoError(t, s.Save(ctx))

	require.NoError(t, s.Clear(ctx))
	assert.Zero(t, s.Len())
	left, err := mem.Get(ctx, "inventory_edits_v1")
	require.NoError(t, err)
	assert.Nil(t, left)
}

func TestSaveFailure(t *testing.T) {
	boom := errors.New("read-only filesystem")
	s := patches.New(&failing{Memory: storage.NewMemory(), put: boom})
	require.NoError(t, s.Remember(record("A", "x")))

	err := s.Save(context.Background())
	assert.ErrorIs(t, err, boom)
	var ioErr *errors.IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestReplaceRestoreSnapshot(t *testing.T) {
	s := patches.New(storage.NewMemory())
	require.NoError(t, s.Remember(record("A", "x")))
	require.NoError(t, s.Remember(record("B", "y")))
	before := s.Snapshot()

	vendor := inventory.Text("Z")
	s.Replace(map[string]inventory.Patch{"B": {Vendor: &vendor}, "C": {}})
	assert.Equal(t, []string{"A", "B", "C"}, s.IDs())
	b, _ := s.Get("B")
	assert.Equal(t, []inventory.Field{inventory.FieldVendor}, b.Fields())

	s.Restore(before)
	assert.Equal(t, []string{"A", "B"}, s.IDs())
	assert.Equal(t, before, s.Snapshot())

	// mutating a snapshot does not reach the store
	snap := s.Snapshot()
	*snap["A"].Vendor = "mutated"
	a, _ := s.Get("A")
	v, _ := a.Get(inventory.FieldVendor)
	assert.Equal(t, "x", v)
}

func TestLoadStatusString(t *testing.T) {
	assert.Equal(t, "empty", patches.LoadEmpty.String())
	assert.Equal(t, "restored", patches.LoadRestored.String())
	assert.Equal(t, "discarded", patches.LoadDiscarded.String())
	assert.Equal(t, "unknown", patches.LoadStatus(42).String())
}
