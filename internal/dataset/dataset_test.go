package dataset_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomstock/inventory/internal/dataset"
	"github.com/roomstock/inventory/pkg/errors"
)

const sample = `[
  {"item_id": "CH-01-p12", "spec": "CH", "description": "Chair", "category": null, "area": "Guestrooms",
   "room_type_quantities": {"K1": 2}, "attic_stock": 4, "total": 12, "uom": "EA", "source_page": 12},
  {"item_id": "SOFA-01-p20", "spec": "SOFA", "area": "Public Areas", "total": "3", "vendor": "Acme",
   "image_urls": ["https://img/sofa.jpg"], "tags": ["lobby"]}
]`

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	records, err := dataset.NewLoader(nil).Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "CH-01-p12", records[0].ItemID)
	assert.NotNil(t, records[0].Tags, "missing lists default to empty")
	assert.Equal(t, "Acme", string(records[1].Vendor))
}

func TestLoadRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/items.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(sample))
	}))
	defer srv.Close()

	loader := dataset.NewLoader(nil)
	records, err := loader.Load(context.Background(), srv.URL+"/data/items.json")
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, err = loader.Load(context.Background(), srv.URL+"/nope.json")
	require.Error(t, err)
	assert.True(t, errors.IsSourceUnavailable(err))
	var resErr *errors.ResourceError
	assert.ErrorAs(t, err, &resErr)
}

func TestLoadErrors(t *testing.T) {
	ctx := context.Background()
	loader := dataset.NewLoader(nil)

	_, err := loader.Load(ctx, "")
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)

	assert.False(t, errors.IsSourceUnavailable(err), "a missing setting is a configuration problem")

	_, err = loader.Load(ctx, filepath.Join(t.TempDir(), "missing.json"))
	var ioErr *errors.IOError
	assert.ErrorAs(t, err, &ioErr)
	assert.True(t, errors.IsSourceUnavailable(err))

	bad := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"item_id": "A"}`), 0o600))
	_, err = loader.Load(ctx, bad)
	var parseErr *errors.ParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.True(t, errors.IsSourceUnavailable(err))
}

func TestDecode(t *testing.T) {
	tests := map[string]string{
		"object":     `{"item_id": "A"}`,
		"empty":      ``,
		"broken":     `[{"item_id": "A"`,
		"missing id": `[{"spec": "A"}]`,
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := dataset.Decode([]byte(input), "items.json")
			var parseErr *errors.ParseError
			assert.ErrorAs(t, err, &parseErr)
		})
	}

	records, err := dataset.Decode([]byte(`[]`), "items.json")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestIsRemote(t *testing.T) {
	assert.True(t, dataset.IsRemote("HTTPS://host/items.json"))
	assert.True(t, dataset.IsRemote("http://localhost:8000/data/items.json"))
	assert.False(t, dataset.IsRemote("data/items.json"))
}
