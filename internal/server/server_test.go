package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomstock/inventory/internal/storage"
	"github.com/roomstock/inventory/pkg/constants"
	"github.com/roomstock/inventory/pkg/inventory"
	"github.com/roomstock/inventory/pkg/logging"
	"github.com/roomstock/inventory/pkg/patches"
	"github.com/roomstock/inventory/pkg/reconcile"
)

func dataset() []inventory.Record {
	return []inventory.Record{
		{ItemID: "LOBBY-01-p3", Spec: "L-1", Description: "Lobby pendant", Category: "Lighting", Area: "Public Areas", Zone: "Lobby"},
		{ItemID: "POOL-02-p7", Spec: "P-2", Description: "Pool lounger", Category: "Furniture", Area: "Amenities", Zone: "Pool"},
	}
}

type fixture struct {
	srv     *Server
	ts      *httptest.Server
	backend *storage.Memory
	engine  *reconcile.Engine
	reloads int
}

func newFixture(t *testing.T, mutate func(*Config)) *fixture {
	t.Helper()
	tl := logging.NewTestLogger(t)
	f := &fixture{backend: storage.NewMemory()}

	store := patches.New(f.backend, patches.WithLogger(tl.Logger))
	engine, err := reconcile.New(store,
		reconcile.WithLogger(tl.Logger),
		reconcile.WithAutoSave(true),
		reconcile.WithClock(func() time.Time { return time.UnixMilli(1_718_000_000_000) }),
	)
	require.NoError(t, err)
	_, _, err = engine.Open(context.Background(), dataset())
	require.NoError(t, err)
	f.engine = engine

	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	reload := func(context.Context) ([]inventory.Record, error) {
		f.reloads++
		return dataset(), nil
	}
	f.srv, err = New(engine, reload, cfg, tl.Logger)
	require.NoError(t, err)
	f.ts = httptest.NewServer(f.srv.Handler())
	t.Cleanup(f.ts.Close)
	return f
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (f *fixture) do(t *testing.T, method, path, body string, headers ...string) (*http.Response, envelope) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, f.ts.URL+path, r)
	require.NoError(t, err)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := f.ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(raw, &env)
		if env.Data == nil && env.Error == nil {
			env.Data = raw
		}
	}
	return resp, env
}

func decodeRecord(t *testing.T, raw json.RawMessage) inventory.Record {
	t.Helper()
	var rec inventory.Record
	require.NoError(t, json.Unmarshal(raw, &rec))
	return rec
}

func TestNewValidation(t *testing.T) {
	_, err := New(nil, nil, DefaultConfig(), nil)
	assert.Error(t, err)

	engine, err := reconcile.New(patches.New(storage.NewMemory()))
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.AuthEnabled = true
	_, err = New(engine, nil, cfg, nil)
	assert.Error(t, err, "auth without a key is a config error")
}

func TestHealth(t *testing.T) {
	f := newFixture(t, nil)

	for _, path := range []string{"/health", "/api/v1/health"} {
		resp, env := f.do(t, "GET", path, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(env.Data), `"healthy"`)
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	}

	resp, _ := f.do(t, "GET", "/api/v1/ready", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListItems(t *testing.T) {
	f := newFixture(t, nil)

	tests := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"?search=pendant", 1},
		{"?search=LIGHTING", 1},
		{"?area=Amenities", 1},
		{"?zone=Lobby&category=Furniture", 0},
		{"?limit=1", 1},
		{"?limit=0", 2},
		{"?area=Amenities&limit=5", 1},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, env := f.do(t, "GET", "/api/v1/items"+tt.query, "")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			var body struct {
				Items []inventory.Record `json:"items"`
				Count int                `json:"count"`
				Total int                `json:"total"`
			}
			require.NoError(t, json.Unmarshal(env.Data, &body))
			assert.Equal(t, tt.want, body.Count)
			assert.Len(t, body.Items, tt.want)
			assert.Equal(t, 2, body.Total)
		})
	}
}

func TestListItemsLimit(t *testing.T) {
	f := newFixture(t, nil)

	resp, env := f.do(t, "GET", "/api/v1/items?limit=1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Count   int `json:"count"`
		Matched int `json:"matched"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, 2, body.Matched)

	for _, bad := range []string{"-1", "ten"} {
		resp, _ = f.do(t, "GET", "/api/v1/items?limit="+bad, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, bad)
	}
}

func TestGetItem(t *testing.T) {
	f := newFixture(t, nil)

	resp, env := f.do(t, "GET", "/api/v1/items/LOBBY-01-p3", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Lobby pendant", string(decodeRecord(t, env.Data).Description))

	resp, env = f.do(t, "GET", "/api/v1/items/NOPE", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestEditField(t *testing.T) {
	f := newFixture(t, nil)

	resp, env := f.do(t, "PATCH", "/api/v1/items/LOBBY-01-p3/fields/warranty-start", `{"value":"2024-01-31"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, env = f.do(t, "PATCH", "/api/v1/items/LOBBY-01-p3/fields/warranty_months", `{"value":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	rec := decodeRecord(t, env.Data)
	assert.Equal(t, "1", string(rec.WarrantyMonths))
	assert.Equal(t, "2024-03-02", string(rec.WarrantyEnd))

	p, ok := f.engine.Store().Get("LOBBY-01-p3")
	require.True(t, ok)
	v, _ := p.Get(inventory.FieldWarrantyStart)
	assert.Equal(t, "2024-01-31", v)

	data, err := f.backend.Get(context.Background(), constants.EditsKey)
	require.NoError(t, err)
	assert.Contains(t, string(data), "LOBBY-01-p3", "auto save persisted the edit")
	assert.Equal(t, 2.0, testutil.ToFloat64(f.srv.Metrics().Edits.WithLabelValues("edit")))
}

func TestEditFieldErrors(t *testing.T) {
	f := newFixture(t, nil)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"canonical field", "/api/v1/items/LOBBY-01-p3/fields/description", `{"value":"x"}`, http.StatusUnprocessableEntity, "READ_ONLY"},
		{"unknown field", "/api/v1/items/LOBBY-01-p3/fields/colour", `{"value":"x"}`, http.StatusBadRequest, "BAD_REQUEST"},
		{"list field", "/api/v1/items/LOBBY-01-p3/fields/tags", `{"value":"x"}`, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown item", "/api/v1/items/NOPE/fields/vendor", `{"value":"x"}`, http.StatusNotFound, "NOT_FOUND"},
		{"bad body", "/api/v1/items/LOBBY-01-p3/fields/vendor", `{"value":`, http.StatusBadRequest, "BAD_REQUEST"},
		{"empty body", "/api/v1/items/LOBBY-01-p3/fields/vendor", ``, http.StatusBadRequest, "BAD_REQUEST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, env := f.do(t, "PATCH", tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
	assert.Equal(t, 0, f.engine.Store().Len())
}

func TestApplyItem(t *testing.T) {
	f := newFixture(t, nil)

	resp, env := f.do(t, "PUT", "/api/v1/items/POOL-02-p7", `{"vendor":"Acme","model":"L-9","unit_cost":"120"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rec := decodeRecord(t, env.Data)
	assert.Equal(t, "Acme", string(rec.Vendor))
	assert.Equal(t, "L-9", string(rec.Model))

	resp, _ = f.do(t, "PUT", "/api/v1/items/POOL-02-p7", `{"vendor":"Other","spec":"nope"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	got, err := f.engine.Item("POOL-02-p7")
	require.NoError(t, err)
	assert.Equal(t, "Acme", string(got.Vendor), "rejected apply changes nothing")
}

func TestCreateAndCollections(t *testing.T) {
	f := newFixture(t, nil)

	resp, env := f.do(t, "POST", "/api/v1/items", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeRecord(t, env.Data)
	assert.Equal(t, "NEW-1718000000000", created.ItemID)
	assert.Equal(t, constants.NewItemArea, string(created.Area))

	resp, env = f.do(t, "POST", "/api/v1/items/"+created.ItemID+"/images", `{"url":" https://img/1.jpg "}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, inventory.List{"https://img/1.jpg"}, decodeRecord(t, env.Data).ImageURLs)

	for i := 0; i < 2; i++ {
		resp, env = f.do(t, "POST", "/api/v1/items/"+created.ItemID+"/tags", `{"tag":"spare"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	assert.Equal(t, inventory.List{"spare"}, decodeRecord(t, env.Data).Tags)

	resp, _ = f.do(t, "POST", "/api/v1/items/"+created.ItemID+"/tags", `{"tag":"  "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, env = f.do(t, "GET", "/api/v1/items", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Items []inventory.Record `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	require.Len(t, body.Items, 3)
	assert.Equal(t, created.ItemID, body.Items[0].ItemID, "new items come first")
}

func TestExportImportRoundTrip(t *testing.T) {
	f := newFixture(t, nil)
	_, _ = f.do(t, "PATCH", "/api/v1/items/LOBBY-01-p3/fields/vendor", `{"value":"Acme"}`)

	resp, env := f.do(t, "GET", "/api/v1/patches", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), constants.ExportFilename)
	exported := string(env.Data)
	assert.Contains(t, exported, `"vendor": "Acme"`)
	assert.True(t, strings.HasSuffix(exported, "\n"))

	other := newFixture(t, nil)
	resp, env = other.do(t, "POST", "/api/v1/patches/import?dry_run=true", exported)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(env.Data), `"dry_run":true`)
	assert.Equal(t, 0, other.engine.Store().Len())

	resp, _ = other.do(t, "POST", "/api/v1/patches/import", exported)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rec, err := other.engine.Item("LOBBY-01-p3")
	require.NoError(t, err)
	assert.Equal(t, "Acme", string(rec.Vendor))

	assert.Equal(t, 1.0, testutil.ToFloat64(f.srv.Metrics().Exports))
	assert.Equal(t, 1.0, testutil.ToFloat64(other.srv.Metrics().Imports.WithLabelValues("applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(other.srv.Metrics().Imports.WithLabelValues("dry_run")))
}

func TestImportRejectsMalformed(t *testing.T) {
	f := newFixture(t, nil)
	_, _ = f.do(t, "PATCH", "/api/v1/items/LOBBY-01-p3/fields/vendor", `{"value":"Acme"}`)
	before, err := f.backend.Get(context.Background(), constants.EditsKey)
	require.NoError(t, err)

	for _, body := range []string{`[1,2]`, `"x"`, `null`, `{"A": 5}`, `{not json`} {
		t.Run(body, func(t *testing.T) {
			resp, env := f.do(t, "POST", "/api/v1/patches/import", body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.NotNil(t, env.Error)
			assert.Equal(t, "INVALID_IMPORT", env.Error.Code)
		})
	}

	after, err := f.backend.Get(context.Background(), constants.EditsKey)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	resp, _ := f.do(t, "POST", "/api/v1/patches/import?dry_run=maybe", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetPatch(t *testing.T) {
	f := newFixture(t, nil)
	_, _ = f.do(t, "PATCH", "/api/v1/items/LOBBY-01-p3/fields/vendor", `{"value":"Acme"}`)

	resp, env := f.do(t, "GET", "/api/v1/patches/LOBBY-01-p3", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(env.Data), `"vendor":"Acme"`)

	resp, _ = f.do(t, "GET", "/api/v1/patches/POOL-02-p7", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestResetAndReload(t *testing.T) {
	f := newFixture(t, nil)
	_, _ = f.do(t, "PATCH", "/api/v1/items/LOBBY-01-p3/fields/vendor", `{"value":"Acme"}`)

	resp, _ := f.do(t, "POST", "/api/v1/reload", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rec, err := f.engine.Item("LOBBY-01-p3")
	require.NoError(t, err)
	assert.Equal(t, "Acme", string(rec.Vendor), "reload keeps local edits")

	resp, _ = f.do(t, "DELETE", "/api/v1/patches", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rec, err = f.engine.Item("LOBBY-01-p3")
	require.NoError(t, err)
	assert.Empty(t, string(rec.Vendor))
	assert.Equal(t, 0, f.engine.Store().Len())
	assert.Equal(t, 2, f.reloads)

	data, err := f.backend.Get(context.Background(), constants.EditsKey)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestSaveAndShutdown(t *testing.T) {
	f := newFixture(t, nil)
	resp, env := f.do(t, "POST", "/api/v1/save", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(env.Data), `"saved":true`)

	require.NoError(t, f.srv.Shutdown(context.Background()))
}

func TestFacetsAndSummary(t *testing.T) {
	f := newFixture(t, nil)

	resp, env := f.do(t, "GET", "/api/v1/facets", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var facets inventory.Facets
	require.NoError(t, json.Unmarshal(env.Data, &facets))
	assert.Equal(t, []string{"Amenities", "Public Areas"}, facets.Areas)

	resp, _ = f.do(t, "GET", "/api/v1/summary?days=30", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = f.do(t, "GET", "/api/v1/summary?days=-1", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, nil)
	_, _ = f.do(t, "GET", "/api/v1/items", "")

	resp, _ := f.do(t, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.GreaterOrEqual(t, testutil.ToFloat64(f.srv.Metrics().Requests.WithLabelValues("GET", "200")), 1.0)

	off := newFixture(t, func(c *Config) { c.MetricsEnabled = false })
	resp, _ = off.do(t, "GET", "/metrics", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEditKey(t *testing.T) {
	f := newFixture(t, func(c *Config) {
		c.AuthEnabled = true
		c.EditKey = "s3cret"
	})

	resp, _ := f.do(t, "GET", "/api/v1/items", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = f.do(t, "PATCH", "/api/v1/items/LOBBY-01-p3/fields/vendor", `{"value":"Acme"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = f.do(t, "PATCH", "/api/v1/items/LOBBY-01-p3/fields/vendor", `{"value":"Acme"}`, "X-Edit-Key", "s3cret")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t, nil)
	resp, env := f.do(t, "GET", "/api/v1/nothing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{Host: "127.0.0.1", Port: 9090, PathPrefix: "api/v2/"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "/api/v2", cfg.PathPrefix)
	assert.Equal(t, "X-Edit-Key", cfg.AuthHeader)
	assert.Equal(t, "127.0.0.1:9090", cfg.Addr())

	cfg = DefaultConfig()
	cfg.Port = 70000
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.AuthEnabled = true
	assert.Error(t, cfg.Validate())
}
