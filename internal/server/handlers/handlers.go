// Package handlers provides the HTTP handlers of the inventory editing API.
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/roomstock/inventory/internal/server/metrics"
	"github.com/roomstock/inventory/internal/server/response"
	"github.com/roomstock/inventory/pkg/errors"
	"github.com/roomstock/inventory/pkg/inventory"
	"github.com/roomstock/inventory/pkg/logging"
	"github.com/roomstock/inventory/pkg/reconcile"
)

// ReloadFunc fetches the canonical dataset again.
type ReloadFunc func(ctx context.Context) ([]inventory.Record, error)

// maxBodyBytes bounds JSON request bodies other than imports.
const maxBodyBytes = 1 << 20

// Handlers serves the engine over HTTP.
type Handlers struct {
	engine  *reconcile.Engine
	reload  ReloadFunc
	metrics *metrics.Metrics
	logger  *zerolog.Logger
	started time.Time
}

// New creates the handlers. reload may be nil, in which case reset and
// reload reuse the records the engine already holds.
func New(engine *reconcile.Engine, reload ReloadFunc, m *metrics.Metrics, logger *zerolog.Logger) *Handlers {
	if m == nil {
		m = metrics.New()
	}
	if logger == nil {
		logger = logging.Default()
	}
	h := &Handlers{
		engine:  engine,
		reload:  reload,
		metrics: m,
		logger:  logger,
		started: time.Now(),
	}
	h.observe()
	return h
}

// observe refreshes the gauges after a change.
func (h *Handlers) observe() {
	h.metrics.Items.Set(float64(h.engine.Len()))
	h.metrics.Patches.Set(float64(h.engine.Store().Len()))
}

// edited counts a successful mutation.
func (h *Handlers) edited(op string) {
	h.metrics.Edits.WithLabelValues(op).Inc()
	h.observe()
}

// decodeBody reads a JSON body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			response.BadRequest(w, "Request body is empty", "Send a JSON object")
			return false
		}
		response.BadRequest(w, "Invalid JSON body", err.Error())
		return false
	}
	return true
}

// fail writes err and logs server-side failures.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if !errors.IsNotFound(err) && !errors.IsValidationError(err) && !errors.IsReadOnly(err) {
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	}
	response.ErrorFromType(w, err)
}

// canonical returns the dataset to reset against.
func (h *Handlers) canonical(ctx context.Context) ([]inventory.Record, error) {
	if h.reload == nil {
		return h.engine.Canonical(), nil
	}
	return h.reload(ctx)
}
