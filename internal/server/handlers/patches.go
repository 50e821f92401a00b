package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/roomstock/inventory/internal/server/response"
	"github.com/roomstock/inventory/pkg/constants"
	"github.com/roomstock/inventory/pkg/errors"
	"github.com/roomstock/inventory/pkg/exchange"
)

// HandleExport handles GET /api/v1/patches. The body is the updates file
// itself, not an envelope, so it can be saved and imported elsewhere.
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.engine.Export(r.Context(), &buf); err != nil {
		h.fail(w, r, err)
		return
	}
	h.metrics.Exports.Inc()
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+constants.ExportFilename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// HandleGetPatch handles GET /api/v1/patches/{id}.
func (h *Handlers) HandleGetPatch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, ok := h.engine.Store().Get(id)
	if !ok {
		h.fail(w, r, errors.NewNotFoundError("patch", id))
		return
	}
	response.OK(w, p)
}

// HandleImport handles POST /api/v1/patches/import. The body is an updates
// file; ?dry_run=true reports the changes without applying them.
func (h *Handlers) HandleImport(w http.ResponseWriter, r *http.Request) {
	opts := []exchange.Option{exchange.WithSource("request body")}
	if v := r.URL.Query().Get("dry_run"); v != "" {
		dry, err := strconv.ParseBool(v)
		if err != nil {
			response.BadRequest(w, "Invalid dry_run parameter", err.Error())
			return
		}
		if dry {
			opts = append(opts, exchange.WithDryRun())
		}
	}

	res, err := h.engine.Import(r.Context(), r.Body, opts...)
	switch {
	case errors.IsImportError(err):
		h.metrics.Imports.WithLabelValues("rejected").Inc()
		h.fail(w, r, err)
		return
	case err != nil:
		h.metrics.Imports.WithLabelValues("failed").Inc()
		h.fail(w, r, err)
		return
	case res.DryRun:
		h.metrics.Imports.WithLabelValues("dry_run").Inc()
	default:
		h.metrics.Imports.WithLabelValues("applied").Inc()
		h.observe()
	}
	response.OK(w, res)
}

// HandleReset handles DELETE /api/v1/patches: every local edit is dropped
// and the dataset is reloaded.
func (h *Handlers) HandleReset(w http.ResponseWriter, r *http.Request) {
	canonical, err := h.canonical(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.engine.Reset(r.Context(), canonical)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.edited("reset")
	response.OK(w, res)
}

// HandleSave handles POST /api/v1/save.
func (h *Handlers) HandleSave(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Save(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, map[string]any{
		"saved":   true,
		"patches": h.engine.Store().Len(),
	})
}

// HandleReload handles POST /api/v1/reload: the dataset is fetched again
// and local edits are overlaid onto it.
func (h *Handlers) HandleReload(w http.ResponseWriter, r *http.Request) {
	canonical, err := h.canonical(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.engine.Load(r.Context(), canonical)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.observe()
	response.OK(w, res)
}
