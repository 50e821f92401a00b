package handlers

import (
	"net/http"
	"time"

	"github.com/roomstock/inventory/internal/server/response"
)

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "inventory-api",
		"version": "v1",
		"items":   h.engine.Len(),
		"patches": h.engine.Store().Len(),
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}

// HandleReady handles GET /api/v1/ready. The server is ready once the
// dataset has been loaded.
func (h *Handlers) HandleReady(w http.ResponseWriter, _ *http.Request) {
	if h.engine.LastResult() == nil {
		response.ServiceUnavailable(w, "Dataset not loaded")
		return
	}
	response.OK(w, map[string]any{
		"status": "ready",
		"items":  h.engine.Len(),
	})
}
