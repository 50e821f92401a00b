package handlers

import (
	"net/http"
	"strconv"

	"github.com/roomstock/inventory/internal/server/response"
	"github.com/roomstock/inventory/pkg/constants"
	"github.com/roomstock/inventory/pkg/inventory"
)

// HandleListItems handles GET /api/v1/items.
// Query parameters: search, area, zone, category, limit (0 means all).
func (h *Handlers) HandleListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			response.BadRequest(w, "Invalid limit parameter", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	items := h.engine.Items(inventory.Query{
		Search:   q.Get("search"),
		Area:     q.Get("area"),
		Zone:     q.Get("zone"),
		Category: q.Get("category"),
	})
	matched := len(items)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	response.OK(w, map[string]any{
		"items":   items,
		"count":   len(items),
		"matched": matched,
		"total":   h.engine.Len(),
	})
}

// HandleGetItem handles GET /api/v1/items/{id}.
func (h *Handlers) HandleGetItem(w http.ResponseWriter, r *http.Request) {
	rec, err := h.engine.Item(r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, rec)
}

// HandleCreateItem handles POST /api/v1/items.
func (h *Handlers) HandleCreateItem(w http.ResponseWriter, r *http.Request) {
	rec, err := h.engine.Create(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.edited("create")
	response.Created(w, rec)
}

// HandleApplyItem handles PUT /api/v1/items/{id}. The body maps editable
// text field names to values; either every field applies or none does.
func (h *Handlers) HandleApplyItem(w http.ResponseWriter, r *http.Request) {
	var body map[string]inventory.Text
	if !decodeBody(w, r, &body) {
		return
	}
	changes := make(map[inventory.Field]string, len(body))
	for name, v := range body {
		f, err := inventory.ParseField(name)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		changes[f] = string(v)
	}
	rec, err := h.engine.Apply(r.Context(), r.PathValue("id"), changes)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.edited("apply")
	response.OK(w, rec)
}

// HandleEditField handles PATCH /api/v1/items/{id}/fields/{field} with a
// body of {"value": "..."}.
func (h *Handlers) HandleEditField(w http.ResponseWriter, r *http.Request) {
	f, err := inventory.ParseField(r.PathValue("field"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var body struct {
		Value inventory.Text `json:"value"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	rec, err := h.engine.Edit(r.Context(), r.PathValue("id"), f, string(body.Value))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.edited("edit")
	response.OK(w, rec)
}

// HandleAddImage handles POST /api/v1/items/{id}/images with {"url": "..."}.
func (h *Handlers) HandleAddImage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	rec, err := h.engine.AddImage(r.Context(), r.PathValue("id"), body.URL)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.edited("add_image")
	response.OK(w, rec)
}

// HandleAddTag handles POST /api/v1/items/{id}/tags with {"tag": "..."}.
func (h *Handlers) HandleAddTag(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Tag string `json:"tag"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	rec, err := h.engine.AddTag(r.Context(), r.PathValue("id"), body.Tag)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.edited("add_tag")
	response.OK(w, rec)
}

// HandleFacets handles GET /api/v1/facets.
func (h *Handlers) HandleFacets(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, h.engine.Facets())
}

// HandleSummary handles GET /api/v1/summary?days=N.
func (h *Handlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	days := constants.DefaultExpiringDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			response.BadRequest(w, "Invalid days parameter", "days must be a non-negative integer")
			return
		}
		days = n
	}
	response.OK(w, h.engine.Summary(days))
}
