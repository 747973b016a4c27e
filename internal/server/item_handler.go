package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olomek/trolley/internal/models"
	"github.com/olomek/trolley/internal/service"
)

// ItemHandler exposes the item endpoints.
type ItemHandler struct {
	items *service.ItemService
}

// NewItemHandler creates the item endpoints handler.
func NewItemHandler(items *service.ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

type createItemRequest struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     *string `json:"unit"`
	Priority *string `json:"priority"`
}

// Create handles POST /api/lists/{listID}/items.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	in := service.CreateItemInput{Name: req.Name, Quantity: req.Quantity, Unit: req.Unit}
	if req.Priority != nil {
		p, err := models.ParseItemPriority(*req.Priority)
		if err != nil {
			writeError(w, err)
			return
		}
		in.Priority = &p
	}

	item, err := h.items.CreateItem(r.Context(), chi.URLParam(r, "listID"), in, UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// Index handles GET /api/lists/{listID}/items.
func (h *ItemHandler) Index(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.GetListItems(r.Context(), chi.URLParam(r, "listID"), UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []*models.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Update handles PATCH /api/items/{itemID}. The patch distinguishes a field
// that is absent from one explicitly set to null: "unit": null clears the
// unit, while omitting it leaves the stored value alone.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	patch, err := decodeItemPatch(r)
	if err != nil {
		writeError(w, err)
		return
	}

	item, err := h.items.UpdateItem(r.Context(), chi.URLParam(r, "itemID"), patch, UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{itemID}.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.items.DeleteItem(r.Context(), chi.URLParam(r, "itemID"), UserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeItemPatch decodes the tri-state update body. Key presence is
// detected on the raw message so a null unit survives decoding.
func decodeItemPatch(r *http.Request) (models.ItemPatch, error) {
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		return models.ItemPatch{}, &models.ValidationError{Field: "body", Reason: "malformed JSON"}
	}

	var patch models.ItemPatch
	for key, raw := range fields {
		switch key {
		case "name":
			if err := json.Unmarshal(raw, &patch.Name); err != nil || patch.Name == nil {
				return patch, &models.ValidationError{Field: "name", Reason: "must be a string"}
			}
		case "quantity":
			if err := json.Unmarshal(raw, &patch.Quantity); err != nil || patch.Quantity == nil {
				return patch, &models.ValidationError{Field: "quantity", Reason: "must be a number"}
			}
		case "unit":
			patch.UnitSet = true
			if err := json.Unmarshal(raw, &patch.Unit); err != nil {
				return patch, &models.ValidationError{Field: "unit", Reason: "must be a string or null"}
			}
		case "status":
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return patch, &models.ValidationError{Field: "status", Reason: "must be a string"}
			}
			status, err := models.ParseItemStatus(s)
			if err != nil {
				return patch, err
			}
			patch.Status = &status
		case "priority":
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return patch, &models.ValidationError{Field: "priority", Reason: "must be a string"}
			}
			priority, err := models.ParseItemPriority(s)
			if err != nil {
				return patch, err
			}
			patch.Priority = &priority
		}
	}
	return patch, nil
}
