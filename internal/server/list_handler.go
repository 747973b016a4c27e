package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olomek/trolley/internal/models"
	"github.com/olomek/trolley/internal/service"
)

// ListHandler exposes the list and membership endpoints.
type ListHandler struct {
	lists *service.ListService
}

// NewListHandler creates the list endpoints handler.
func NewListHandler(lists *service.ListService) *ListHandler {
	return &ListHandler{lists: lists}
}

type createListRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

type addMemberRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
}

// Create handles POST /api/lists.
func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	list, err := h.lists.CreateList(r.Context(), req.Title, req.Description, UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

// Index handles GET /api/lists.
func (h *ListHandler) Index(w http.ResponseWriter, r *http.Request) {
	lists, err := h.lists.GetUserLists(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	if lists == nil {
		// Encode an empty collection, not null.
		lists = []*models.ShoppingList{}
	}
	writeJSON(w, http.StatusOK, lists)
}

// Detail handles GET /api/lists/{listID}.
func (h *ListHandler) Detail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.lists.GetListDetail(r.Context(), chi.URLParam(r, "listID"), UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Delete handles DELETE /api/lists/{listID}.
func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.lists.DeleteList(r.Context(), chi.URLParam(r, "listID"), UserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddMember handles POST /api/lists/{listID}/members.
func (h *ListHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	member, err := h.lists.AddMember(r.Context(), chi.URLParam(r, "listID"), req.UsernameOrEmail, UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

// RemoveMember handles DELETE /api/lists/{listID}/members/{memberID}.
func (h *ListHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	err := h.lists.RemoveMember(r.Context(), chi.URLParam(r, "listID"), chi.URLParam(r, "memberID"), UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
