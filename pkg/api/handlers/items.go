package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vaultden/vaultden/pkg/vault/models"
	"github.com/vaultden/vaultden/pkg/vault/store"
)

// ItemHandler handles item management API endpoints.
//
// Items here are metadata only; secret material lives in a separate system
// and is never stored or served by this API.
type ItemHandler struct {
	store store.Store
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(s store.Store) *ItemHandler {
	return &ItemHandler{store: s}
}

// CreateItemRequest is the request body for POST /api/v1/items.
type CreateItemRequest struct {
	VaultID  string  `json:"vault_id"`
	FolderID *string `json:"folder_id,omitempty"`
	Name     string  `json:"name"`
	Kind     string  `json:"kind"`
}

// UpdateItemRequest is the request body for PUT /api/v1/items/{id}.
type UpdateItemRequest struct {
	Name     string  `json:"name"`
	Kind     string  `json:"kind,omitempty"`
	FolderID *string `json:"folder_id,omitempty"`
}

// ItemResponse is the response body for item endpoints.
type ItemResponse struct {
	ID        string    `json:"id"`
	VaultID   string    `json:"vault_id"`
	FolderID  *string   `json:"folder_id,omitempty"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func itemToResponse(it *models.Item) ItemResponse {
	return ItemResponse{
		ID:        it.ID,
		VaultID:   it.VaultID,
		FolderID:  it.FolderID,
		Name:      it.Name,
		Kind:      string(it.Kind),
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
}

// Create handles POST /api/v1/items (admin only).
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	item := &models.Item{
		VaultID:  req.VaultID,
		FolderID: req.FolderID,
		Name:     req.Name,
		Kind:     models.ItemKind(req.Kind),
	}
	if err := item.Validate(); err != nil {
		BadRequest(w, err.Error())
		return
	}

	if _, err := h.store.CreateItem(r.Context(), item); err != nil {
		if errors.Is(err, models.ErrVaultNotFound) {
			NotFound(w, "Vault not found")
			return
		}
		InternalServerError(w, "Failed to create item")
		return
	}

	WriteJSONCreated(w, itemToResponse(item))
}

// List handles GET /api/v1/items?vault={id}&folder={id} (admin only).
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	vaultID := r.URL.Query().Get("vault")
	if vaultID == "" {
		BadRequest(w, "vault query parameter is required")
		return
	}

	var folderID *string
	if f := r.URL.Query().Get("folder"); f != "" {
		folderID = &f
	}

	items, err := h.store.ListItems(r.Context(), vaultID, folderID)
	if err != nil {
		InternalServerError(w, "Failed to list items")
		return
	}

	response := make([]ItemResponse, len(items))
	for i, it := range items {
		response[i] = itemToResponse(it)
	}

	WriteJSONOK(w, response)
}

// Get handles GET /api/v1/items/{id} (admin only).
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := h.store.GetItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrItemNotFound) {
			NotFound(w, "Item not found")
			return
		}
		InternalServerError(w, "Failed to get item")
		return
	}

	WriteJSONOK(w, itemToResponse(item))
}

// Update handles PUT /api/v1/items/{id} (admin only).
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateItemRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		BadRequest(w, "Item name is required")
		return
	}

	item := &models.Item{
		ID:       id,
		Name:     req.Name,
		Kind:     models.ItemKind(req.Kind),
		FolderID: req.FolderID,
	}
	if err := h.store.UpdateItem(r.Context(), item); err != nil {
		if errors.Is(err, models.ErrItemNotFound) {
			NotFound(w, "Item not found")
			return
		}
		InternalServerError(w, "Failed to update item")
		return
	}

	updated, err := h.store.GetItem(r.Context(), id)
	if err != nil {
		InternalServerError(w, "Failed to get item")
		return
	}

	WriteJSONOK(w, itemToResponse(updated))
}

// Delete handles DELETE /api/v1/items/{id} (admin only).
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteItem(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrItemNotFound) {
			NotFound(w, "Item not found")
			return
		}
		InternalServerError(w, "Failed to delete item")
		return
	}

	WriteNoContent(w)
}
