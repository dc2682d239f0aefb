package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vaultden/vaultden/pkg/vault/acl"
	"github.com/vaultden/vaultden/pkg/vault/models"
	"github.com/vaultden/vaultden/pkg/vault/store"
)

// FolderHandler handles folder management API endpoints.
type FolderHandler struct {
	store store.Store
}

// NewFolderHandler creates a new FolderHandler.
func NewFolderHandler(s store.Store) *FolderHandler {
	return &FolderHandler{store: s}
}

// CreateFolderRequest is the request body for POST /api/v1/folders.
type CreateFolderRequest struct {
	VaultID  string  `json:"vault_id"`
	ParentID *string `json:"parent_id,omitempty"`
	Name     string  `json:"name"`
}

// UpdateFolderRequest is the request body for PUT /api/v1/folders/{id}.
type UpdateFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"`
}

// FolderResponse is the response body for folder endpoints.
type FolderResponse struct {
	ID        string    `json:"id"`
	VaultID   string    `json:"vault_id"`
	ParentID  *string   `json:"parent_id,omitempty"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func folderToResponse(f *models.Folder) FolderResponse {
	return FolderResponse{
		ID:        f.ID,
		VaultID:   f.VaultID,
		ParentID:  f.ParentID,
		Name:      f.Name,
		Path:      f.Path,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Create handles POST /api/v1/folders (admin only).
func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateFolderRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	folder := &models.Folder{
		VaultID:  req.VaultID,
		ParentID: req.ParentID,
		Name:     req.Name,
	}
	if err := folder.Validate(); err != nil {
		BadRequest(w, err.Error())
		return
	}

	if _, err := h.store.CreateFolder(r.Context(), folder); err != nil {
		if errors.Is(err, models.ErrVaultNotFound) {
			NotFound(w, "Vault not found")
			return
		}
		if errors.Is(err, models.ErrFolderNotFound) {
			NotFound(w, "Parent folder not found")
			return
		}
		InternalServerError(w, "Failed to create folder")
		return
	}

	WriteJSONCreated(w, folderToResponse(folder))
}

// List handles GET /api/v1/folders?vault={id} (admin only).
func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	vaultID := r.URL.Query().Get("vault")
	if vaultID == "" {
		BadRequest(w, "vault query parameter is required")
		return
	}

	folders, err := h.store.ListFolders(r.Context(), vaultID)
	if err != nil {
		InternalServerError(w, "Failed to list folders")
		return
	}

	response := make([]FolderResponse, len(folders))
	for i, f := range folders {
		response[i] = folderToResponse(f)
	}

	WriteJSONOK(w, response)
}

// Get handles GET /api/v1/folders/{id} (admin only).
func (h *FolderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	folder, err := h.store.GetFolder(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrFolderNotFound) {
			NotFound(w, "Folder not found")
			return
		}
		InternalServerError(w, "Failed to get folder")
		return
	}

	WriteJSONOK(w, folderToResponse(folder))
}

// Descendants handles GET /api/v1/folders/{id}/descendants (admin only).
// Returns the folder id and every folder nested beneath it, at any depth.
func (h *FolderHandler) Descendants(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := h.store.GetFolder(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrFolderNotFound) {
			NotFound(w, "Folder not found")
			return
		}
		InternalServerError(w, "Failed to get folder")
		return
	}

	ids, err := acl.DescendantFolderIDs(r.Context(), h.store, []string{id})
	if err != nil {
		InternalServerError(w, "Failed to expand folder tree")
		return
	}

	WriteJSONOK(w, map[string][]string{"folder_ids": ids})
}

// Update handles PUT /api/v1/folders/{id} (admin only).
func (h *FolderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateFolderRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		BadRequest(w, "Folder name is required")
		return
	}

	folder := &models.Folder{ID: id, Name: req.Name, ParentID: req.ParentID}
	if err := h.store.UpdateFolder(r.Context(), folder); err != nil {
		if errors.Is(err, models.ErrFolderNotFound) {
			NotFound(w, "Folder not found")
			return
		}
		InternalServerError(w, "Failed to update folder")
		return
	}

	updated, err := h.store.GetFolder(r.Context(), id)
	if err != nil {
		InternalServerError(w, "Failed to get folder")
		return
	}

	WriteJSONOK(w, folderToResponse(updated))
}

// Delete handles DELETE /api/v1/folders/{id} (admin only).
// Items are detached to the vault root; children move up to the parent.
func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteFolder(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrFolderNotFound) {
			NotFound(w, "Folder not found")
			return
		}
		InternalServerError(w, "Failed to delete folder")
		return
	}

	WriteNoContent(w)
}
