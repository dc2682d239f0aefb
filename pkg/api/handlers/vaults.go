package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vaultden/vaultden/pkg/vault/models"
	"github.com/vaultden/vaultden/pkg/vault/store"
)

// VaultHandler handles vault management API endpoints.
type VaultHandler struct {
	store store.Store
}

// NewVaultHandler creates a new VaultHandler.
func NewVaultHandler(s store.Store) *VaultHandler {
	return &VaultHandler{store: s}
}

// CreateVaultRequest is the request body for POST /api/v1/vaults.
type CreateVaultRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	OwnerUserID string `json:"owner_user_id"`
}

// UpdateVaultRequest is the request body for PUT /api/v1/vaults/{id}.
type UpdateVaultRequest struct {
	Name string `json:"name"`
}

// VaultResponse is the response body for vault endpoints.
type VaultResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	OwnerUserID string    `json:"owner_user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func vaultToResponse(v *models.Vault) VaultResponse {
	return VaultResponse{
		ID:          v.ID,
		Name:        v.Name,
		Type:        string(v.Type),
		OwnerUserID: v.OwnerUserID,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

// Create handles POST /api/v1/vaults (admin only).
func (h *VaultHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateVaultRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	vault := &models.Vault{
		Name:        req.Name,
		Type:        models.VaultType(req.Type),
		OwnerUserID: req.OwnerUserID,
	}
	if err := vault.Validate(); err != nil {
		BadRequest(w, err.Error())
		return
	}

	if _, err := h.store.CreateVault(r.Context(), vault); err != nil {
		if errors.Is(err, models.ErrDuplicateVault) {
			Conflict(w, "Owner already has a vault of this type")
			return
		}
		InternalServerError(w, "Failed to create vault")
		return
	}

	WriteJSONCreated(w, vaultToResponse(vault))
}

// List handles GET /api/v1/vaults (admin only).
// An optional ?owner= query filters by owner user id.
func (h *VaultHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		vaults []*models.Vault
		err    error
	)
	if owner := r.URL.Query().Get("owner"); owner != "" {
		vaults, err = h.store.ListVaultsByOwner(r.Context(), owner)
	} else {
		vaults, err = h.store.ListVaults(r.Context())
	}
	if err != nil {
		InternalServerError(w, "Failed to list vaults")
		return
	}

	response := make([]VaultResponse, len(vaults))
	for i, v := range vaults {
		response[i] = vaultToResponse(v)
	}

	WriteJSONOK(w, response)
}

// Get handles GET /api/v1/vaults/{id} (admin only).
func (h *VaultHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	vault, err := h.store.GetVault(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrVaultNotFound) {
			NotFound(w, "Vault not found")
			return
		}
		InternalServerError(w, "Failed to get vault")
		return
	}

	WriteJSONOK(w, vaultToResponse(vault))
}

// Update handles PUT /api/v1/vaults/{id} (admin only).
// Only the name can change; type and owner are immutable.
func (h *VaultHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateVaultRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		BadRequest(w, "Vault name is required")
		return
	}

	vault := &models.Vault{ID: id, Name: req.Name}
	if err := h.store.UpdateVault(r.Context(), vault); err != nil {
		if errors.Is(err, models.ErrVaultNotFound) {
			NotFound(w, "Vault not found")
			return
		}
		InternalServerError(w, "Failed to update vault")
		return
	}

	updated, err := h.store.GetVault(r.Context(), id)
	if err != nil {
		InternalServerError(w, "Failed to get vault")
		return
	}

	WriteJSONOK(w, vaultToResponse(updated))
}

// Delete handles DELETE /api/v1/vaults/{id} (admin only).
// Deletes the vault and everything in it.
func (h *VaultHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteVault(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrVaultNotFound) {
			NotFound(w, "Vault not found")
			return
		}
		InternalServerError(w, "Failed to delete vault")
		return
	}

	WriteNoContent(w)
}
