package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vaultden/vaultden/pkg/api/middleware"
	"github.com/vaultden/vaultden/pkg/vault/models"
	"github.com/vaultden/vaultden/pkg/vault/store"
)

// ACLHandler handles grant management API endpoints.
type ACLHandler struct {
	store store.Store
}

// NewACLHandler creates a new ACLHandler.
func NewACLHandler(s store.Store) *ACLHandler {
	return &ACLHandler{store: s}
}

// CreateACLEntryRequest is the request body for POST /api/v1/acl.
type CreateACLEntryRequest struct {
	ResourceType  string   `json:"resource_type"`
	ResourceID    string   `json:"resource_id"`
	PrincipalType string   `json:"principal_type"`
	PrincipalID   string   `json:"principal_id"`
	Permissions   []string `json:"permissions"`
	Inherit       bool     `json:"inherit"`
}

// ACLEntryResponse is the response body for grant endpoints.
type ACLEntryResponse struct {
	ID            string    `json:"id"`
	ResourceType  string    `json:"resource_type"`
	ResourceID    string    `json:"resource_id"`
	PrincipalType string    `json:"principal_type"`
	PrincipalID   string    `json:"principal_id"`
	Permissions   []string  `json:"permissions"`
	Inherit       bool      `json:"inherit"`
	CreatedBy     string    `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func aclEntryToResponse(e *models.ACLEntry) ACLEntryResponse {
	return ACLEntryResponse{
		ID:            e.ID,
		ResourceType:  string(e.ResourceType),
		ResourceID:    e.ResourceID,
		PrincipalType: string(e.PrincipalType),
		PrincipalID:   e.PrincipalID,
		Permissions:   e.Permissions,
		Inherit:       e.Inherit,
		CreatedBy:     e.CreatedBy,
		CreatedAt:     e.CreatedAt,
	}
}

// Create handles POST /api/v1/acl (admin only).
// Creates a new grant. Permission names are stored as given; legacy names
// are translated at evaluation time.
func (h *ACLHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateACLEntryRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	entry := &models.ACLEntry{
		ResourceType:  models.ResourceType(req.ResourceType),
		ResourceID:    req.ResourceID,
		PrincipalType: models.PrincipalType(req.PrincipalType),
		PrincipalID:   req.PrincipalID,
		Permissions:   req.Permissions,
		Inherit:       req.Inherit,
	}
	if claims := middleware.GetClaimsFromContext(r.Context()); claims != nil {
		entry.CreatedBy = claims.UserID
	}

	if err := entry.Validate(); err != nil {
		BadRequest(w, err.Error())
		return
	}

	if _, err := h.store.CreateACLEntry(r.Context(), entry); err != nil {
		InternalServerError(w, "Failed to create ACL entry")
		return
	}

	WriteJSONCreated(w, aclEntryToResponse(entry))
}

// List handles GET /api/v1/acl?resource_type=folder&resource_id={id}
// (admin only). Lists all grants on a resource.
func (h *ACLHandler) List(w http.ResponseWriter, r *http.Request) {
	resourceType := models.ResourceType(r.URL.Query().Get("resource_type"))
	resourceID := r.URL.Query().Get("resource_id")

	if !resourceType.IsValid() {
		BadRequest(w, "resource_type must be vault, folder, or item")
		return
	}
	if resourceID == "" {
		BadRequest(w, "resource_id query parameter is required")
		return
	}

	entries, err := h.store.ListACLEntries(r.Context(), resourceType, resourceID)
	if err != nil {
		InternalServerError(w, "Failed to list ACL entries")
		return
	}

	response := make([]ACLEntryResponse, len(entries))
	for i, e := range entries {
		response[i] = aclEntryToResponse(e)
	}

	WriteJSONOK(w, response)
}

// Delete handles DELETE /api/v1/acl/{id} (admin only).
func (h *ACLHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteACLEntry(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrACLEntryNotFound) {
			NotFound(w, "ACL entry not found")
			return
		}
		InternalServerError(w, "Failed to delete ACL entry")
		return
	}

	WriteNoContent(w)
}
