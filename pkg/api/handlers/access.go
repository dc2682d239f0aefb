package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vaultden/vaultden/pkg/api/middleware"
	"github.com/vaultden/vaultden/pkg/vault/acl"
)

// AccessHandler exposes access decisions over HTTP.
type AccessHandler struct {
	gate *acl.Gate
}

// NewAccessHandler creates a new AccessHandler.
func NewAccessHandler(gate *acl.Gate) *AccessHandler {
	return &AccessHandler{gate: gate}
}

// CheckAccessRequest is the request body for access check endpoints.
type CheckAccessRequest struct {
	// RequiredPermissions are the permissions the caller must hold. Empty
	// means any grant on the resource suffices.
	RequiredPermissions []string `json:"required_permissions,omitempty"`
}

// CheckVault handles POST /api/v1/access/vaults/{id}.
// Decides whether the authenticated user may access the vault.
func (h *AccessHandler) CheckVault(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	identity, req, ok := h.decodeCheck(w, r)
	if !ok {
		return
	}

	decision, err := h.gate.CheckVaultAccess(r.Context(), id, identity, req.RequiredPermissions)
	if err != nil {
		InternalServerError(w, "Failed to evaluate access")
		return
	}

	WriteJSONOK(w, decision)
}

// CheckFolder handles POST /api/v1/access/folders/{id}.
// Decides whether the authenticated user may access the folder, including
// inherited and vault-scope grants.
func (h *AccessHandler) CheckFolder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	identity, req, ok := h.decodeCheck(w, r)
	if !ok {
		return
	}

	decision, err := h.gate.CheckFolderAccess(r.Context(), id, identity, acl.FolderAccessOptions{
		RequiredPermissions: req.RequiredPermissions,
	})
	if err != nil {
		InternalServerError(w, "Failed to evaluate access")
		return
	}

	WriteJSONOK(w, decision)
}

// CheckItem handles POST /api/v1/access/items/{id}.
// Decides whether the authenticated user may access the item, combining
// direct grants with the containing folder's effective grants.
func (h *AccessHandler) CheckItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	identity, req, ok := h.decodeCheck(w, r)
	if !ok {
		return
	}

	decision, err := h.gate.CheckItemAccess(r.Context(), id, identity, req.RequiredPermissions)
	if err != nil {
		InternalServerError(w, "Failed to evaluate access")
		return
	}

	WriteJSONOK(w, decision)
}

// PrincipalsResponse is the response body for GET /api/v1/access/principals.
type PrincipalsResponse struct {
	UserID   string   `json:"user_id,omitempty"`
	Email    string   `json:"email,omitempty"`
	GroupIDs []string `json:"group_ids,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// Principals handles GET /api/v1/access/principals.
// Returns the principal set the authenticated user's grants are matched
// against. Useful for debugging why a grant does or does not apply.
func (h *AccessHandler) Principals(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		Unauthorized(w, "Authentication required")
		return
	}

	ps := h.gate.Resolver().Resolve(r.Context(), claims.Identity())
	WriteJSONOK(w, PrincipalsResponse{
		UserID:   ps.UserID,
		Email:    ps.Email,
		GroupIDs: ps.GroupIDs,
		Roles:    ps.Roles,
	})
}

// decodeCheck extracts the caller identity and the optional request body.
// A missing or empty body means a bare access check.
func (h *AccessHandler) decodeCheck(w http.ResponseWriter, r *http.Request) (acl.Identity, CheckAccessRequest, bool) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		Unauthorized(w, "Authentication required")
		return acl.Identity{}, CheckAccessRequest{}, false
	}

	var req CheckAccessRequest
	if r.Body != nil && r.ContentLength != 0 {
		if !decodeJSONBody(w, r, &req) {
			return acl.Identity{}, CheckAccessRequest{}, false
		}
	}

	return claims.Identity(), req, true
}
