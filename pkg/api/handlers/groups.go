package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vaultden/vaultden/pkg/vault/models"
	"github.com/vaultden/vaultden/pkg/vault/store"
)

// GroupHandler handles static group management API endpoints.
type GroupHandler struct {
	store store.Store
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(s store.Store) *GroupHandler {
	return &GroupHandler{store: s}
}

// CreateGroupRequest is the request body for POST /api/v1/groups.
type CreateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// AddGroupMemberRequest is the request body for POST /api/v1/groups/{id}/members.
type AddGroupMemberRequest struct {
	// MemberKey is the user id or email to add.
	MemberKey string `json:"member_key"`
}

// GroupResponse is the response body for group endpoints.
type GroupResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Members     []string  `json:"members,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func groupToResponse(g *models.Group) GroupResponse {
	members := make([]string, len(g.Members))
	for i, m := range g.Members {
		members[i] = m.MemberKey
	}
	return GroupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Members:     members,
		CreatedAt:   g.CreatedAt,
	}
}

// Create handles POST /api/v1/groups (admin only).
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateGroupRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if req.Name == "" {
		BadRequest(w, "Group name is required")
		return
	}

	group := &models.Group{
		Name:        req.Name,
		Description: req.Description,
	}

	if _, err := h.store.CreateGroup(r.Context(), group); err != nil {
		if errors.Is(err, models.ErrDuplicateGroup) {
			Conflict(w, "Group already exists")
			return
		}
		InternalServerError(w, "Failed to create group")
		return
	}

	WriteJSONCreated(w, groupToResponse(group))
}

// List handles GET /api/v1/groups (admin only).
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	groups, err := h.store.ListGroups(r.Context())
	if err != nil {
		InternalServerError(w, "Failed to list groups")
		return
	}

	response := make([]GroupResponse, len(groups))
	for i, g := range groups {
		response[i] = groupToResponse(g)
	}

	WriteJSONOK(w, response)
}

// Get handles GET /api/v1/groups/{id} (admin only).
func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	group, err := h.store.GetGroup(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrGroupNotFound) {
			NotFound(w, "Group not found")
			return
		}
		InternalServerError(w, "Failed to get group")
		return
	}

	WriteJSONOK(w, groupToResponse(group))
}

// Delete handles DELETE /api/v1/groups/{id} (admin only).
func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteGroup(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrGroupNotFound) {
			NotFound(w, "Group not found")
			return
		}
		InternalServerError(w, "Failed to delete group")
		return
	}

	WriteNoContent(w)
}

// AddMember handles POST /api/v1/groups/{id}/members (admin only).
// Adding an existing member is a no-op.
func (h *GroupHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req AddGroupMemberRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.MemberKey == "" {
		BadRequest(w, "member_key is required")
		return
	}

	if _, err := h.store.GetGroup(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrGroupNotFound) {
			NotFound(w, "Group not found")
			return
		}
		InternalServerError(w, "Failed to get group")
		return
	}

	if err := h.store.AddGroupMember(r.Context(), id, req.MemberKey); err != nil {
		InternalServerError(w, "Failed to add group member")
		return
	}

	WriteNoContent(w)
}

// RemoveMember handles DELETE /api/v1/groups/{id}/members/{key} (admin only).
func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	key := chi.URLParam(r, "key")

	if err := h.store.RemoveGroupMember(r.Context(), id, key); err != nil {
		InternalServerError(w, "Failed to remove group member")
		return
	}

	WriteNoContent(w)
}
