// Package acl implements access-control resolution for vaults, folders, and
// items: principal resolution, folder-hierarchy inheritance, permission
// merging, and the top-level allow/deny decision.
//
// The package is read-only over storage and holds no state between requests.
// All grants are combined by union: a more specific grant never revokes a
// broader inherited one. The merged permission set always satisfies the
// hierarchy DELETE implies READ_WRITE implies READ_ONLY.
package acl

import (
	"context"
	"slices"
	"strings"

	"github.com/vaultden/vaultden/pkg/vault/models"
)

// RoleAdmin is the role name that activates the admin shortcuts.
const RoleAdmin = "admin"

// Decision reasons returned to callers. These strings are user-safe and may
// be surfaced in API responses.
const (
	ReasonVaultNotFound      = "Vault not found"
	ReasonFolderNotFound     = "Folder not found"
	ReasonItemNotFound       = "Item not found"
	ReasonNoPrincipals       = "No principals found"
	ReasonNoACLPermissions   = "No ACL permissions found"
	ReasonMissingPermissions = "Missing required permissions"
)

// Store is the subset of the storage layer the access-control core reads.
// The core never writes.
type Store interface {
	GetVault(ctx context.Context, id string) (*models.Vault, error)
	GetFolder(ctx context.Context, id string) (*models.Folder, error)
	GetItem(ctx context.Context, id string) (*models.Item, error)
	ListChildFolders(ctx context.Context, parentIDs []string) ([]*models.Folder, error)
	FindACLEntries(ctx context.Context, resourceType models.ResourceType, resourceID string, principalIDs []string) ([]*models.ACLEntry, error)
	ListGroupIDsByMember(ctx context.Context, memberKeys []string) ([]string, error)
}

// Directory provides dynamic group membership from an external identity
// service. Implementations must treat "user unknown" as an empty result;
// any other failure is returned as an error and degraded by the resolver.
type Directory interface {
	GroupsForEmail(ctx context.Context, email string) ([]string, error)
}

// Identity is the authenticated caller, threaded explicitly into every
// check. There is no ambient "current user".
type Identity struct {
	// Sub is the stable user id (the JWT subject).
	Sub string

	// Email is the user's email address, if known.
	Email string

	// Roles are the role names carried by the identity.
	Roles []string
}

// IsAdmin reports whether the identity carries the admin role.
func (id Identity) IsAdmin() bool {
	return slices.Contains(id.Roles, RoleAdmin)
}

// PrincipalSet is the derived set of identifiers grants are matched against:
// the user id, the email, every group id, and every role name.
type PrincipalSet struct {
	UserID   string
	Email    string
	GroupIDs []string
	Roles    []string
}

// IsEmpty reports whether the set contains no matchable identifier.
func (p PrincipalSet) IsEmpty() bool {
	return p.UserID == "" && p.Email == "" && len(p.GroupIDs) == 0 && len(p.Roles) == 0
}

// IDs returns every matchable identifier in the set.
func (p PrincipalSet) IDs() []string {
	ids := make([]string, 0, 2+len(p.GroupIDs)+len(p.Roles))
	if p.UserID != "" {
		ids = append(ids, p.UserID)
	}
	if p.Email != "" {
		ids = append(ids, p.Email)
	}
	ids = append(ids, p.GroupIDs...)
	ids = append(ids, p.Roles...)
	return ids
}

// Decision is the outcome of an access check. Reason is set only on deny.
type Decision struct {
	HasAccess bool   `json:"has_access"`
	Reason    string `json:"reason,omitempty"`
}

func allow() Decision {
	return Decision{HasAccess: true}
}

func deny(reason string) Decision {
	return Decision{HasAccess: false, Reason: reason}
}

// Policy captures the deployment-level access policy choices.
type Policy struct {
	// SharedVaultOwnerAccess grants the owner of a shared vault bare access
	// (no required permissions) without an ACL grant. The default is strict:
	// shared-vault ownership is metadata only and every capability must be
	// granted explicitly.
	SharedVaultOwnerAccess bool `mapstructure:"shared_vault_owner_access" yaml:"shared_vault_owner_access"`
}

// Gate evaluates access decisions for vaults, folders, and items.
type Gate struct {
	store    Store
	resolver *Resolver
	policy   Policy
	metrics  *Metrics
}

// NewGate creates a new access decision gate. directory may be nil when no
// external identity service is configured; metrics may be nil to disable
// instrumentation.
func NewGate(store Store, directory Directory, policy Policy, metrics *Metrics) *Gate {
	return &Gate{
		store:    store,
		resolver: NewResolver(store, directory, metrics),
		policy:   policy,
		metrics:  metrics,
	}
}

// Resolver returns the gate's principal resolver.
func (g *Gate) Resolver() *Resolver {
	return g.resolver
}

// normalizeEmail lowercases an email for case-insensitive matching.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
