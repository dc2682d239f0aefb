package store

import (
	"context"

	"github.com/vaultden/vaultden/pkg/vault/models"
)

// Store provides the vault persistence interface.
//
// Thread Safety: Implementations must be safe for concurrent use from
// multiple goroutines. All access-control reads are point lookups or
// small bounded queries; the access-control core never writes.
type Store interface {
	// ============================================
	// VAULT OPERATIONS
	// ============================================

	// GetVault returns a vault by id.
	// Returns models.ErrVaultNotFound if the vault doesn't exist.
	GetVault(ctx context.Context, id string) (*models.Vault, error)

	// ListVaults returns all vaults.
	ListVaults(ctx context.Context) ([]*models.Vault, error)

	// ListVaultsByOwner returns all vaults owned by the given user.
	ListVaultsByOwner(ctx context.Context, ownerUserID string) ([]*models.Vault, error)

	// CreateVault creates a new vault. The ID is generated if empty.
	// Returns the generated ID.
	// Returns models.ErrDuplicateVault if the owner already has a vault of
	// the same type.
	CreateVault(ctx context.Context, vault *models.Vault) (string, error)

	// UpdateVault updates an existing vault's name.
	// Returns models.ErrVaultNotFound if the vault doesn't exist.
	UpdateVault(ctx context.Context, vault *models.Vault) error

	// DeleteVault deletes a vault and everything in it: folders, items, and
	// ACL entries scoped to any of them.
	// Returns models.ErrVaultNotFound if the vault doesn't exist.
	DeleteVault(ctx context.Context, id string) error

	// ============================================
	// FOLDER OPERATIONS
	// ============================================

	// GetFolder returns a folder by id.
	// Returns models.ErrFolderNotFound if the folder doesn't exist.
	GetFolder(ctx context.Context, id string) (*models.Folder, error)

	// ListFolders returns all folders in a vault.
	ListFolders(ctx context.Context, vaultID string) ([]*models.Folder, error)

	// ListChildFolders returns all folders whose ParentID is in parentIDs.
	// Used by the descendant expander's breadth-first walk.
	ListChildFolders(ctx context.Context, parentIDs []string) ([]*models.Folder, error)

	// CreateFolder creates a new folder. The ID is generated if empty and
	// Path is recomputed from the parent chain. Returns the generated ID.
	CreateFolder(ctx context.Context, folder *models.Folder) (string, error)

	// UpdateFolder updates a folder's name and parent, recomputing Path.
	// Returns models.ErrFolderNotFound if the folder doesn't exist.
	UpdateFolder(ctx context.Context, folder *models.Folder) error

	// DeleteFolder deletes a folder. Items in the folder are detached to the
	// vault root; child folders are re-parented to the deleted folder's parent.
	// Returns models.ErrFolderNotFound if the folder doesn't exist.
	DeleteFolder(ctx context.Context, id string) error

	// ============================================
	// ITEM OPERATIONS
	// ============================================

	// GetItem returns an item by id.
	// Returns models.ErrItemNotFound if the item doesn't exist.
	GetItem(ctx context.Context, id string) (*models.Item, error)

	// ListItems returns all items in a vault, optionally filtered by folder.
	ListItems(ctx context.Context, vaultID string, folderID *string) ([]*models.Item, error)

	// CreateItem creates a new item. The ID is generated if empty.
	// Returns the generated ID.
	CreateItem(ctx context.Context, item *models.Item) (string, error)

	// UpdateItem updates an item's name, kind, and folder.
	// Returns models.ErrItemNotFound if the item doesn't exist.
	UpdateItem(ctx context.Context, item *models.Item) error

	// DeleteItem deletes an item and its ACL entries.
	// Returns models.ErrItemNotFound if the item doesn't exist.
	DeleteItem(ctx context.Context, id string) error

	// ============================================
	// ACL ENTRY OPERATIONS
	// ============================================

	// FindACLEntries returns all ACL entries on the given resource whose
	// PrincipalID matches any of principalIDs. Passing no principalIDs
	// returns no entries.
	FindACLEntries(ctx context.Context, resourceType models.ResourceType, resourceID string, principalIDs []string) ([]*models.ACLEntry, error)

	// ListACLEntries returns all ACL entries on the given resource.
	ListACLEntries(ctx context.Context, resourceType models.ResourceType, resourceID string) ([]*models.ACLEntry, error)

	// CreateACLEntry creates a new grant. The ID is generated if empty.
	// Returns the generated ID.
	CreateACLEntry(ctx context.Context, entry *models.ACLEntry) (string, error)

	// DeleteACLEntry deletes a grant by id.
	// Returns models.ErrACLEntryNotFound if the entry doesn't exist.
	DeleteACLEntry(ctx context.Context, id string) error

	// ============================================
	// GROUP OPERATIONS
	// ============================================

	// GetGroup returns a group by id with members preloaded.
	// Returns models.ErrGroupNotFound if the group doesn't exist.
	GetGroup(ctx context.Context, id string) (*models.Group, error)

	// ListGroups returns all groups.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// CreateGroup creates a new group. The ID is generated if empty.
	// Returns the generated ID.
	// Returns models.ErrDuplicateGroup if a group with the same name exists.
	CreateGroup(ctx context.Context, group *models.Group) (string, error)

	// DeleteGroup deletes a group and its memberships.
	// Returns models.ErrGroupNotFound if the group doesn't exist.
	DeleteGroup(ctx context.Context, id string) error

	// AddGroupMember adds a member key (user id or email) to a group.
	// No error if the member is already present.
	AddGroupMember(ctx context.Context, groupID, memberKey string) error

	// RemoveGroupMember removes a member key from a group.
	// No error if the member was not present.
	RemoveGroupMember(ctx context.Context, groupID, memberKey string) error

	// ListGroupIDsByMember returns the distinct group ids that have any of
	// memberKeys as a member. A user may be recorded by id or email, so
	// callers pass both.
	ListGroupIDsByMember(ctx context.Context, memberKeys []string) ([]string, error)

	// ============================================
	// HEALTH & LIFECYCLE
	// ============================================

	// Healthcheck verifies the store is operational.
	Healthcheck(ctx context.Context) error

	// Close closes the store and releases resources.
	Close() error
}
