package acl

import (
	"context"
	"errors"
	"time"

	"github.com/vaultden/vaultden/internal/logger"
	"github.com/vaultden/vaultden/pkg/vault/models"
)

// FolderAccessOptions tunes a folder access check.
type FolderAccessOptions struct {
	// RequiredPermissions are the permissions the caller must hold. Empty
	// means "any access": the caller only needs some grant on the folder.
	RequiredPermissions []string

	// CheckInheritance is kept for callers that set it explicitly. The
	// inheritance walk is always performed; disabling it would let a child
	// folder silently escape grants placed on its ancestors.
	CheckInheritance bool
}

// CheckVaultAccess decides whether the identity may access the vault with
// the required permissions. Empty requiredPermissions means any grant on the
// vault suffices.
func (g *Gate) CheckVaultAccess(ctx context.Context, vaultID string, identity Identity, requiredPermissions []string) (Decision, error) {
	start := time.Now()
	decision, err := g.checkVaultAccess(ctx, vaultID, identity, requiredPermissions)
	g.metrics.ObserveCheck("vault", decision, err, time.Since(start))
	return decision, err
}

func (g *Gate) checkVaultAccess(ctx context.Context, vaultID string, identity Identity, requiredPermissions []string) (Decision, error) {
	vault, err := g.store.GetVault(ctx, vaultID)
	if errors.Is(err, models.ErrVaultNotFound) {
		return deny(ReasonVaultNotFound), nil
	}
	if err != nil {
		return Decision{}, err
	}

	if d, ok := g.vaultShortcut(vault, identity, requiredPermissions); ok {
		return d, nil
	}

	principals := g.resolver.Resolve(ctx, identity)
	if principals.IsEmpty() {
		return deny(ReasonNoPrincipals), nil
	}

	entries, err := g.store.FindACLEntries(ctx, models.ResourceVault, vaultID, principals.IDs())
	if err != nil {
		return Decision{}, err
	}

	return decide(entries, requiredPermissions), nil
}

// CheckFolderAccess decides whether the identity may access the folder with
// the required permissions. Grants are collected from the folder itself,
// inheritable grants on its ancestors, and vault-scope grants.
func (g *Gate) CheckFolderAccess(ctx context.Context, folderID string, identity Identity, opts FolderAccessOptions) (Decision, error) {
	start := time.Now()
	decision, err := g.checkFolderAccess(ctx, folderID, identity, opts)
	g.metrics.ObserveCheck("folder", decision, err, time.Since(start))
	return decision, err
}

func (g *Gate) checkFolderAccess(ctx context.Context, folderID string, identity Identity, opts FolderAccessOptions) (Decision, error) {
	folder, err := g.store.GetFolder(ctx, folderID)
	if errors.Is(err, models.ErrFolderNotFound) {
		return deny(ReasonFolderNotFound), nil
	}
	if err != nil {
		return Decision{}, err
	}

	vault, err := g.store.GetVault(ctx, folder.VaultID)
	if errors.Is(err, models.ErrVaultNotFound) {
		return deny(ReasonVaultNotFound), nil
	}
	if err != nil {
		return Decision{}, err
	}

	if vault.IsPersonal() && vault.IsOwner(identity.Sub) {
		return allow(), nil
	}
	// Admins bypass folder checks only when no specific permission is
	// demanded. A check for concrete permissions goes through the ACLs
	// like everyone else's.
	if identity.IsAdmin() && vault.IsShared() && len(opts.RequiredPermissions) == 0 {
		return allow(), nil
	}
	if g.policy.SharedVaultOwnerAccess && vault.IsShared() && vault.IsOwner(identity.Sub) && len(opts.RequiredPermissions) == 0 {
		return allow(), nil
	}

	principals := g.resolver.Resolve(ctx, identity)
	if principals.IsEmpty() {
		return deny(ReasonNoPrincipals), nil
	}

	entries, err := g.EffectiveFolderACLs(ctx, folder, principals.IDs())
	if err != nil {
		return Decision{}, err
	}

	return decide(entries, opts.RequiredPermissions), nil
}

// CheckItemAccess decides whether the identity may access the item with the
// required permissions. Grants on the item are unioned with the effective
// grants of its containing folder, provided those folder grants establish
// access on their own.
func (g *Gate) CheckItemAccess(ctx context.Context, itemID string, identity Identity, requiredPermissions []string) (Decision, error) {
	start := time.Now()
	decision, err := g.checkItemAccess(ctx, itemID, identity, requiredPermissions)
	g.metrics.ObserveCheck("item", decision, err, time.Since(start))
	return decision, err
}

func (g *Gate) checkItemAccess(ctx context.Context, itemID string, identity Identity, requiredPermissions []string) (Decision, error) {
	item, err := g.store.GetItem(ctx, itemID)
	if errors.Is(err, models.ErrItemNotFound) {
		return deny(ReasonItemNotFound), nil
	}
	if err != nil {
		return Decision{}, err
	}

	vault, err := g.store.GetVault(ctx, item.VaultID)
	if errors.Is(err, models.ErrVaultNotFound) {
		return deny(ReasonVaultNotFound), nil
	}
	if err != nil {
		return Decision{}, err
	}

	if d, ok := g.vaultShortcut(vault, identity, requiredPermissions); ok {
		return d, nil
	}

	principals := g.resolver.Resolve(ctx, identity)
	if principals.IsEmpty() {
		return deny(ReasonNoPrincipals), nil
	}

	entries, err := g.store.FindACLEntries(ctx, models.ResourceItem, itemID, principals.IDs())
	if err != nil {
		return Decision{}, err
	}

	if item.FolderID != nil && *item.FolderID != "" {
		folder, err := g.store.GetFolder(ctx, *item.FolderID)
		if errors.Is(err, models.ErrFolderNotFound) {
			logger.WarnCtx(ctx, "item references a missing folder, skipping folder grants",
				"item_id", itemID, "folder_id", *item.FolderID)
		} else if err != nil {
			return Decision{}, err
		} else {
			folderEntries, err := g.EffectiveFolderACLs(ctx, folder, principals.IDs())
			if err != nil {
				return Decision{}, err
			}
			// Folder grants flow to the item only when they grant access to
			// the folder itself.
			if len(mergeEntryPermissions(folderEntries)) > 0 {
				entries = append(entries, folderEntries...)
			}
		}
	}

	return decide(entries, requiredPermissions), nil
}

// vaultShortcut applies the ownership and admin shortcuts shared by vault
// and item checks. It returns ok=false when the decision must fall through
// to ACL evaluation.
func (g *Gate) vaultShortcut(vault *models.Vault, identity Identity, requiredPermissions []string) (Decision, bool) {
	if vault.IsPersonal() && vault.IsOwner(identity.Sub) {
		return allow(), true
	}
	if identity.IsAdmin() && vault.IsShared() {
		return allow(), true
	}
	if g.policy.SharedVaultOwnerAccess && vault.IsShared() && vault.IsOwner(identity.Sub) && len(requiredPermissions) == 0 {
		return allow(), true
	}
	return Decision{}, false
}

// decide merges the permissions of the collected entries and compares them
// against the required set.
func decide(entries []*models.ACLEntry, requiredPermissions []string) Decision {
	merged := mergeEntryPermissions(entries)
	if len(merged) == 0 {
		return deny(ReasonNoACLPermissions)
	}
	if !models.ContainsAll(merged, requiredPermissions) {
		return deny(ReasonMissingPermissions)
	}
	return allow()
}
