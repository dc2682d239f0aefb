package acl

import (
	"context"
	"errors"

	"github.com/vaultden/vaultden/internal/logger"
	"github.com/vaultden/vaultden/pkg/vault/models"
)

// EffectiveFolderACLs collects every ACL entry that applies to a folder for
// the given principals:
//
//   - entries granted directly on the folder,
//   - entries on ancestor folders marked as inheritable, walking parent
//     links up to the root,
//   - entries granted at vault scope, which always apply regardless of the
//     inherit flag.
//
// The ancestor walk stays within the folder's vault and stops early on a
// broken parent chain or a cycle; grants already collected are kept.
func (g *Gate) EffectiveFolderACLs(ctx context.Context, folder *models.Folder, principalIDs []string) ([]*models.ACLEntry, error) {
	entries, err := g.store.FindACLEntries(ctx, models.ResourceFolder, folder.ID, principalIDs)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{folder.ID: {}}
	parentID := folder.ParentID
	for parentID != nil && *parentID != "" {
		if _, ok := seen[*parentID]; ok {
			logger.WarnCtx(ctx, "folder hierarchy contains a cycle, stopping ancestor walk",
				"folder_id", folder.ID, "ancestor_id", *parentID)
			break
		}
		seen[*parentID] = struct{}{}

		ancestor, err := g.store.GetFolder(ctx, *parentID)
		if errors.Is(err, models.ErrFolderNotFound) {
			logger.WarnCtx(ctx, "folder parent chain is broken, stopping ancestor walk",
				"folder_id", folder.ID, "missing_ancestor_id", *parentID)
			break
		}
		if err != nil {
			return nil, err
		}
		if ancestor.VaultID != folder.VaultID {
			logger.WarnCtx(ctx, "folder parent belongs to another vault, stopping ancestor walk",
				"folder_id", folder.ID, "ancestor_id", ancestor.ID)
			break
		}

		ancestorEntries, err := g.store.FindACLEntries(ctx, models.ResourceFolder, ancestor.ID, principalIDs)
		if err != nil {
			return nil, err
		}
		for _, entry := range ancestorEntries {
			if entry.Inherit {
				entries = append(entries, entry)
			}
		}

		parentID = ancestor.ParentID
	}

	vaultEntries, err := g.store.FindACLEntries(ctx, models.ResourceVault, folder.VaultID, principalIDs)
	if err != nil {
		return nil, err
	}
	entries = append(entries, vaultEntries...)

	return entries, nil
}

// mergeEntryPermissions unions the permission sets of the given entries and
// expands the result down the permission hierarchy.
func mergeEntryPermissions(entries []*models.ACLEntry) []models.Permission {
	if len(entries) == 0 {
		return nil
	}
	sets := make([][]string, len(entries))
	for i, entry := range entries {
		sets[i] = entry.Permissions
	}
	return models.MergePermissions(sets...)
}
