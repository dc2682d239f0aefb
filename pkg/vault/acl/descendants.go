package acl

import (
	"context"

	"github.com/vaultden/vaultden/internal/logger"
)

// DescendantFolderIDs expands a set of folder ids to include every folder
// nested beneath them, at any depth. The result always contains the seed ids
// themselves, with no duplicates; expanding twice is a no-op. Seed order is
// preserved, with descendants appended in breadth-first discovery order.
//
// The walk follows parent links via the store and tolerates cycles: a folder
// already visited is skipped with a warning rather than looping forever.
func DescendantFolderIDs(ctx context.Context, store Store, folderIDs []string) ([]string, error) {
	if len(folderIDs) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{}, len(folderIDs))
	result := make([]string, 0, len(folderIDs))
	frontier := make([]string, 0, len(folderIDs))

	for _, id := range folderIDs {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
		frontier = append(frontier, id)
	}

	for len(frontier) > 0 {
		children, err := store.ListChildFolders(ctx, frontier)
		if err != nil {
			return nil, err
		}

		frontier = frontier[:0]
		for _, child := range children {
			if _, ok := seen[child.ID]; ok {
				logger.WarnCtx(ctx, "folder hierarchy contains a cycle, skipping revisited folder",
					"folder_id", child.ID)
				continue
			}
			seen[child.ID] = struct{}{}
			result = append(result, child.ID)
			frontier = append(frontier, child.ID)
		}
	}

	return result, nil
}
