package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vaultden/vaultden/pkg/vault/models"
)

// ============================================
// FOLDER OPERATIONS
// ============================================

func (s *GORMStore) GetFolder(ctx context.Context, id string) (*models.Folder, error) {
	var folder models.Folder
	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&folder).Error
	if err != nil {
		return nil, convertNotFoundError(err, models.ErrFolderNotFound)
	}
	return &folder, nil
}

func (s *GORMStore) ListFolders(ctx context.Context, vaultID string) ([]*models.Folder, error) {
	var folders []*models.Folder
	if err := s.db.WithContext(ctx).
		Where("vault_id = ?", vaultID).
		Order("path ASC").
		Find(&folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}

func (s *GORMStore) ListChildFolders(ctx context.Context, parentIDs []string) ([]*models.Folder, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var folders []*models.Folder
	if err := s.db.WithContext(ctx).
		Where("parent_id IN ?", parentIDs).
		Find(&folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}

func (s *GORMStore) CreateFolder(ctx context.Context, folder *models.Folder) (string, error) {
	if folder.ID == "" {
		folder.ID = uuid.New().String()
	}
	now := time.Now()
	folder.CreatedAt = now
	folder.UpdatedAt = now

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vault models.Vault
		if err := tx.Select("id").Where("id = ?", folder.VaultID).First(&vault).Error; err != nil {
			return convertNotFoundError(err, models.ErrVaultNotFound)
		}

		path, err := computeFolderPath(tx, folder)
		if err != nil {
			return err
		}
		folder.Path = path
		return tx.Create(folder).Error
	})
	if err != nil {
		return "", err
	}
	return folder.ID, nil
}

func (s *GORMStore) UpdateFolder(ctx context.Context, folder *models.Folder) error {
	folder.UpdatedAt = time.Now()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Folder
		if err := tx.Where("id = ?", folder.ID).First(&existing).Error; err != nil {
			return convertNotFoundError(err, models.ErrFolderNotFound)
		}

		folder.VaultID = existing.VaultID
		path, err := computeFolderPath(tx, folder)
		if err != nil {
			return err
		}
		folder.Path = path

		if err := tx.Model(&models.Folder{}).
			Where("id = ?", folder.ID).
			Updates(map[string]any{
				"name":       folder.Name,
				"parent_id":  folder.ParentID,
				"path":       folder.Path,
				"updated_at": folder.UpdatedAt,
			}).Error; err != nil {
			return err
		}

		// Renames and moves invalidate every descendant's materialized path.
		return recomputeDescendantPaths(tx, folder.ID, folder.Path)
	})
}

func (s *GORMStore) DeleteFolder(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var folder models.Folder
		if err := tx.Where("id = ?", id).First(&folder).Error; err != nil {
			return convertNotFoundError(err, models.ErrFolderNotFound)
		}

		// Items fall back to the vault root; children adopt the grandparent.
		if err := tx.Model(&models.Item{}).
			Where("folder_id = ?", id).
			Update("folder_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Folder{}).
			Where("parent_id = ?", id).
			Update("parent_id", folder.ParentID).Error; err != nil {
			return err
		}

		if err := tx.Where("resource_type = ? AND resource_id = ?", models.ResourceFolder, id).
			Delete(&models.ACLEntry{}).Error; err != nil {
			return err
		}

		return tx.Delete(&folder).Error
	})
}

// computeFolderPath walks the parent chain to build the materialized path.
// The path is advisory display data; access decisions only ever follow
// ParentID edges.
func computeFolderPath(tx *gorm.DB, folder *models.Folder) (string, error) {
	if folder.ParentID == nil {
		return "/" + folder.Name, nil
	}

	seen := map[string]bool{folder.ID: true}
	segments := []string{folder.Name}
	parentID := folder.ParentID
	for parentID != nil {
		if seen[*parentID] {
			return "", fmt.Errorf("folder %s is its own ancestor", folder.ID)
		}
		seen[*parentID] = true

		var parent models.Folder
		if err := tx.Where("id = ?", *parentID).First(&parent).Error; err != nil {
			return "", convertNotFoundError(err, models.ErrFolderNotFound)
		}
		if parent.VaultID != folder.VaultID {
			return "", fmt.Errorf("parent folder %s belongs to a different vault", parent.ID)
		}
		segments = append([]string{parent.Name}, segments...)
		parentID = parent.ParentID
	}

	path := ""
	for _, seg := range segments {
		path += "/" + seg
	}
	return path, nil
}

// recomputeDescendantPaths rewrites the materialized path of every folder
// below rootID after a rename or move, one tree level at a time.
func recomputeDescendantPaths(tx *gorm.DB, rootID, rootPath string) error {
	type frontier struct {
		id   string
		path string
	}

	level := []frontier{{id: rootID, path: rootPath}}
	for len(level) > 0 {
		ids := make([]string, len(level))
		paths := make(map[string]string, len(level))
		for i, f := range level {
			ids[i] = f.id
			paths[f.id] = f.path
		}

		var children []models.Folder
		if err := tx.Where("parent_id IN ?", ids).Find(&children).Error; err != nil {
			return err
		}

		next := make([]frontier, 0, len(children))
		for i := range children {
			child := &children[i]
			newPath := paths[*child.ParentID] + "/" + child.Name
			if err := tx.Model(&models.Folder{}).
				Where("id = ?", child.ID).
				Update("path", newPath).Error; err != nil {
				return err
			}
			next = append(next, frontier{id: child.ID, path: newPath})
		}
		level = next
	}
	return nil
}
