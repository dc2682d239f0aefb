package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vaultden/vaultden/pkg/vault/models"
)

// ============================================
// ITEM OPERATIONS
// ============================================

func (s *GORMStore) GetItem(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, convertNotFoundError(err, models.ErrItemNotFound)
	}
	return &item, nil
}

func (s *GORMStore) ListItems(ctx context.Context, vaultID string, folderID *string) ([]*models.Item, error) {
	query := s.db.WithContext(ctx).Where("vault_id = ?", vaultID)
	if folderID != nil {
		query = query.Where("folder_id = ?", *folderID)
	}

	var items []*models.Item
	if err := query.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *GORMStore) CreateItem(ctx context.Context, item *models.Item) (string, error) {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vault models.Vault
		if err := tx.Select("id").Where("id = ?", item.VaultID).First(&vault).Error; err != nil {
			return convertNotFoundError(err, models.ErrVaultNotFound)
		}

		if item.FolderID != nil {
			var folder models.Folder
			if err := tx.Where("id = ?", *item.FolderID).First(&folder).Error; err != nil {
				return convertNotFoundError(err, models.ErrFolderNotFound)
			}
			if folder.VaultID != item.VaultID {
				item.FolderID = nil
			}
		}
		return tx.Create(item).Error
	})
	if err != nil {
		return "", err
	}
	return item.ID, nil
}

func (s *GORMStore) UpdateItem(ctx context.Context, item *models.Item) error {
	item.UpdatedAt = time.Now()

	result := s.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"name":       item.Name,
			"kind":       item.Kind,
			"folder_id":  item.FolderID,
			"updated_at": item.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrItemNotFound
	}
	return nil
}

func (s *GORMStore) DeleteItem(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.Where("id = ?", id).First(&item).Error; err != nil {
			return convertNotFoundError(err, models.ErrItemNotFound)
		}

		if err := tx.Where("resource_type = ? AND resource_id = ?", models.ResourceItem, id).
			Delete(&models.ACLEntry{}).Error; err != nil {
			return err
		}

		return tx.Delete(&item).Error
	})
}
