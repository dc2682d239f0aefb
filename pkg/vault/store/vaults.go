package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vaultden/vaultden/pkg/vault/models"
)

// ============================================
// VAULT OPERATIONS
// ============================================

func (s *GORMStore) GetVault(ctx context.Context, id string) (*models.Vault, error) {
	var vault models.Vault
	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&vault).Error
	if err != nil {
		return nil, convertNotFoundError(err, models.ErrVaultNotFound)
	}
	return &vault, nil
}

func (s *GORMStore) ListVaults(ctx context.Context) ([]*models.Vault, error) {
	var vaults []*models.Vault
	if err := s.db.WithContext(ctx).Find(&vaults).Error; err != nil {
		return nil, err
	}
	return vaults, nil
}

func (s *GORMStore) ListVaultsByOwner(ctx context.Context, ownerUserID string) ([]*models.Vault, error) {
	var vaults []*models.Vault
	if err := s.db.WithContext(ctx).
		Where("owner_user_id = ?", ownerUserID).
		Find(&vaults).Error; err != nil {
		return nil, err
	}
	return vaults, nil
}

func (s *GORMStore) CreateVault(ctx context.Context, vault *models.Vault) (string, error) {
	if vault.ID == "" {
		vault.ID = uuid.New().String()
	}
	now := time.Now()
	vault.CreatedAt = now
	vault.UpdatedAt = now

	// One vault per type per owner.
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Vault{}).
		Where("owner_user_id = ? AND type = ?", vault.OwnerUserID, vault.Type).
		Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return "", models.ErrDuplicateVault
	}

	if err := s.db.WithContext(ctx).Create(vault).Error; err != nil {
		if isUniqueConstraintError(err) {
			return "", models.ErrDuplicateVault
		}
		return "", err
	}
	return vault.ID, nil
}

func (s *GORMStore) UpdateVault(ctx context.Context, vault *models.Vault) error {
	vault.UpdatedAt = time.Now()

	// Type and owner are immutable after creation.
	result := s.db.WithContext(ctx).
		Model(&models.Vault{}).
		Where("id = ?", vault.ID).
		Updates(map[string]any{
			"name":       vault.Name,
			"updated_at": vault.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrVaultNotFound
	}
	return nil
}

func (s *GORMStore) DeleteVault(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vault models.Vault
		if err := tx.Where("id = ?", id).First(&vault).Error; err != nil {
			return convertNotFoundError(err, models.ErrVaultNotFound)
		}

		var folderIDs []string
		if err := tx.Model(&models.Folder{}).
			Where("vault_id = ?", id).
			Pluck("id", &folderIDs).Error; err != nil {
			return err
		}

		var itemIDs []string
		if err := tx.Model(&models.Item{}).
			Where("vault_id = ?", id).
			Pluck("id", &itemIDs).Error; err != nil {
			return err
		}

		// Grants scoped to the vault or anything inside it.
		if err := tx.Where("resource_type = ? AND resource_id = ?", models.ResourceVault, id).
			Delete(&models.ACLEntry{}).Error; err != nil {
			return err
		}
		if len(folderIDs) > 0 {
			if err := tx.Where("resource_type = ? AND resource_id IN ?", models.ResourceFolder, folderIDs).
				Delete(&models.ACLEntry{}).Error; err != nil {
				return err
			}
		}
		if len(itemIDs) > 0 {
			if err := tx.Where("resource_type = ? AND resource_id IN ?", models.ResourceItem, itemIDs).
				Delete(&models.ACLEntry{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("vault_id = ?", id).Delete(&models.Item{}).Error; err != nil {
			return err
		}
		if err := tx.Where("vault_id = ?", id).Delete(&models.Folder{}).Error; err != nil {
			return err
		}

		return tx.Delete(&vault).Error
	})
}
