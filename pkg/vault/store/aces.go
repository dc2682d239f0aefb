package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vaultden/vaultden/pkg/vault/models"
)

// ============================================
// ACL ENTRY OPERATIONS
// ============================================

func (s *GORMStore) FindACLEntries(ctx context.Context, resourceType models.ResourceType, resourceID string, principalIDs []string) ([]*models.ACLEntry, error) {
	if len(principalIDs) == 0 {
		return nil, nil
	}
	var entries []*models.ACLEntry
	if err := s.db.WithContext(ctx).
		Where("resource_type = ? AND resource_id = ? AND principal_id IN ?",
			resourceType, resourceID, principalIDs).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *GORMStore) ListACLEntries(ctx context.Context, resourceType models.ResourceType, resourceID string) ([]*models.ACLEntry, error) {
	var entries []*models.ACLEntry
	if err := s.db.WithContext(ctx).
		Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *GORMStore) CreateACLEntry(ctx context.Context, entry *models.ACLEntry) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	// Grants keyed by email must match the lowercased email the resolver
	// produces, so email-shaped principal ids are stored lowercased.
	entry.PrincipalID = models.NormalizePrincipalKey(entry.PrincipalID)
	entry.CreatedAt = time.Now()

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return "", err
	}
	return entry.ID, nil
}

func (s *GORMStore) DeleteACLEntry(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.ACLEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrACLEntryNotFound
	}
	return nil
}
