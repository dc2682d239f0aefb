package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vaultden/vaultden/pkg/vault/models"
)

// ============================================
// GROUP OPERATIONS
// ============================================

func (s *GORMStore) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	var group models.Group
	err := s.db.WithContext(ctx).
		Preload("Members").
		Where("id = ?", id).
		First(&group).Error
	if err != nil {
		return nil, convertNotFoundError(err, models.ErrGroupNotFound)
	}
	return &group, nil
}

func (s *GORMStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	var groups []*models.Group
	if err := s.db.WithContext(ctx).
		Preload("Members").
		Order("name ASC").
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *GORMStore) CreateGroup(ctx context.Context, group *models.Group) (string, error) {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	group.CreatedAt = time.Now()

	if err := s.db.WithContext(ctx).Create(group).Error; err != nil {
		if isUniqueConstraintError(err) {
			return "", models.ErrDuplicateGroup
		}
		return "", err
	}
	return group.ID, nil
}

func (s *GORMStore) DeleteGroup(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var group models.Group
		if err := tx.Where("id = ?", id).First(&group).Error; err != nil {
			return convertNotFoundError(err, models.ErrGroupNotFound)
		}

		if err := tx.Where("group_id = ?", id).Delete(&models.GroupMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&group).Error
	})
}

func (s *GORMStore) AddGroupMember(ctx context.Context, groupID, memberKey string) error {
	// Email member keys are stored lowercased so they match the lowercased
	// email the resolver looks up with.
	memberKey = models.NormalizePrincipalKey(memberKey)

	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.GroupMember{}).
		Where("group_id = ? AND member_key = ?", groupID, memberKey).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	member := &models.GroupMember{
		ID:        uuid.New().String(),
		GroupID:   groupID,
		MemberKey: memberKey,
		CreatedAt: time.Now(),
	}
	return s.db.WithContext(ctx).Create(member).Error
}

func (s *GORMStore) RemoveGroupMember(ctx context.Context, groupID, memberKey string) error {
	return s.db.WithContext(ctx).
		Where("group_id = ? AND member_key = ?", groupID, models.NormalizePrincipalKey(memberKey)).
		Delete(&models.GroupMember{}).Error
}

func (s *GORMStore) ListGroupIDsByMember(ctx context.Context, memberKeys []string) ([]string, error) {
	if len(memberKeys) == 0 {
		return nil, nil
	}
	var groupIDs []string
	if err := s.db.WithContext(ctx).
		Model(&models.GroupMember{}).
		Distinct("group_id").
		Where("member_key IN ?", memberKeys).
		Pluck("group_id", &groupIDs).Error; err != nil {
		return nil, err
	}
	return groupIDs, nil
}
