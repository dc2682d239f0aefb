package models

import (
	"fmt"
	"time"
)

// Group is a named set of principals used as a grant target.
//
// Static membership is recorded in GroupMember rows. A member may be keyed
// by user id or by email (older rows used email, newer ones the stable user
// id), so membership lookups must match either key.
type Group struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;size:255" json:"name"`
	Description string    `gorm:"size:1024" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	Members []GroupMember `gorm:"foreignKey:GroupID" json:"members,omitempty"`
}

// TableName returns the table name for Group.
func (Group) TableName() string {
	return "groups"
}

// Validate checks if the group has valid configuration.
func (g *Group) Validate() error {
	if g.Name == "" {
		return fmt.Errorf("group name is required")
	}
	return nil
}

// GroupMember records static membership of a principal in a group.
// MemberKey holds either a user id or an email address.
type GroupMember struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	GroupID   string    `gorm:"not null;size:36;index" json:"group_id"`
	MemberKey string    `gorm:"not null;size:255;index" json:"member_key"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for GroupMember.
func (GroupMember) TableName() string {
	return "group_members"
}
