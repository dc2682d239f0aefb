package models

import (
	"fmt"
	"time"
)

// Folder organizes items inside a vault. Folders form a tree per vault,
// rooted at ParentID == nil.
//
// ParentID is the sole source of truth for inheritance walks. Path is a
// materialized, slash-delimited ancestry string maintained by the storage
// layer for display; it is never trusted for access decisions.
type Folder struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	VaultID   string    `gorm:"not null;size:36;index" json:"vault_id"`
	ParentID  *string   `gorm:"size:36;index" json:"parent_id,omitempty"`
	Name      string    `gorm:"not null;size:255" json:"name"`
	Path      string    `gorm:"size:2048" json:"path"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for Folder.
func (Folder) TableName() string {
	return "folders"
}

// IsRoot returns true if this folder has no parent.
func (f *Folder) IsRoot() bool {
	return f.ParentID == nil
}

// Validate checks if the folder has valid configuration.
func (f *Folder) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("folder name is required")
	}
	if f.VaultID == "" {
		return fmt.Errorf("folder vault is required")
	}
	if f.ParentID != nil && *f.ParentID == f.ID {
		return fmt.Errorf("folder cannot be its own parent")
	}
	return nil
}
