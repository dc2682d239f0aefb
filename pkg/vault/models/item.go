package models

import (
	"fmt"
	"time"
)

// ItemKind identifies what a vault item stores.
type ItemKind string

const (
	// ItemKindCredential is a username/password pair.
	ItemKindCredential ItemKind = "credential"

	// ItemKindAPIKey is an API key or token.
	ItemKindAPIKey ItemKind = "api_key"

	// ItemKindNote is a secure note.
	ItemKindNote ItemKind = "note"

	// ItemKindTOTP is a TOTP seed.
	ItemKindTOTP ItemKind = "totp"
)

// IsValid returns true if this is a valid item kind.
func (k ItemKind) IsValid() bool {
	switch k {
	case ItemKindCredential, ItemKindAPIKey, ItemKindNote, ItemKindTOTP:
		return true
	default:
		return false
	}
}

// Item is a single secret stored in a vault, optionally nested in a folder.
// The secret payload itself is encrypted at rest and opaque to access control.
type Item struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	VaultID   string    `gorm:"not null;size:36;index" json:"vault_id"`
	FolderID  *string   `gorm:"size:36;index" json:"folder_id,omitempty"`
	Name      string    `gorm:"not null;size:255" json:"name"`
	Kind      ItemKind  `gorm:"not null;size:20" json:"kind"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for Item.
func (Item) TableName() string {
	return "items"
}

// Validate checks if the item has valid configuration.
func (i *Item) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("item name is required")
	}
	if i.VaultID == "" {
		return fmt.Errorf("item vault is required")
	}
	if !i.Kind.IsValid() {
		return fmt.Errorf("invalid item kind %q", i.Kind)
	}
	return nil
}
