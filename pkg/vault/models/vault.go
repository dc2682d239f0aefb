package models

import (
	"fmt"
	"time"
)

// VaultType distinguishes personal vaults from shared vaults.
//
// The distinction drives the access model. A personal vault's owner has
// full implicit rights, while a shared vault's owner holds none at all:
// every capability on a shared vault must come from an ACL grant or the
// admin role.
type VaultType string

const (
	// VaultTypePersonal is a single-owner private vault.
	VaultTypePersonal VaultType = "personal"

	// VaultTypeShared is a governed vault where access is ACL-driven.
	VaultTypeShared VaultType = "shared"
)

// IsValid returns true if this is a valid vault type.
func (t VaultType) IsValid() bool {
	return t == VaultTypePersonal || t == VaultTypeShared
}

// String returns the string representation of the vault type.
func (t VaultType) String() string {
	return string(t)
}

// Vault is the top-level container for folders and items.
type Vault struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"not null;size:255" json:"name"`
	Type        VaultType `gorm:"not null;size:20;index" json:"type"`
	OwnerUserID string    `gorm:"not null;size:255;index" json:"owner_user_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for Vault.
func (Vault) TableName() string {
	return "vaults"
}

// IsPersonal returns true for personal vaults.
func (v *Vault) IsPersonal() bool {
	return v.Type == VaultTypePersonal
}

// IsShared returns true for shared vaults.
func (v *Vault) IsShared() bool {
	return v.Type == VaultTypeShared
}

// IsOwner reports whether the given user id owns this vault. Ownership of a
// shared vault is metadata only and carries no implicit rights.
func (v *Vault) IsOwner(userID string) bool {
	return userID != "" && v.OwnerUserID == userID
}

// Validate checks if the vault has valid configuration.
func (v *Vault) Validate() error {
	if v.Name == "" {
		return fmt.Errorf("vault name is required")
	}
	if !v.Type.IsValid() {
		return fmt.Errorf("invalid vault type %q", v.Type)
	}
	if v.OwnerUserID == "" {
		return fmt.Errorf("vault owner is required")
	}
	return nil
}
