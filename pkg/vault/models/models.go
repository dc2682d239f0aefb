// Package models provides shared domain types for the vaultden service.
//
// It contains the entities access control computes over (vaults, folders,
// items, ACL entries, and groups) with GORM annotations for persistence,
// plus the canonical permission set and its normalization/merge rules.
package models

// AllModels returns all GORM models for auto-migration.
func AllModels() []any {
	return []any{
		&Vault{},
		&Folder{},
		&Item{},
		&ACLEntry{},
		&Group{},
		&GroupMember{},
	}
}
