package models

import "errors"

// Common errors for vault storage operations.
var (
	// Vault errors
	ErrVaultNotFound  = errors.New("vault not found")
	ErrDuplicateVault = errors.New("vault already exists")

	// Folder errors
	ErrFolderNotFound  = errors.New("folder not found")
	ErrDuplicateFolder = errors.New("folder already exists")

	// Item errors
	ErrItemNotFound = errors.New("item not found")

	// ACL errors
	ErrACLEntryNotFound = errors.New("acl entry not found")

	// Group errors
	ErrGroupNotFound  = errors.New("group not found")
	ErrDuplicateGroup = errors.New("group already exists")
)
