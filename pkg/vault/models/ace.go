package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ResourceType identifies what an ACL entry grants access to.
type ResourceType string

const (
	// ResourceVault scopes a grant to a whole vault.
	ResourceVault ResourceType = "vault"

	// ResourceFolder scopes a grant to a folder (and, when Inherit is set,
	// to its descendants).
	ResourceFolder ResourceType = "folder"

	// ResourceItem scopes a grant to a single item.
	ResourceItem ResourceType = "item"
)

// IsValid returns true if this is a valid resource type.
func (t ResourceType) IsValid() bool {
	switch t {
	case ResourceVault, ResourceFolder, ResourceItem:
		return true
	default:
		return false
	}
}

// PrincipalType identifies the kind of principal an ACL entry names.
type PrincipalType string

const (
	// PrincipalUser matches a user id or email.
	PrincipalUser PrincipalType = "user"

	// PrincipalGroup matches a group id.
	PrincipalGroup PrincipalType = "group"

	// PrincipalRole matches a role name.
	PrincipalRole PrincipalType = "role"
)

// IsValid returns true if this is a valid principal type.
func (t PrincipalType) IsValid() bool {
	switch t {
	case PrincipalUser, PrincipalGroup, PrincipalRole:
		return true
	default:
		return false
	}
}

// NormalizePrincipalKey canonicalizes an identifier that may be an email
// address. Emails match case-insensitively, so email-shaped keys are
// lowercased on write; user ids, group ids, and role names pass through
// unchanged.
func NormalizePrincipalKey(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "@") {
		return strings.ToLower(s)
	}
	return s
}

// PermissionList is the stored permission array of an ACL entry, persisted
// as a JSON column. Entries may carry legacy permission names; translation
// happens at evaluation time via NormalizePermissions.
//
// A malformed column decodes to an empty list rather than failing the row:
// a grant we cannot read grants nothing.
type PermissionList []string

// Scan implements sql.Scanner.
func (l *PermissionList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		*l = PermissionList{}
		return nil
	}

	var perms []string
	if err := json.Unmarshal(data, &perms); err != nil {
		*l = PermissionList{}
		return nil
	}
	*l = perms
	return nil
}

// Value implements driver.Valuer.
func (l PermissionList) Value() (driver.Value, error) {
	if l == nil {
		l = PermissionList{}
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// ACLEntry is a single grant: it gives Permissions on the named resource to
// the named principal. Inherit controls whether a folder-scoped grant
// propagates to descendant folders and the items inside them; vault-scoped
// grants always apply to everything in the vault regardless of the flag.
type ACLEntry struct {
	ID            string         `gorm:"primaryKey;size:36" json:"id"`
	ResourceType  ResourceType   `gorm:"not null;size:20;index:idx_acl_resource" json:"resource_type"`
	ResourceID    string         `gorm:"not null;size:36;index:idx_acl_resource" json:"resource_id"`
	PrincipalType PrincipalType  `gorm:"not null;size:20" json:"principal_type"`
	PrincipalID   string         `gorm:"not null;size:255;index" json:"principal_id"`
	Permissions   PermissionList `gorm:"type:text" json:"permissions"`
	Inherit       bool           `gorm:"default:false" json:"inherit"`
	CreatedBy     string         `gorm:"size:255" json:"created_by,omitempty"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for ACLEntry.
func (ACLEntry) TableName() string {
	return "acl_entries"
}

// Validate checks if the entry has valid configuration.
func (e *ACLEntry) Validate() error {
	if !e.ResourceType.IsValid() {
		return fmt.Errorf("invalid resource type %q", e.ResourceType)
	}
	if e.ResourceID == "" {
		return fmt.Errorf("resource id is required")
	}
	if !e.PrincipalType.IsValid() {
		return fmt.Errorf("invalid principal type %q", e.PrincipalType)
	}
	if e.PrincipalID == "" {
		return fmt.Errorf("principal id is required")
	}
	return nil
}
