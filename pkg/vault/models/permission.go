package models

// Permission represents the access level granted by an ACL entry.
//
// Permission levels are hierarchical:
//   - READ_ONLY: view items and their secrets
//   - READ_WRITE: read plus create/update
//   - DELETE: read/write plus delete
type Permission string

const (
	// PermissionReadOnly allows viewing items and revealing their secrets.
	PermissionReadOnly Permission = "READ_ONLY"

	// PermissionReadWrite allows reading, creating, and updating items.
	PermissionReadWrite Permission = "READ_WRITE"

	// PermissionDelete allows full access including deletion.
	PermissionDelete Permission = "DELETE"
)

// legacyPermissions maps historical permission names to the canonical set.
// Grants written by older clients may still carry these.
var legacyPermissions = map[string]Permission{
	"VIEW_METADATA":      PermissionReadOnly,
	"REVEAL_PASSWORD":    PermissionReadOnly,
	"COPY_PASSWORD":      PermissionReadOnly,
	"GENERATE_TOTP":      PermissionReadOnly,
	"REVEAL_TOTP_SECRET": PermissionReadOnly,
	"READ_SMS":           PermissionReadOnly,
	"EDIT":               PermissionReadWrite,
	"IMPORT":             PermissionReadWrite,
	"MANAGE_SMS":         PermissionReadWrite,
	"SHARE":              PermissionDelete,
}

// Level returns the numeric level of the permission for comparison.
// Higher values indicate more permissive access. Unknown permissions are 0.
func (p Permission) Level() int {
	switch p {
	case PermissionReadOnly:
		return 1
	case PermissionReadWrite:
		return 2
	case PermissionDelete:
		return 3
	default:
		return 0
	}
}

// IsValid returns true if this is one of the three canonical permissions.
func (p Permission) IsValid() bool {
	return p.Level() > 0
}

// String returns the string representation of the permission.
func (p Permission) String() string {
	return string(p)
}

// MapLegacyPermission translates a legacy permission name to its canonical
// equivalent. Unknown strings pass through unchanged.
func MapLegacyPermission(s string) string {
	if p, ok := legacyPermissions[s]; ok {
		return string(p)
	}
	return s
}

// NormalizePermissions maps each input through the legacy table and filters
// the result to the canonical permission set. Unrecognized permissions are
// dropped silently: a grant we cannot interpret grants nothing.
func NormalizePermissions(perms []string) []Permission {
	seen := make(map[Permission]bool, 3)
	out := make([]Permission, 0, 3)
	for _, s := range perms {
		p := Permission(MapLegacyPermission(s))
		if !p.IsValid() || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// MergePermissions unions all input permission sets (normalizing each) and
// expands the result by hierarchy: holding a higher permission implies
// holding every lower one. The returned slice is ordered low to high.
//
// The expansion is deliberate: a stored grant of {DELETE} alone still yields
// [READ_ONLY, READ_WRITE, DELETE], so the hierarchy invariant holds even for
// inconsistently stored entries.
func MergePermissions(sets ...[]string) []Permission {
	highest := 0
	for _, set := range sets {
		for _, p := range NormalizePermissions(set) {
			if l := p.Level(); l > highest {
				highest = l
			}
		}
	}

	switch {
	case highest >= PermissionDelete.Level():
		return []Permission{PermissionReadOnly, PermissionReadWrite, PermissionDelete}
	case highest >= PermissionReadWrite.Level():
		return []Permission{PermissionReadOnly, PermissionReadWrite}
	case highest >= PermissionReadOnly.Level():
		return []Permission{PermissionReadOnly}
	default:
		return []Permission{}
	}
}

// ContainsAll reports whether perms covers every permission in required.
// Required entries are normalized first, so legacy names may be requested.
func ContainsAll(perms []Permission, required []string) bool {
	held := make(map[Permission]bool, len(perms))
	for _, p := range perms {
		held[p] = true
	}
	for _, r := range NormalizePermissions(required) {
		if !held[r] {
			return false
		}
	}
	return true
}
