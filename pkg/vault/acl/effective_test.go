package acl

import (
	"slices"
	"testing"

	"github.com/vaultden/vaultden/pkg/vault/models"
)

func grantWith(perms ...string) *models.ACLEntry {
	return &models.ACLEntry{Permissions: models.PermissionList(perms)}
}

// Adding a grant to the evaluated set may widen the merged permission result
// but never shrink it, whatever the added grant carries.
func TestMergeEntryPermissions_UnionMonotonic(t *testing.T) {
	bases := []struct {
		name    string
		entries []*models.ACLEntry
	}{
		{"no grants", nil},
		{"read only", []*models.ACLEntry{grantWith("READ_ONLY")}},
		{"read write", []*models.ACLEntry{grantWith("READ_WRITE")}},
		{"full", []*models.ACLEntry{grantWith("DELETE")}},
		{"split across two grants", []*models.ACLEntry{grantWith("READ_ONLY"), grantWith("READ_WRITE")}},
	}
	extras := []struct {
		name  string
		entry *models.ACLEntry
	}{
		{"lower-level grant", grantWith("READ_ONLY")},
		{"higher-level grant", grantWith("DELETE")},
		{"legacy-name grant", grantWith("EDIT")},
		{"garbage-only grant", grantWith("FROBNICATE")},
		{"empty grant", grantWith()},
	}

	for _, base := range bases {
		for _, extra := range extras {
			t.Run(base.name+" plus "+extra.name, func(t *testing.T) {
				before := mergeEntryPermissions(base.entries)
				after := mergeEntryPermissions(append(slices.Clone(base.entries), extra.entry))

				for _, p := range before {
					if !slices.Contains(after, p) {
						t.Errorf("merged set shrank: lost %v, had %v, now %v", p, before, after)
					}
				}
			})
		}
	}
}
