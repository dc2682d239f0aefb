package models

import (
	"slices"
	"testing"
)

func TestPermissionListScan(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  []string
	}{
		{"valid json bytes", []byte(`["READ_ONLY","EDIT"]`), []string{"READ_ONLY", "EDIT"}},
		{"valid json string", `["DELETE"]`, []string{"DELETE"}},
		{"empty array", []byte(`[]`), []string{}},
		{"malformed json", []byte(`{"not":"an array"`), []string{}},
		{"wrong json type", []byte(`{"a":1}`), []string{}},
		{"unexpected driver type", 42, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l PermissionList
			if err := l.Scan(tt.value); err != nil {
				t.Fatalf("Scan must not fail the row: %v", err)
			}
			if !slices.Equal([]string(l), tt.want) {
				t.Errorf("expected %v, got %v", tt.want, l)
			}
		})
	}
}

func TestPermissionListScanNil(t *testing.T) {
	var l PermissionList
	if err := l.Scan(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l != nil {
		t.Errorf("expected nil list, got %v", l)
	}
}

func TestPermissionListValue(t *testing.T) {
	v, err := PermissionList{"READ_ONLY"}.Value()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != `["READ_ONLY"]` {
		t.Errorf("expected JSON array, got %v", v)
	}

	v, err = PermissionList(nil).Value()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != `[]` {
		t.Errorf("nil list must store as empty array, got %v", v)
	}
}

func TestNormalizePrincipalKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"mixed-case email lowercased", "Bob@X.com", "bob@x.com"},
		{"lowercase email unchanged", "alice@example.com", "alice@example.com"},
		{"email trimmed", "  Carol@Example.COM ", "carol@example.com"},
		{"user id untouched", "U-Alice", "U-Alice"},
		{"group id untouched", "DevOps", "DevOps"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePrincipalKey(tt.in); got != tt.want {
				t.Errorf("NormalizePrincipalKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestACLEntryValidate(t *testing.T) {
	valid := ACLEntry{
		ResourceType:  ResourceFolder,
		ResourceID:    "f1",
		PrincipalType: PrincipalGroup,
		PrincipalID:   "devs",
		Permissions:   PermissionList{"READ_ONLY"},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid entry, got %v", err)
	}

	bad := valid
	bad.ResourceType = "datacenter"
	if err := bad.Validate(); err == nil {
		t.Error("expected invalid resource type to fail")
	}

	bad = valid
	bad.PrincipalID = ""
	if err := bad.Validate(); err == nil {
		t.Error("expected missing principal id to fail")
	}
}
