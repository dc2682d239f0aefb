package acl

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestResolve_UserAndEmailOnly(t *testing.T) {
	r := NewResolver(newFakeStore(), nil, nil)

	ps := r.Resolve(context.Background(), Identity{Sub: "alice", Email: "Alice@Example.COM"})

	if ps.UserID != "alice" {
		t.Errorf("expected user id alice, got %q", ps.UserID)
	}
	if ps.Email != "alice@example.com" {
		t.Errorf("expected lowercased email, got %q", ps.Email)
	}
	if len(ps.GroupIDs) != 0 {
		t.Errorf("expected no groups, got %v", ps.GroupIDs)
	}

	ids := ps.IDs()
	if !slices.Contains(ids, "alice") || !slices.Contains(ids, "alice@example.com") {
		t.Errorf("IDs() missing identifiers: %v", ids)
	}
}

func TestResolve_StaticGroupsByIDOrEmail(t *testing.T) {
	store := newFakeStore()
	store.members["alice"] = []string{"devs"}
	store.members["alice@example.com"] = []string{"ops"}
	r := NewResolver(store, nil, nil)

	ps := r.Resolve(context.Background(), Identity{Sub: "alice", Email: "alice@example.com"})

	if !slices.Contains(ps.GroupIDs, "devs") || !slices.Contains(ps.GroupIDs, "ops") {
		t.Errorf("expected groups from both keys, got %v", ps.GroupIDs)
	}
}

func TestResolve_DirectoryGroupsMergedAndDeduped(t *testing.T) {
	store := newFakeStore()
	store.members["alice@example.com"] = []string{"devs", "ops"}
	dir := &fakeDirectory{groups: map[string][]string{
		"alice@example.com": {"ops", "sre"},
	}}
	r := NewResolver(store, dir, nil)

	ps := r.Resolve(context.Background(), Identity{Email: "alice@example.com"})

	want := []string{"devs", "ops", "sre"}
	if !slices.Equal(ps.GroupIDs, want) {
		t.Errorf("expected groups %v, got %v", want, ps.GroupIDs)
	}
}

func TestResolve_DirectoryOutageDegrades(t *testing.T) {
	store := newFakeStore()
	store.members["alice@example.com"] = []string{"devs"}
	dir := &fakeDirectory{err: errors.New("connection refused")}
	r := NewResolver(store, dir, nil)

	ps := r.Resolve(context.Background(), Identity{Sub: "alice", Email: "alice@example.com"})

	// Static groups survive a directory outage.
	if !slices.Contains(ps.GroupIDs, "devs") {
		t.Errorf("expected static groups to survive, got %v", ps.GroupIDs)
	}
	if ps.UserID != "alice" {
		t.Errorf("expected user id to survive, got %q", ps.UserID)
	}
}

func TestResolve_StoreOutageDegrades(t *testing.T) {
	store := newFakeStore()
	store.groupErr = errors.New("db gone")
	dir := &fakeDirectory{groups: map[string][]string{
		"alice@example.com": {"sre"},
	}}
	r := NewResolver(store, dir, nil)

	ps := r.Resolve(context.Background(), Identity{Sub: "alice", Email: "alice@example.com"})

	// Directory groups survive a store outage.
	if !slices.Contains(ps.GroupIDs, "sre") {
		t.Errorf("expected directory groups to survive, got %v", ps.GroupIDs)
	}
}

func TestResolve_NoDirectoryLookupWithoutEmail(t *testing.T) {
	dir := &fakeDirectory{err: errors.New("should not be called")}
	r := NewResolver(newFakeStore(), dir, nil)

	ps := r.Resolve(context.Background(), Identity{Sub: "alice"})

	if len(ps.GroupIDs) != 0 {
		t.Errorf("expected no groups, got %v", ps.GroupIDs)
	}
}

func TestPrincipalSet_IsEmpty(t *testing.T) {
	if !(PrincipalSet{}).IsEmpty() {
		t.Error("zero set should be empty")
	}
	if (PrincipalSet{UserID: "alice"}).IsEmpty() {
		t.Error("set with user id should not be empty")
	}
	if (PrincipalSet{Roles: []string{"admin"}}).IsEmpty() {
		t.Error("set with roles should not be empty")
	}
}

func TestIdentity_IsAdmin(t *testing.T) {
	if (Identity{Roles: []string{"user"}}).IsAdmin() {
		t.Error("user role should not be admin")
	}
	if !(Identity{Roles: []string{"user", "admin"}}).IsAdmin() {
		t.Error("admin role should be admin")
	}
}
