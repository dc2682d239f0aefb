package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
)

func TestGroupsForEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/alice@example.com/groups" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected authorization header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"group_id":"devs"},{"group_id":"ops"},{"group_id":""}]`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Token: "secret"})

	groups, err := c.GroupsForEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"devs", "ops"}
	if !slices.Equal(groups, want) {
		t.Errorf("expected %v, got %v", want, groups)
	}
}

func TestGroupsForEmail_UnknownUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})

	groups, err := c.GroupsForEmail(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("404 must not be an error, got %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("expected no groups, got %v", groups)
	}
}

func TestGroupsForEmail_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})

	if _, err := c.GroupsForEmail(context.Background(), "alice@example.com"); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestGroupsForEmail_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})

	if _, err := c.GroupsForEmail(context.Background(), "alice@example.com"); err == nil {
		t.Fatal("expected error on malformed body")
	}
}

func TestGroupsForEmail_EscapesEmail(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})

	if _, err := c.GroupsForEmail(context.Background(), "a/b@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/users/a%2Fb@example.com/groups" {
		t.Errorf("expected escaped path, got %q", gotPath)
	}
}
