//go:build integration

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func createGroupViaHandler(t *testing.T, handler *GroupHandler, name string) GroupResponse {
	t.Helper()
	body, _ := json.Marshal(CreateGroupRequest{Name: name})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/groups", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Create() status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp GroupResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	return resp
}

func TestGroupHandler_Create(t *testing.T) {
	st := setupTestStore(t)
	handler := NewGroupHandler(st)

	tests := []struct {
		name       string
		body       CreateGroupRequest
		wantStatus int
	}{
		{
			name:       "valid group",
			body:       CreateGroupRequest{Name: "developers", Description: "Development team"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing name",
			body:       CreateGroupRequest{Description: "No name"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "duplicate name",
			body:       CreateGroupRequest{Name: "developers"},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/groups", bytes.NewReader(body))
			w := httptest.NewRecorder()

			handler.Create(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Create() status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestGroupHandler_Members(t *testing.T) {
	st := setupTestStore(t)
	handler := NewGroupHandler(st)

	group := createGroupViaHandler(t, handler, "devs")

	addMember := func(t *testing.T, key string) int {
		t.Helper()
		body, _ := json.Marshal(AddGroupMemberRequest{MemberKey: key})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/groups/"+group.ID+"/members", bytes.NewReader(body))
		w := httptest.NewRecorder()
		handler.AddMember(w, withURLParam(req, "id", group.ID))
		return w.Code
	}

	t.Run("add member", func(t *testing.T) {
		if code := addMember(t, "u-alice"); code != http.StatusNoContent {
			t.Errorf("AddMember() status = %d, want %d", code, http.StatusNoContent)
		}
	})

	t.Run("add member is idempotent", func(t *testing.T) {
		if code := addMember(t, "u-alice"); code != http.StatusNoContent {
			t.Errorf("AddMember() repeat status = %d, want %d", code, http.StatusNoContent)
		}

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/groups/"+group.ID, nil), "id", group.ID)
		w := httptest.NewRecorder()
		handler.Get(w, req)

		var resp GroupResponse
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		if len(resp.Members) != 1 {
			t.Errorf("Expected 1 member, got %v", resp.Members)
		}
	})

	t.Run("add member requires member_key", func(t *testing.T) {
		if code := addMember(t, ""); code != http.StatusBadRequest {
			t.Errorf("AddMember() status = %d, want %d", code, http.StatusBadRequest)
		}
	})

	t.Run("add member to unknown group", func(t *testing.T) {
		body, _ := json.Marshal(AddGroupMemberRequest{MemberKey: "u-bob"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/groups/nonexistent/members", bytes.NewReader(body))
		w := httptest.NewRecorder()
		handler.AddMember(w, withURLParam(req, "id", "nonexistent"))

		if w.Code != http.StatusNotFound {
			t.Errorf("AddMember() status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})

	t.Run("remove member", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/groups/"+group.ID+"/members/u-alice", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", group.ID)
		rctx.URLParams.Add("key", "u-alice")
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		w := httptest.NewRecorder()
		handler.RemoveMember(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("RemoveMember() status = %d, want %d", w.Code, http.StatusNoContent)
		}
	})
}

func TestGroupHandler_GetAndDelete(t *testing.T) {
	st := setupTestStore(t)
	handler := NewGroupHandler(st)

	group := createGroupViaHandler(t, handler, "ops")

	t.Run("get existing", func(t *testing.T) {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/groups/"+group.ID, nil), "id", group.ID)
		w := httptest.NewRecorder()
		handler.Get(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Get() status = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/groups/nonexistent", nil), "id", "nonexistent")
		w := httptest.NewRecorder()
		handler.Get(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Get() status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})

	t.Run("delete", func(t *testing.T) {
		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/v1/groups/"+group.ID, nil), "id", group.ID)
		w := httptest.NewRecorder()
		handler.Delete(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("Delete() status = %d, want %d", w.Code, http.StatusNoContent)
		}
	})
}

func TestGroupHandler_List(t *testing.T) {
	st := setupTestStore(t)
	handler := NewGroupHandler(st)

	for _, name := range []string{"group1", "group2", "group3"} {
		createGroupViaHandler(t, handler, name)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/groups", nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("List() status = %d", w.Code)
	}
	var resp []GroupResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(resp) != 3 {
		t.Errorf("List() returned %d groups, want 3", len(resp))
	}
}
