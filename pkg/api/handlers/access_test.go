//go:build integration

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vaultden/vaultden/pkg/api/auth"
	"github.com/vaultden/vaultden/pkg/api/middleware"
	"github.com/vaultden/vaultden/pkg/vault/acl"
	"github.com/vaultden/vaultden/pkg/vault/models"
	"github.com/vaultden/vaultden/pkg/vault/store"
)

type accessFixture struct {
	handler  *AccessHandler
	vaultID  string
	folderID string
	itemID   string
}

// setupAccessTest builds a shared vault with one folder and one item, a group
// the test user belongs to, and a folder grant for that group.
func setupAccessTest(t *testing.T, st store.Store) accessFixture {
	t.Helper()
	ctx := context.Background()

	vaultID, err := st.CreateVault(ctx, &models.Vault{
		Name:        "Team vault",
		Type:        models.VaultTypeShared,
		OwnerUserID: "u-owner",
	})
	if err != nil {
		t.Fatalf("CreateVault failed: %v", err)
	}

	folderID, err := st.CreateFolder(ctx, &models.Folder{VaultID: vaultID, Name: "infra"})
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}

	itemID, err := st.CreateItem(ctx, &models.Item{
		VaultID:  vaultID,
		FolderID: &folderID,
		Name:     "db password",
		Kind:     models.ItemKindCredential,
	})
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	groupID, err := st.CreateGroup(ctx, &models.Group{Name: "devs"})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if err := st.AddGroupMember(ctx, groupID, "u-alice"); err != nil {
		t.Fatalf("AddGroupMember failed: %v", err)
	}

	_, err = st.CreateACLEntry(ctx, &models.ACLEntry{
		ResourceType:  models.ResourceFolder,
		ResourceID:    folderID,
		PrincipalType: models.PrincipalGroup,
		PrincipalID:   groupID,
		Permissions:   models.PermissionList{"READ_WRITE"},
	})
	if err != nil {
		t.Fatalf("CreateACLEntry failed: %v", err)
	}

	gate := acl.NewGate(st, nil, acl.Policy{}, nil)
	return accessFixture{
		handler:  NewAccessHandler(gate),
		vaultID:  vaultID,
		folderID: folderID,
		itemID:   itemID,
	}
}

func accessRequest(t *testing.T, path string, claims *auth.Claims, body *CheckAccessRequest) *http.Request {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(http.MethodPost, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(middleware.SetClaimsForTest(req.Context(), claims))
}

func decodeDecision(t *testing.T, w *httptest.ResponseRecorder) acl.Decision {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var decision acl.Decision
	if err := json.Unmarshal(w.Body.Bytes(), &decision); err != nil {
		t.Fatalf("Failed to unmarshal decision: %v", err)
	}
	return decision
}

func TestAccessHandler_CheckFolder(t *testing.T) {
	st := setupTestStore(t)
	fx := setupAccessTest(t, st)

	aliceClaims := &auth.Claims{UserID: "u-alice", Email: "alice@example.com"}
	bobClaims := &auth.Claims{UserID: "u-bob", Email: "bob@example.com"}

	t.Run("group grant allows member", func(t *testing.T) {
		req := accessRequest(t, "/api/v1/access/folders/"+fx.folderID, aliceClaims, nil)
		w := httptest.NewRecorder()
		fx.handler.CheckFolder(w, withURLParam(req, "id", fx.folderID))

		decision := decodeDecision(t, w)
		if !decision.HasAccess {
			t.Errorf("Expected access, got deny: %s", decision.Reason)
		}
	})

	t.Run("required permission above the grant is denied", func(t *testing.T) {
		req := accessRequest(t, "/api/v1/access/folders/"+fx.folderID, aliceClaims,
			&CheckAccessRequest{RequiredPermissions: []string{"DELETE"}})
		w := httptest.NewRecorder()
		fx.handler.CheckFolder(w, withURLParam(req, "id", fx.folderID))

		decision := decodeDecision(t, w)
		if decision.HasAccess {
			t.Error("Expected deny for DELETE with a READ_WRITE grant")
		}
		if decision.Reason != "Missing required permissions" {
			t.Errorf("Unexpected reason: %s", decision.Reason)
		}
	})

	t.Run("implied permission is allowed", func(t *testing.T) {
		req := accessRequest(t, "/api/v1/access/folders/"+fx.folderID, aliceClaims,
			&CheckAccessRequest{RequiredPermissions: []string{"READ_ONLY"}})
		w := httptest.NewRecorder()
		fx.handler.CheckFolder(w, withURLParam(req, "id", fx.folderID))

		decision := decodeDecision(t, w)
		if !decision.HasAccess {
			t.Errorf("Expected READ_WRITE grant to imply READ_ONLY, got deny: %s", decision.Reason)
		}
	})

	t.Run("non-member is denied", func(t *testing.T) {
		req := accessRequest(t, "/api/v1/access/folders/"+fx.folderID, bobClaims, nil)
		w := httptest.NewRecorder()
		fx.handler.CheckFolder(w, withURLParam(req, "id", fx.folderID))

		decision := decodeDecision(t, w)
		if decision.HasAccess {
			t.Error("Expected deny for non-member")
		}
		if decision.Reason != "No ACL permissions found" {
			t.Errorf("Unexpected reason: %s", decision.Reason)
		}
	})

	t.Run("unknown folder", func(t *testing.T) {
		req := accessRequest(t, "/api/v1/access/folders/nonexistent", aliceClaims, nil)
		w := httptest.NewRecorder()
		fx.handler.CheckFolder(w, withURLParam(req, "id", "nonexistent"))

		decision := decodeDecision(t, w)
		if decision.HasAccess {
			t.Error("Expected deny for unknown folder")
		}
		if decision.Reason != "Folder not found" {
			t.Errorf("Unexpected reason: %s", decision.Reason)
		}
	})

	t.Run("missing claims", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/access/folders/"+fx.folderID, nil)
		w := httptest.NewRecorder()
		fx.handler.CheckFolder(w, withURLParam(req, "id", fx.folderID))

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
	})
}

func TestAccessHandler_CheckItem(t *testing.T) {
	st := setupTestStore(t)
	fx := setupAccessTest(t, st)

	aliceClaims := &auth.Claims{UserID: "u-alice", Email: "alice@example.com"}

	t.Run("folder grant reaches the item", func(t *testing.T) {
		req := accessRequest(t, "/api/v1/access/items/"+fx.itemID, aliceClaims, nil)
		w := httptest.NewRecorder()
		fx.handler.CheckItem(w, withURLParam(req, "id", fx.itemID))

		decision := decodeDecision(t, w)
		if !decision.HasAccess {
			t.Errorf("Expected access through the containing folder, got deny: %s", decision.Reason)
		}
	})

	t.Run("admin shortcut on shared vault item", func(t *testing.T) {
		adminClaims := &auth.Claims{UserID: "u-root", Roles: []string{"admin"}}
		req := accessRequest(t, "/api/v1/access/items/"+fx.itemID, adminClaims,
			&CheckAccessRequest{RequiredPermissions: []string{"DELETE"}})
		w := httptest.NewRecorder()
		fx.handler.CheckItem(w, withURLParam(req, "id", fx.itemID))

		decision := decodeDecision(t, w)
		if !decision.HasAccess {
			t.Errorf("Expected admin access, got deny: %s", decision.Reason)
		}
	})
}

func TestAccessHandler_CheckVault(t *testing.T) {
	st := setupTestStore(t)
	fx := setupAccessTest(t, st)

	t.Run("personal vault owner", func(t *testing.T) {
		ctx := context.Background()
		personalID, err := st.CreateVault(ctx, &models.Vault{
			Name:        "Carol's vault",
			Type:        models.VaultTypePersonal,
			OwnerUserID: "u-carol",
		})
		if err != nil {
			t.Fatalf("CreateVault failed: %v", err)
		}

		carolClaims := &auth.Claims{UserID: "u-carol"}
		req := accessRequest(t, "/api/v1/access/vaults/"+personalID, carolClaims,
			&CheckAccessRequest{RequiredPermissions: []string{"DELETE"}})
		w := httptest.NewRecorder()
		fx.handler.CheckVault(w, withURLParam(req, "id", personalID))

		decision := decodeDecision(t, w)
		if !decision.HasAccess {
			t.Errorf("Expected personal vault owner access, got deny: %s", decision.Reason)
		}
	})

	t.Run("shared vault owner has no implicit rights", func(t *testing.T) {
		ownerClaims := &auth.Claims{UserID: "u-owner"}
		req := accessRequest(t, "/api/v1/access/vaults/"+fx.vaultID, ownerClaims, nil)
		w := httptest.NewRecorder()
		fx.handler.CheckVault(w, withURLParam(req, "id", fx.vaultID))

		decision := decodeDecision(t, w)
		if decision.HasAccess {
			t.Error("Expected deny for shared vault owner without grants")
		}
	})

	t.Run("unknown vault", func(t *testing.T) {
		claims := &auth.Claims{UserID: "u-alice"}
		req := accessRequest(t, "/api/v1/access/vaults/nonexistent", claims, nil)
		w := httptest.NewRecorder()
		fx.handler.CheckVault(w, withURLParam(req, "id", "nonexistent"))

		decision := decodeDecision(t, w)
		if decision.HasAccess {
			t.Error("Expected deny for unknown vault")
		}
		if decision.Reason != "Vault not found" {
			t.Errorf("Unexpected reason: %s", decision.Reason)
		}
	})
}

func TestAccessHandler_EmailGrantCaseInsensitive(t *testing.T) {
	st := setupTestStore(t)
	fx := setupAccessTest(t, st)

	_, err := st.CreateACLEntry(context.Background(), &models.ACLEntry{
		ResourceType:  models.ResourceVault,
		ResourceID:    fx.vaultID,
		PrincipalType: models.PrincipalUser,
		PrincipalID:   "Bob@X.com",
		Permissions:   models.PermissionList{"READ_ONLY"},
	})
	if err != nil {
		t.Fatalf("CreateACLEntry failed: %v", err)
	}

	claims := &auth.Claims{UserID: "u-bob", Email: "Bob@X.com"}
	req := accessRequest(t, "/api/v1/access/vaults/"+fx.vaultID, claims, nil)
	w := httptest.NewRecorder()
	fx.handler.CheckVault(w, withURLParam(req, "id", fx.vaultID))

	decision := decodeDecision(t, w)
	if !decision.HasAccess {
		t.Errorf("Expected mixed-case email grant to match, got deny: %s", decision.Reason)
	}
}

func TestAccessHandler_Principals(t *testing.T) {
	st := setupTestStore(t)
	fx := setupAccessTest(t, st)

	claims := &auth.Claims{UserID: "u-alice", Email: "Alice@Example.com", Roles: []string{"user"}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/access/principals", nil)
	req = req.WithContext(middleware.SetClaimsForTest(req.Context(), claims))
	w := httptest.NewRecorder()
	fx.handler.Principals(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Principals() status = %d", w.Code)
	}

	var resp PrincipalsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if resp.UserID != "u-alice" {
		t.Errorf("Expected user id 'u-alice', got %q", resp.UserID)
	}
	if resp.Email != "alice@example.com" {
		t.Errorf("Expected lowercased email, got %q", resp.Email)
	}
	if len(resp.GroupIDs) != 1 {
		t.Errorf("Expected 1 group, got %v", resp.GroupIDs)
	}
}
