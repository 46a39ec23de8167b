package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/annel0/world-graph/internal/auth"
	"github.com/annel0/world-graph/internal/config"
	"github.com/annel0/world-graph/internal/vec"
	"github.com/annel0/world-graph/internal/world"
)

type testEnv struct {
	server *RestServer
	ids    []world.ChunkID
	tokens map[auth.Role]string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	g := world.NewWorldGraph(8)
	ids := make([]world.ChunkID, 0, 4)
	for i := 0; i < 4; i++ {
		c, err := g.AddChunk(vec.Vec2{X: i * 10, Y: 0})
		if err != nil {
			t.Fatalf("AddChunk: %v", err)
		}
		ids = append(ids, c.ID)
	}
	for i := 0; i+1 < len(ids); i++ {
		if err := g.ConnectBoth(ids[i], ids[i+1], world.PassageRoad); err != nil {
			t.Fatalf("ConnectBoth: %v", err)
		}
	}

	cfg := config.Default()
	service := NewWorldService(cfg, g, nil, nil, nil)

	users := auth.NewMemoryUserRepo()
	tokenManager := auth.NewTokenManager("test-secret", time.Hour)

	tokens := make(map[auth.Role]string)
	for _, role := range []auth.Role{auth.RoleViewer, auth.RoleEditor, auth.RoleAdmin} {
		user, err := auth.NewUser(string(role), "password123", role)
		if err != nil {
			t.Fatalf("NewUser: %v", err)
		}
		if err := users.Create(context.Background(), user); err != nil {
			t.Fatalf("Create user: %v", err)
		}
		token, err := tokenManager.Issue(user)
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		tokens[role] = token
	}

	return &testEnv{
		server: NewRestServer(service, users, tokenManager),
		ids:    ids,
		tokens: tokens,
	}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.server.Engine().ServeHTTP(rec, req)
	return rec
}

func TestHealthIsPublic(t *testing.T) {
	env := newTestEnv(t)
	rec := env.request(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("health returned %d", rec.Code)
	}
}

func TestLoginFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "viewer", "password": "password123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["token"] == "" || resp["role"] != "viewer" {
		t.Errorf("unexpected login response: %v", resp)
	}

	rec = env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "viewer", "password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password returned %d", rec.Code)
	}
}

func TestWorldRequiresToken(t *testing.T) {
	env := newTestEnv(t)

	if rec := env.request(t, http.MethodGet, "/api/world", "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated request returned %d", rec.Code)
	}
	if rec := env.request(t, http.MethodGet, "/api/world", "garbage", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token returned %d", rec.Code)
	}
}

func TestWorldSummary(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodGet, "/api/world", env.tokens[auth.RoleViewer], nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary returned %d", rec.Code)
	}
	var resp map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["chunks"].(float64) != 4 || resp["connected"] != true {
		t.Errorf("unexpected summary: %v", resp)
	}
}

func TestGetChunkAndPath(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokens[auth.RoleViewer]

	rec := env.request(t, http.MethodGet, fmt.Sprintf("/api/world/chunks/%d", env.ids[0]), token, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("get chunk returned %d", rec.Code)
	}
	rec = env.request(t, http.MethodGet, "/api/world/chunks/9999", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing chunk returned %d", rec.Code)
	}

	rec = env.request(t, http.MethodGet,
		fmt.Sprintf("/api/world/path?from=%d&to=%d", env.ids[0], env.ids[3]), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("path returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["hops"].(float64) != 3 {
		t.Errorf("expected 3 hops, got %v", resp["hops"])
	}
}

func TestEditorEndpointsRequireRole(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]interface{}{"biome": "forest"}
	path := fmt.Sprintf("/api/world/chunks/%d/metadata", env.ids[0])

	if rec := env.request(t, http.MethodPut, path, env.tokens[auth.RoleViewer], body); rec.Code != http.StatusForbidden {
		t.Errorf("viewer allowed to edit: %d", rec.Code)
	}
	if rec := env.request(t, http.MethodPut, path, env.tokens[auth.RoleEditor], body); rec.Code != http.StatusOK {
		t.Errorf("editor denied: %d, %s", rec.Code, rec.Body.String())
	}
}

func TestCreateAndRemovePassage(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokens[auth.RoleEditor]

	rec := env.request(t, http.MethodPost, "/api/world/passages", token, map[string]interface{}{
		"from": env.ids[0], "to": env.ids[2], "both": true,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create passage returned %d: %s", rec.Code, rec.Body.String())
	}

	// Повторное создание — конфликт
	rec = env.request(t, http.MethodPost, "/api/world/passages", token, map[string]interface{}{
		"from": env.ids[0], "to": env.ids[2],
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate passage returned %d", rec.Code)
	}

	rec = env.request(t, http.MethodDelete,
		fmt.Sprintf("/api/world/passages/%d/%d", env.ids[0], env.ids[2]), token, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("remove passage returned %d", rec.Code)
	}
}

func TestJuiceEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token := env.tokens[auth.RoleViewer]

	rec := env.request(t, http.MethodPut, "/api/juice/players/p1", token, map[string]interface{}{
		"chunk_id": env.ids[1],
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("move player returned %d: %s", rec.Code, rec.Body.String())
	}

	env.server.service.Tracker().Step(context.Background())

	rec = env.request(t, http.MethodGet, fmt.Sprintf("/api/juice/chunks/%d", env.ids[1]), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("chunk juice returned %d", rec.Code)
	}
	var resp map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["loaded"] != true {
		t.Errorf("player chunk not loaded: %v", resp)
	}

	rec = env.request(t, http.MethodGet, "/api/juice/loaded", token, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("loaded list returned %d", rec.Code)
	}
}

func TestAdminUserManagement(t *testing.T) {
	env := newTestEnv(t)
	admin := env.tokens[auth.RoleAdmin]

	rec := env.request(t, http.MethodPost, "/api/admin/users", env.tokens[auth.RoleEditor], map[string]string{
		"username": "newbie", "password": "password123", "role": "viewer",
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("editor allowed to create users: %d", rec.Code)
	}

	rec = env.request(t, http.MethodPost, "/api/admin/users", admin, map[string]string{
		"username": "newbie", "password": "password123", "role": "viewer",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user returned %d: %s", rec.Code, rec.Body.String())
	}

	// Короткий пароль отклоняется
	rec = env.request(t, http.MethodPost, "/api/admin/users", admin, map[string]string{
		"username": "other", "password": "short", "role": "viewer",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("weak password accepted: %d", rec.Code)
	}

	rec = env.request(t, http.MethodGet, "/api/admin/users", admin, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("list users returned %d", rec.Code)
	}
}
