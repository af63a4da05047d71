package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ITAM-backend/internal/platform/db"
)

type client struct {
	t     *testing.T
	h     http.Handler
	token string
}

func (c *client) call(method, path string, body any) (int, map[string]any) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, "/api/v1"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w.Code, out
}

func (c *client) login(email, password string) *client {
	c.t.Helper()
	code, body := c.call(http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password})
	require.Equal(c.t, http.StatusOK, code, body)
	return &client{t: c.t, h: c.h, token: body["access_token"].(string)}
}

func (c *client) create(path string, body any) string {
	c.t.Helper()
	code, res := c.call(http.MethodPost, path, body)
	require.Equal(c.t, http.StatusCreated, code, res)
	return res["id"].(string)
}

func newTestApp(t *testing.T) *client {
	t.Helper()
	cfg := db.Defaults()
	cfg.DB.Driver = db.DriverMemory
	cfg.Auth.JWTSecret = "test-secret"
	cfg.BootstrapAdmin = db.BootstrapAdmin{Email: "admin@example.com", Password: "admin-password"}

	a, err := New(context.Background(), &cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return &client{t: t, h: a.Handler()}
}

func TestTransferEndToEnd(t *testing.T) {
	anon := newTestApp(t)
	admin := anon.login("admin@example.com", "admin-password")

	hq := admin.create("/locations", map[string]any{"name": "HQ"})
	branch := admin.create("/locations", map[string]any{"name": "Branch"})
	alice := admin.create("/users", map[string]any{"email": "alice@example.com", "name": "Alice", "password": "alice-password", "location_id": hq})
	bob := admin.create("/users", map[string]any{"email": "bob@example.com", "name": "Bob", "password": "bob-password", "location_id": branch})
	asset := admin.create("/assets", map[string]any{
		"asset_tag": "A123", "category": "laptop", "make": "Dell", "model": "Latitude 5440",
		"serial_number": "SN-A123", "assigned_user_id": alice, "location_id": hq,
	})

	as := anon.login("alice@example.com", "alice-password")
	code, _ := as.call(http.MethodGet, "/assets/"+asset, nil)
	assert.Equal(t, http.StatusOK, code)

	tr := as.create("/transfers", map[string]any{
		"asset_id": asset, "to_user_id": bob, "to_location_id": branch, "reason": "team move",
	})

	code, body := admin.call(http.MethodGet, "/analytics/dashboard", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["pending_transfers"])
	assert.EqualValues(t, 3, body["total_users"])

	code, _ = as.call(http.MethodPost, "/transfers/"+tr+"/approve", nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body = admin.call(http.MethodPost, "/transfers/"+tr+"/approve", nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "APPROVED", body["status"])
	assert.Equal(t, alice, body["from_user_id"])

	code, body = admin.call(http.MethodGet, "/assets/"+asset, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, bob, body["assigned_user_id"])
	assert.Equal(t, branch, body["location_id"])
	assert.Equal(t, "Bob", body["assigned_user_name"])

	// alice はもう所有者ではない
	code, _ = as.call(http.MethodGet, "/assets/"+asset, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body = admin.call(http.MethodPost, "/transfers/"+tr+"/reject", map[string]any{"rejection_reason": "late"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "INVALID_STATE", body["error"].(map[string]any)["code"])

	code, body = admin.call(http.MethodPost, "/transfers/"+tr+"/complete", nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "COMPLETED", body["status"])

	code, _ = admin.call(http.MethodDelete, "/assets/"+asset, nil)
	assert.Equal(t, http.StatusConflict, code)
	code, _ = admin.call(http.MethodDelete, "/locations/"+branch, nil)
	assert.Equal(t, http.StatusConflict, code)
}

func TestRoutingBasics(t *testing.T) {
	anon := newTestApp(t)

	code, _ := anon.call(http.MethodGet, "/assets", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := anon.call(http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", body["error"].(map[string]any)["code"])

	code, _ = anon.call(http.MethodPost, "/auth/login", map[string]string{"email": "admin@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, code)

	w := httptest.NewRecorder()
	anon.h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRevokedAccountLosesAccess(t *testing.T) {
	anon := newTestApp(t)
	admin := anon.login("admin@example.com", "admin-password")

	carol := admin.create("/users", map[string]any{"email": "carol@example.com", "name": "Carol", "password": "carol-password", "role": "admin"})
	dave := admin.create("/users", map[string]any{"email": "dave@example.com", "name": "Dave", "password": "dave-password"})
	erin := admin.create("/users", map[string]any{"email": "erin@example.com", "name": "Erin", "password": "erin-password", "role": "admin"})
	cs := anon.login("carol@example.com", "carol-password")
	ds := anon.login("dave@example.com", "dave-password")
	es := anon.login("erin@example.com", "erin-password")

	newAsset := map[string]any{"category": "laptop", "make": "Dell", "model": "X", "serial_number": "SN-REVOKED"}

	code, _ := admin.call(http.MethodPut, "/users/"+carol, map[string]any{"role": "user", "is_active": false})
	require.Equal(t, http.StatusOK, code)
	code, body := cs.call(http.MethodPost, "/assets", newAsset)
	assert.Equal(t, http.StatusUnauthorized, code, body)

	// 降格だけなら認証は通るが admin ルートは拒否
	code, _ = admin.call(http.MethodPut, "/users/"+erin, map[string]any{"role": "user"})
	require.Equal(t, http.StatusOK, code)
	code, _ = es.call(http.MethodPost, "/assets", newAsset)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = es.call(http.MethodGet, "/assets", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = admin.call(http.MethodDelete, "/users/"+dave, nil)
	require.Equal(t, http.StatusNoContent, code)
	code, _ = ds.call(http.MethodGet, "/assets", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = ds.call(http.MethodGet, "/locations", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = ds.call(http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = admin.call(http.MethodGet, "/assets", nil)
	assert.Equal(t, http.StatusOK, code)
}
