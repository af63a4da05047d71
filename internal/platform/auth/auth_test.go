package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ITAM-backend/internal/platform/apperr"
)

var secret = []byte("test-secret")

type fakeAccounts map[string]*Account

func (f fakeAccounts) AccountByEmail(_ context.Context, email string) (*Account, error) {
	for _, a := range f {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, nil
}

func (f fakeAccounts) AccountByID(_ context.Context, id string) (*Account, error) {
	return f[id], nil
}

func newFixture(t *testing.T) (*Service, fakeAccounts) {
	t.Helper()
	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)
	accts := fakeAccounts{
		"U1": {ID: "U1", Email: "admin@example.com", Name: "Admin", Role: RoleAdmin, PasswordHash: hash, IsActive: true},
		"U2": {ID: "U2", Email: "gone@example.com", Name: "Gone", Role: RoleUser, PasswordHash: hash, IsActive: false},
		"U3": {ID: "U3", Email: "user@example.com", Name: "User", Role: RoleUser, PasswordHash: hash, IsActive: true},
	}
	return NewService(accts, secret, time.Hour), accts
}

func TestLogin(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	token, acct, err := svc.Login(ctx, "admin@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "U1", acct.ID)

	claims, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "U1", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)

	_, _, err = svc.Login(ctx, "admin@example.com", "wrong")
	assert.True(t, apperr.Is(err, apperr.CodeUnauthenticated))

	_, _, err = svc.Login(ctx, "nobody@example.com", "correct-horse")
	assert.True(t, apperr.Is(err, apperr.CodeUnauthenticated))

	_, _, err = svc.Login(ctx, "gone@example.com", "correct-horse")
	assert.True(t, apperr.Is(err, apperr.CodePermissionDenied))
}

func TestHashPasswordTooShort(t *testing.T) {
	_, err := HashPassword("short")
	assert.True(t, apperr.Is(err, apperr.CodeInvalidArgument))
}

func TestParseTokenRejects(t *testing.T) {
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "U1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
	})
	s, err := expired.SignedString(secret)
	require.NoError(t, err)
	_, err = ParseToken(secret, s)
	assert.Error(t, err)

	noSub := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
	})
	s, err = noSub.SignedString(secret)
	require.NoError(t, err)
	_, err = ParseToken(secret, s)
	assert.Error(t, err)

	_, err = ParseToken([]byte("other"), mustToken(t, "U1", RoleUser))
	assert.Error(t, err)
}

func mustToken(t *testing.T, sub, role string) string {
	t.Helper()
	svc := NewService(fakeAccounts{}, secret, time.Hour)
	tok, err := svc.IssueToken(&Account{ID: sub, Role: role})
	require.NoError(t, err)
	return tok
}

func newRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	RegisterRoutes(api, svc)
	admin := api.Group("", svc.Authenticate(), RequireRole(RoleAdmin))
	admin.GET("/admin-only", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": ActorFrom(c).UserID})
	})
	return r
}

func TestMiddleware(t *testing.T) {
	svc, _ := newFixture(t)
	r := newRouter(svc)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"user role", "Bearer " + mustToken(t, "U3", RoleUser), http.StatusForbidden},
		{"admin role", "Bearer " + mustToken(t, "U1", RoleAdmin), http.StatusOK},
		// role は保存済みアカウントから取る
		{"stale admin claim", "Bearer " + mustToken(t, "U3", RoleAdmin), http.StatusForbidden},
		{"deactivated account", "Bearer " + mustToken(t, "U2", RoleAdmin), http.StatusUnauthorized},
		{"deleted account", "Bearer " + mustToken(t, "U9", RoleAdmin), http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin-only", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestLoginAndMeHandlers(t *testing.T) {
	svc, _ := newFixture(t)
	r := newRouter(svc)

	body, _ := json.Marshal(LoginRequest{Email: "admin@example.com", Password: "correct-horse"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "bearer", res.TokenType)
	assert.Equal(t, "admin@example.com", res.User.Email)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+res.AccessToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(`{"email":""}`))))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
