package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-api/auth"
	"github.com/rpupo63/portfolio-api/config"
	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAdmin(t *testing.T, env *testEnv, email, password string) models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	user := models.User{Email: email, PasswordHash: hash}
	require.NoError(t, env.db.UserRepo().Create(context.Background(), &user))
	return user
}

func TestLogin(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	admin := seedAdmin(t, env, "admin@example.com", "correct horse battery staple")

	w := env.do(t, request{method: http.MethodPost, path: "/api/auth/login", body: map[string]string{
		"email": "  Admin@Example.com ", "password": "correct horse battery staple",
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp loginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, admin.ID.String(), resp.User.ID)
	assert.Equal(t, "admin@example.com", resp.User.Email)

	identity, err := env.tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID.String(), identity.UserID)

	me := env.do(t, request{method: http.MethodGet, path: "/api/auth/me", token: resp.Token})
	require.Equal(t, http.StatusOK, me.Code)
	assert.JSONEq(t, `{"user":{"id":"`+admin.ID.String()+`","email":"admin@example.com"}}`, me.Body.String())
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	seedAdmin(t, env, "admin@example.com", "correct horse battery staple")

	for name, body := range map[string]map[string]string{
		"wrong password": {"email": "admin@example.com", "password": "nope"},
		"unknown email":  {"email": "ghost@example.com", "password": "correct horse battery staple"},
	} {
		t.Run(name, func(t *testing.T) {
			w := env.do(t, request{method: http.MethodPost, path: "/api/auth/login", body: body})
			require.Equal(t, http.StatusUnauthorized, w.Code)
			got := decodeError(t, w)
			assert.Equal(t, errs.CodeUnauthorized, got.Error.Code)
			assert.Equal(t, "invalid email or password", got.Error.Message)
		})
	}

	w := env.do(t, request{method: http.MethodPost, path: "/api/auth/login", body: map[string]string{"email": "not-an-email", "password": "x"}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Error.Message, "email")
}

func TestWritesRequireBearerToken(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	otherKey, err := auth.NewTokenService("a-completely-different-secret-of-32+", time.Hour)
	require.NoError(t, err)
	forged, err := otherKey.Sign(auth.Identity{UserID: "u", Email: "admin@example.com"})
	require.NoError(t, err)

	expiredSigner, err := auth.NewTokenService(testSecret, time.Minute)
	require.NoError(t, err)
	expired, err := expiredSigner.WithClock(func() time.Time { return time.Now().Add(-time.Hour) }).
		Sign(auth.Identity{UserID: "u", Email: "admin@example.com"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"missing header", "", "missing authorization header"},
		{"basic scheme", "Basic YWRtaW46cGFzcw==", "authorization header must use the Bearer scheme"},
		{"empty bearer", "Bearer ", "authorization header must use the Bearer scheme"},
		{"garbage token", "Bearer not.a.jwt", "invalid token"},
		{"wrong secret", "Bearer " + forged, "invalid token"},
		{"expired", "Bearer " + expired, "token has expired"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := request{method: http.MethodPost, path: "/api/categories", body: map[string]string{"name": "x"}}
			w := env.doWithHeader(t, r, tc.header)
			require.Equal(t, http.StatusUnauthorized, w.Code)
			got := decodeError(t, w)
			assert.Equal(t, errs.CodeUnauthorized, got.Error.Code)
			assert.Equal(t, tc.message, got.Error.Message)
		})
	}

	w := env.do(t, request{method: http.MethodGet, path: "/api/categories"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealth(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(t, request{method: http.MethodGet, path: "/health"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"message":"ok","db":"connected"}`, w.Body.String())

	require.NoError(t, env.db.Close())

	w = env.do(t, request{method: http.MethodGet, path: "/health"})
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"ok":false,"message":"database unreachable","db":"disconnected"}`, w.Body.String())
}

func TestCORS(t *testing.T) {
	t.Parallel()

	withoutOrigins := newTestEnv(t)
	r := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	r.Header.Set("Origin", "https://example.com")
	w := httptest.NewRecorder()
	withoutOrigins.handler.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	withOrigins := newTestEnv(t, func(c *config.Config) { c.CORSOrigins = []string{"https://example.com"} })
	for origin, want := range map[string]string{
		"https://example.com": "https://example.com",
		"https://evil.test":   "",
	} {
		r := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
		r.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		withOrigins.handler.ServeHTTP(w, r)
		assert.Equalf(t, want, w.Header().Get("Access-Control-Allow-Origin"), "origin %s", origin)
	}
}
