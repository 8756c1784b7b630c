package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-api/auth"
	"github.com/rpupo63/portfolio-api/config"
	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/database/dbtest"
	"github.com/rpupo63/portfolio-api/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const testSecret = "api-test-secret-with-at-least-32-chars"

type fakeStore struct {
	mu      sync.Mutex
	keys    []string
	failAt  int // 1-based call that fails; 0 never fails
	calls   int
	content map[string]string
}

func (f *fakeStore) Upload(_ context.Context, key string, _ []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failAt > 0 && f.calls == f.failAt {
		return errors.New("bucket unavailable")
	}
	if f.content == nil {
		f.content = map[string]string{}
	}
	f.keys = append(f.keys, key)
	f.content[key] = contentType
	return nil
}

func (f *fakeStore) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

type testEnv struct {
	handler http.Handler
	db      database.Database
	tokens  *auth.TokenService
	store   *fakeStore
}

func newTestEnv(t *testing.T, overrides ...func(*config.Config)) *testEnv {
	t.Helper()

	d, _ := dbtest.Open(t)
	tokens, err := auth.NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)
	store := &fakeStore{}

	cfg := &config.Config{
		ServerConfig: config.ServerConfig{AppEnv: config.EnvTest, BodyLimitBytes: 64 << 10},
	}
	for _, override := range overrides {
		override(cfg)
	}
	handler := newRouter(
		Dependencies{Database: d, Tokens: tokens, Storage: store},
		withConfig(cfg),
		withLogger(zerolog.Nop()),
	)
	return &testEnv{handler: handler, db: d, tokens: tokens, store: store}
}

func (e *testEnv) token(t *testing.T) string {
	t.Helper()
	token, err := e.tokens.Sign(auth.Identity{UserID: "6f1b5e0e-7d7c-4c55-9d55-0d2f5b1f3a10", Email: "admin@example.com"})
	require.NoError(t, err)
	return token
}

type request struct {
	method      string
	path        string
	body        any
	rawBody     []byte
	contentType string
	token       string
}

func (e *testEnv) do(t *testing.T, req request) *httptest.ResponseRecorder {
	t.Helper()
	header := ""
	if req.token != "" {
		header = "Bearer " + req.token
	}
	return e.doWithHeader(t, req, header)
}

// doWithHeader sends req with a verbatim Authorization header, omitted when empty.
func (e *testEnv) doWithHeader(t *testing.T, req request, authorization string) *httptest.ResponseRecorder {
	t.Helper()

	var body []byte
	switch {
	case req.rawBody != nil:
		body = req.rawBody
	case req.body != nil:
		var err error
		body, err = json.Marshal(req.body)
		require.NoError(t, err)
	}

	r := httptest.NewRequest(req.method, req.path, bytes.NewReader(body))
	if req.contentType != "" {
		r.Header.Set("Content-Type", req.contentType)
	} else if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if authorization != "" {
		r.Header.Set("Authorization", authorization)
	}

	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, r)
	return w
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out.Data
}

func (e *testEnv) createCategory(t *testing.T, name string) models.Category {
	t.Helper()
	w := e.do(t, request{method: http.MethodPost, path: "/api/categories", body: map[string]any{"name": name}, token: e.token(t)})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeData[models.Category](t, w)
}
