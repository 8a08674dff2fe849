package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veneer-editor/veneer/internal/auth"
	"github.com/veneer-editor/veneer/internal/config"
	"github.com/veneer-editor/veneer/internal/decorations"
	"github.com/veneer-editor/veneer/internal/registrar"
	"github.com/veneer-editor/veneer/internal/scm"
	"github.com/veneer-editor/veneer/internal/websocket"
)

func newTestServer(t *testing.T, tokenHash string) *httptest.Server {
	t.Helper()

	registry := scm.NewRegistry()
	service := decorations.NewService()

	cfg := config.Defaults()
	reg := registrar.New(registry, service, cfg)
	t.Cleanup(func() { reg.Close() })

	handler := NewRouter(registry, service, websocket.NewHub(), func() string { return tokenHash })
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestRepositoryPushAndDecorationQuery(t *testing.T) {
	srv := newTestServer(t, "")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/repositories",
		map[string]string{"label": "Git", "root": "file:///work"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	handle := decodeBody[map[string]string](t, resp)["handle"]
	require.NotEmpty(t, handle)

	resp = doJSON(t, http.MethodPut, srv.URL+"/api/repositories/"+handle+"/groups",
		[]map[string]any{{
			"id":    "workingTree",
			"label": "Changes",
			"resources": []map[string]any{
				{"uri": "file:///work/main.go", "status": "modified", "tooltip": "Modified"},
			},
		}})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/decorations?uri=file:///work/main.go", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decodeBody[struct {
		Found      bool                   `json:"found"`
		Decoration decorations.Decoration `json:"decoration"`
	}](t, resp)
	assert.True(t, result.Found)
	assert.Equal(t, "M", result.Decoration.Letter)
	assert.Contains(t, result.Decoration.Tooltip, "Git")

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/decorations?uri=file:///work/other.go", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	miss := decodeBody[map[string]any](t, resp)
	assert.Equal(t, false, miss["found"])
}

func TestRemoveRepositoryIsIdempotent(t *testing.T) {
	srv := newTestServer(t, "")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/repositories",
		map[string]string{"label": "Git", "root": "file:///work"})
	handle := decodeBody[map[string]string](t, resp)["handle"]

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/repositories/"+handle, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Second delete and unknown handles are no-ops.
	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/repositories/"+handle, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/repositories/never-existed", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestPushGroupsRejectsBadState(t *testing.T) {
	srv := newTestServer(t, "")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/repositories",
		map[string]string{"label": "Git", "root": "file:///work"})
	handle := decodeBody[map[string]string](t, resp)["handle"]

	resp = doJSON(t, http.MethodPut, srv.URL+"/api/repositories/"+handle+"/groups",
		[]map[string]any{{
			"id": "g", "label": "G",
			"resources": []map[string]any{{"uri": "file:///x", "status": "exploded"}},
		}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPut, srv.URL+"/api/repositories/unknown/groups", []map[string]any{})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAuthMiddleware(t *testing.T) {
	hash, err := auth.HashToken("super-secret-token")
	require.NoError(t, err)
	srv := newTestServer(t, hash)

	// Health stays open.
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// No token.
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/repositories", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Wrong token.
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/repositories", nil)
	req.Header.Set("Authorization", "Bearer nope-nope-nope")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)

	// Correct token.
	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/api/repositories", nil)
	req.Header.Set("Authorization", "Bearer super-secret-token")
	resp3, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp3.Body.Close()
	assert.Equal(t, http.StatusOK, resp3.StatusCode)
}

func TestOpenRequestLifecycle(t *testing.T) {
	srv := newTestServer(t, "")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/open", map[string]any{
		"targets": []map[string]any{{"path": "/work/main.go", "line": 10, "column": 5}},
		"wait":    true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[OpenRequest](t, resp)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.Done)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/open/pending", nil)
	pending := decodeBody[[]OpenRequest](t, resp)
	require.Len(t, pending, 1)
	assert.Equal(t, created.ID, pending[0].ID)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/open/"+created.ID+"/done", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/open/"+created.ID, nil)
	fetched := decodeBody[OpenRequest](t, resp)
	assert.True(t, fetched.Done)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/open/pending", nil)
	assert.Empty(t, decodeBody[[]OpenRequest](t, resp))

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/open/missing-id", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateOpenRequiresTargets(t *testing.T) {
	srv := newTestServer(t, "")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/open", map[string]any{"wait": true})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
