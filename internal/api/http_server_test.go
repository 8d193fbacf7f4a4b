package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"itemstore/internal/config"
	"itemstore/internal/database"
	"itemstore/internal/models"
	"itemstore/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(path, &logger)
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestHTTPServer(db *database.DB) *HTTPServer {
	logger := zerolog.New(io.Discard)
	cfg := config.APIConfig{Port: 0}
	items := service.NewItemService(db, &logger)
	return NewHTTPServer(&cfg, items, &logger)
}

func newTestServer(t *testing.T) (*httptest.Server, *database.DB) {
	t.Helper()
	db := newTestDB(t)
	server := newTestHTTPServer(db)
	ts := httptest.NewServer(server.server.Handler)
	t.Cleanup(ts.Close)
	return ts, db
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeItem(t *testing.T, resp *http.Response) models.Item {
	t.Helper()
	defer resp.Body.Close()
	var item models.Item
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&item))
	return item
}

func TestItemLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)

	// POST {"name":"Pen"} -> 201, description null
	resp := doJSON(t, http.MethodPost, ts.URL+"/items/", map[string]any{"name": "Pen"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeItem(t, resp)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Pen", created.Name)
	assert.Nil(t, created.Description)

	// PATCH /items/1 {"description":"Blue ink"} -> 200, name retained
	resp = doJSON(t, http.MethodPatch, fmt.Sprintf("%s/items/%d", ts.URL, created.ID),
		map[string]any{"description": "Blue ink"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	patched := decodeItem(t, resp)
	assert.Equal(t, "Pen", patched.Name)
	require.NotNil(t, patched.Description)
	assert.Equal(t, "Blue ink", *patched.Description)

	// DELETE /items/1 -> 204, empty body
	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/items/%d", ts.URL, created.ID), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Empty(t, body)

	// GET /items/1 -> 404
	resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/items/%d", ts.URL, created.ID), nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListItems(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/items/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []models.Item
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	resp.Body.Close()
	assert.Empty(t, items)

	doJSON(t, http.MethodPost, ts.URL+"/items/", map[string]any{"name": "A"}).Body.Close()
	doJSON(t, http.MethodPost, ts.URL+"/items/", map[string]any{"name": "B"}).Body.Close()

	resp = doJSON(t, http.MethodGet, ts.URL+"/items/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	resp.Body.Close()
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Name)
	assert.Equal(t, "B", items[1].Name)
}

func TestCreateItem_Validation(t *testing.T) {
	ts, _ := newTestServer(t)

	t.Run("MissingName", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, ts.URL+"/items/", map[string]any{"description": "x"})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("BlankName", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, ts.URL+"/items/", map[string]any{"name": "   "})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("UnknownField", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, ts.URL+"/items/", map[string]any{"name": "Pen", "color": "blue"})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/items/", "application/json", bytes.NewReader([]byte("{not json")))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestPatchItem_Validation(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/items/", map[string]any{"name": "Pen"})
	created := decodeItem(t, resp)

	t.Run("BlankName", func(t *testing.T) {
		resp := doJSON(t, http.MethodPatch, fmt.Sprintf("%s/items/%d", ts.URL, created.ID),
			map[string]any{"name": ""})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("EmptyPatchIsNoOp", func(t *testing.T) {
		resp := doJSON(t, http.MethodPatch, fmt.Sprintf("%s/items/%d", ts.URL, created.ID),
			map[string]any{})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		item := decodeItem(t, resp)
		assert.Equal(t, "Pen", item.Name)
	})

	t.Run("NotFound", func(t *testing.T) {
		resp := doJSON(t, http.MethodPatch, ts.URL+"/items/999", map[string]any{"name": "X"})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestInvalidItemID(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/items/abc", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMethodNotAllowed(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPut, ts.URL+"/items/1", map[string]any{"name": "Pen"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestStoreFailure_Returns500(t *testing.T) {
	ts, db := newTestServer(t)

	// Closing the store makes every CRUD operation fail
	db.Close()

	resp := doJSON(t, http.MethodPost, ts.URL+"/items/", map[string]any{"name": "Pen"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "internal server error", body.Error)
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/healthz", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequestIDHeader(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/items/", nil)
	defer resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestEndpointLabel(t *testing.T) {
	assert.Equal(t, "/items/", endpointLabel("/items/"))
	assert.Equal(t, "/items", endpointLabel("/items"))
	assert.Equal(t, "/items/{id}", endpointLabel("/items/42"))
	assert.Equal(t, "/items/export", endpointLabel("/items/export"))
	assert.Equal(t, "/healthz", endpointLabel("/healthz"))
}
