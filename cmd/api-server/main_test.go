package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"mangatheque/internal/app"
	"mangatheque/pkg/utils"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	a, err := app.New(context.Background(), utils.Config{Storage: utils.StorageMemory, StorageKey: "k"}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return newRouter(a)
}

func call(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h := newTestServer(t)
	w := call(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","storage":"memory"}`, w.Body.String())
}

func TestRoutesWiredTogether(t *testing.T) {
	h := newTestServer(t)

	w := call(t, h, http.MethodPost, "/series", `{"title":"Berserk","author":"Kentaro Miura"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = call(t, h, http.MethodPost, "/series/"+created.ID+"/volumes", `{"number":1}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = call(t, h, http.MethodPost, "/series/"+created.ID+"/sync", "")
	assert.Equal(t, http.StatusAccepted, w.Code)
	w = call(t, h, http.MethodPost, "/series/missing/sync", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = call(t, h, http.MethodGet, "/sync", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(t, h, http.MethodPost, "/suggest", `{"query":"berserk"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = call(t, h, http.MethodGet, "/report?format=text", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "📖 Série : BERSERK")
	assert.Contains(t, w.Body.String(), "❌ Tomes à acheter : aucun")

	w = call(t, h, http.MethodGet, "/debug", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"series":1`)
}
