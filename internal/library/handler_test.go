package library

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mangatheque/internal/imagedata"
	"mangatheque/pkg/models"
)

type syncingSet map[string]bool

func (s syncingSet) IsSyncing(id string) bool { return s[id] }

var tinyPNG, _ = base64.StdEncoding.DecodeString(
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII=")

func setupRouter(t *testing.T, status SyncStatus) (*gin.Engine, *Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	st, _, _ := setupTestStore(t)
	r := gin.New()
	NewHandler(st, status, imagedata.NewEncoder(1024)).RegisterRoutes(r.Group(""))
	return r, st
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type seriesBody struct {
	models.Series
	OwnedCount int  `json:"ownedCount"`
	Syncing    bool `json:"syncing"`
}

func decodeSeries(t *testing.T, w *httptest.ResponseRecorder) seriesBody {
	t.Helper()
	var out seriesBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHandlerSeriesLifecycle(t *testing.T) {
	r, _ := setupRouter(t, syncingSet{"series-1": true})

	w := do(r, http.MethodPost, "/series", `{"title":"One Piece","author":"Eiichiro Oda","nationality":"Japonais"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "/series/series-1", w.Header().Get("Location"))
	created := decodeSeries(t, w)
	assert.Equal(t, "One Piece", created.Title)
	assert.True(t, created.Syncing)

	w = do(r, http.MethodPost, "/series/series-1/volumes", `{"number":2}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w = do(r, http.MethodPost, "/series/series-1/volumes", `{"number":1}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w = do(r, http.MethodPost, "/series/series-1/volumes", `{"number":1}`)
	require.Equal(t, http.StatusOK, w.Code)

	got := decodeSeries(t, w)
	require.Len(t, got.Volumes, 2)
	assert.Equal(t, 1, got.Volumes[0].Number)

	w = do(r, http.MethodPost, "/series/series-1/volumes/"+got.Volumes[0].ID+"/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)
	got = decodeSeries(t, w)
	assert.Equal(t, 1, got.OwnedCount)

	w = do(r, http.MethodDelete, "/series/series-1/volumes/"+got.Volumes[1].ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeSeries(t, w).Volumes, 1)

	w = do(r, http.MethodGet, "/series", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Total int          `json:"total"`
		Items []seriesBody `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)
}

func TestHandlerValidation(t *testing.T) {
	r, _ := setupRouter(t, nil)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/series", `{"title":"  "}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/series", `not json`).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/series/missing", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/series/missing/volumes", `{"number":1}`).Code)

	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/series", `{"title":"Akira"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/series/series-1/volumes", `{"number":0}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/series/series-1/volumes", `{"number":"abc"}`).Code)
}

func TestHandlerDeleteRequiresConfirm(t *testing.T) {
	r, st := setupRouter(t, nil)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/series", `{"title":"Akira"}`).Code)

	w := do(r, http.MethodDelete, "/series/series-1", "")
	assert.Equal(t, http.StatusPreconditionRequired, w.Code)
	assert.Len(t, st.List(), 1)

	w = do(r, http.MethodDelete, "/series/series-1?confirm=true", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, st.List())

	w = do(r, http.MethodDelete, "/series/series-1?confirm=true", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlerImageJSON(t *testing.T) {
	r, st := setupRouter(t, nil)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/series", `{"title":"Akira"}`).Code)

	w := do(r, http.MethodPut, "/series/series-1/image", `{"imageUrl":"https://example.com/cover.jpg"}`)
	require.Equal(t, http.StatusOK, w.Code)
	got, _ := st.Get("series-1")
	assert.Equal(t, "https://example.com/cover.jpg", got.ImageURL)
}

func multipartImage(t *testing.T, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "cover.png")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHandlerImageUpload(t *testing.T) {
	r, st := setupRouter(t, nil)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/series", `{"title":"Akira"}`).Code)

	body, ct := multipartImage(t, tinyPNG)
	req := httptest.NewRequest(http.MethodPut, "/series/series-1/image", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got, _ := st.Get("series-1")
	assert.True(t, strings.HasPrefix(got.ImageURL, "data:image/png;base64,"))

	body, ct = multipartImage(t, []byte("just some text"))
	req = httptest.NewRequest(http.MethodPut, "/series/series-1/image", body)
	req.Header.Set("Content-Type", ct)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerNavigation(t *testing.T) {
	r, st := setupRouter(t, nil)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/series", `{"title":"Akira"}`).Code)

	w := do(r, http.MethodPost, "/nav", `{"view":"detail","activeSeriesId":"series-1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.Navigation{View: models.ViewDetail, ActiveSeriesID: "series-1"}, st.Navigation())

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/nav", `{"view":"detail","activeSeriesId":"nope"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/nav", `{"view":"settings"}`).Code)

	w = do(r, http.MethodPost, "/nav", `{"view":"report"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/nav", "")
	var nav models.Navigation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &nav))
	assert.Equal(t, models.ViewReport, nav.View)
}
