package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf-backend/internal/domains/author/repository"
	"bookshelf-backend/internal/domains/author/service"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepository()
	h := NewAuthorHandler(service.NewAuthorService(repo))

	router := gin.New()
	authors := router.Group("/api/authors")
	{
		authors.GET("", h.List)
		authors.GET("/:id", h.GetByID)
		authors.POST("", h.Create)
		authors.PUT("/:id", h.Update)
		authors.DELETE("/:id", h.Delete)
	}
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	return rec, parsed
}

func createAuthorViaAPI(t *testing.T, router *gin.Engine, name, city string) int64 {
	t.Helper()
	rec, body := doRequest(t, router, http.MethodPost, "/api/authors", gin.H{"name": name, "city": city})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := body["author"].(map[string]interface{})
	return int64(created["id"].(float64))
}

func TestAuthorHandler_ListEnvelope(t *testing.T) {
	router := setupRouter(t)
	createAuthorViaAPI(t, router, "Eric Matthes", "New York")
	createAuthorViaAPI(t, router, "Miguel Grinberg", "Washington")

	rec, body := doRequest(t, router, http.MethodGet, "/api/authors", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["count"])

	authors := body["authors"].([]interface{})
	require.Len(t, authors, 2)
	first := authors[0].(map[string]interface{})
	assert.Equal(t, "Eric Matthes", first["name"])
}

func TestAuthorHandler_ListEmptyCollection(t *testing.T) {
	router := setupRouter(t)

	rec, body := doRequest(t, router, http.MethodGet, "/api/authors", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), body["count"])
	assert.NotNil(t, body["authors"], "empty collection must be [], not null")
}

func TestAuthorHandler_CreateValidationFailure(t *testing.T) {
	router := setupRouter(t)

	rec, body := doRequest(t, router, http.MethodPost, "/api/authors", gin.H{"name": "", "city": "New York"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])

	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_FAILED", errBody["code"])
	details := errBody["details"].(map[string]interface{})
	assert.Contains(t, details, "name")
}

func TestAuthorHandler_CreateDuplicateName(t *testing.T) {
	router := setupRouter(t)
	createAuthorViaAPI(t, router, "Eric Matthes", "New York")

	rec, body := doRequest(t, router, http.MethodPost, "/api/authors", gin.H{"name": "Eric Matthes", "city": "Boston"})

	assert.Equal(t, http.StatusConflict, rec.Code)
	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, "DUPLICATE_NAME", errBody["code"])
}

func TestAuthorHandler_GetByIDNotFound(t *testing.T) {
	router := setupRouter(t)

	rec, body := doRequest(t, router, http.MethodGet, "/api/authors/99", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, "AUTHOR_NOT_FOUND", errBody["code"])
}

func TestAuthorHandler_InvalidIDFormat(t *testing.T) {
	router := setupRouter(t)

	rec, body := doRequest(t, router, http.MethodGet, "/api/authors/abc", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, "BAD_REQUEST", errBody["code"])
}

func TestAuthorHandler_UpdateRoundTrip(t *testing.T) {
	router := setupRouter(t)
	id := createAuthorViaAPI(t, router, "Eric Matthes", "New York")

	rec, body := doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/authors/%d", id),
		gin.H{"name": "Eric Matthes", "city": "Seattle"})

	assert.Equal(t, http.StatusOK, rec.Code)
	updated := body["author"].(map[string]interface{})
	assert.Equal(t, "Seattle", updated["city"])

	// Read back through the API.
	rec, body = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/authors/%d", id), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	got := body["author"].(map[string]interface{})
	assert.Equal(t, "Seattle", got["city"])
}

func TestAuthorHandler_DeleteThenGone(t *testing.T) {
	router := setupRouter(t)
	id := createAuthorViaAPI(t, router, "Eric Matthes", "New York")

	rec, _ := doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/authors/%d", id), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/authors/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthorHandler_DeleteMissingID(t *testing.T) {
	router := setupRouter(t)
	createAuthorViaAPI(t, router, "Eric Matthes", "New York")

	rec, _ := doRequest(t, router, http.MethodDelete, "/api/authors/404", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The existing author is untouched.
	rec, body := doRequest(t, router, http.MethodGet, "/api/authors", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["count"])
}

func TestAuthorHandler_ListSearchAndSort(t *testing.T) {
	router := setupRouter(t)
	createAuthorViaAPI(t, router, "Miguel Grinberg", "Washington")
	createAuthorViaAPI(t, router, "Eric Matthes", "New York")

	rec, body := doRequest(t, router, http.MethodGet, "/api/authors?search=MATT", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["count"])

	rec, body = doRequest(t, router, http.MethodGet, "/api/authors?sort=name&order=asc", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	authors := body["authors"].([]interface{})
	require.Len(t, authors, 2)
	assert.Equal(t, "Eric Matthes", authors[0].(map[string]interface{})["name"])

	rec, body = doRequest(t, router, http.MethodGet, "/api/authors?sort=nope", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_SORT", errBody["code"])
}
