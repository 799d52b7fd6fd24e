package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf-backend/internal/domains/author"
	authorrepo "bookshelf-backend/internal/domains/author/repository"
	"bookshelf-backend/internal/domains/book"
	bookrepo "bookshelf-backend/internal/domains/book/repository"
	"bookshelf-backend/internal/domains/book/service"
)

func setupRouter(t *testing.T) (*gin.Engine, *authorrepo.MemoryRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authors := authorrepo.NewMemoryRepository()
	books := bookrepo.NewMemoryRepository()
	books.SetAuthorLookup(func(ctx context.Context, id int64) (*book.AuthorRef, error) {
		a, err := authors.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &book.AuthorRef{ID: a.ID, Name: a.Name, City: a.City}, nil
	})

	h := NewBookHandler(service.NewBookService(books, authors))

	router := gin.New()
	group := router.Group("/api/books")
	{
		group.GET("", h.List)
		group.GET("/:id", h.GetByID)
		group.POST("", h.Create)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
	}
	return router, authors
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

// bookTestAuthor is the author most tests hang their books on.
var bookTestAuthor = author.Author{Name: "Eric Matthes", City: "New York"}

func TestBookHandler_CreateAndListEnvelope(t *testing.T) {
	router, authors := setupRouter(t)
	a, err := authors.Create(context.Background(), &bookTestAuthor)
	require.NoError(t, err)

	rec, body := doRequest(t, router, http.MethodPost, "/api/books", gin.H{
		"title":     "Python Crash Course",
		"author_id": a.ID,
		"year":      2019,
		"isbn":      "978-1593279288",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := body["book"].(map[string]interface{})
	embedded := created["author"].(map[string]interface{})
	assert.Equal(t, "Eric Matthes", embedded["name"])

	rec, body = doRequest(t, router, http.MethodGet, "/api/books", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["count"])
	books := body["books"].([]interface{})
	require.Len(t, books, 1)
}

func TestBookHandler_CreateMissingAuthorIs404(t *testing.T) {
	router, _ := setupRouter(t)

	rec, body := doRequest(t, router, http.MethodPost, "/api/books", gin.H{
		"title":     "Orphan Book",
		"author_id": 42,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, "AUTHOR_NOT_FOUND", errBody["code"])
}

func TestBookHandler_CreateDuplicateISBNIs409(t *testing.T) {
	router, authors := setupRouter(t)
	a, err := authors.Create(context.Background(), &bookTestAuthor)
	require.NoError(t, err)

	payload := gin.H{"title": "First", "author_id": a.ID, "isbn": "978-1593279288"}
	rec, _ := doRequest(t, router, http.MethodPost, "/api/books", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	payload["title"] = "Second"
	rec, body := doRequest(t, router, http.MethodPost, "/api/books", payload)
	assert.Equal(t, http.StatusConflict, rec.Code)
	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, "DUPLICATE_ISBN", errBody["code"])
}

func TestBookHandler_CreateValidationFailure(t *testing.T) {
	router, authors := setupRouter(t)
	a, err := authors.Create(context.Background(), &bookTestAuthor)
	require.NoError(t, err)

	rec, body := doRequest(t, router, http.MethodPost, "/api/books", gin.H{
		"title":     "",
		"author_id": a.ID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_FAILED", errBody["code"])
}

func TestBookHandler_GetByIDNotFound(t *testing.T) {
	router, _ := setupRouter(t)

	rec, body := doRequest(t, router, http.MethodGet, "/api/books/7", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, "BOOK_NOT_FOUND", errBody["code"])
}

func TestBookHandler_ListSortYearDesc(t *testing.T) {
	router, authors := setupRouter(t)
	a, err := authors.Create(context.Background(), &bookTestAuthor)
	require.NoError(t, err)

	for _, b := range []gin.H{
		{"title": "Undated Notes", "author_id": a.ID},
		{"title": "Flask Web Development", "author_id": a.ID, "year": 2018},
		{"title": "Python Crash Course", "author_id": a.ID, "year": 2019},
	} {
		rec, _ := doRequest(t, router, http.MethodPost, "/api/books", b)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, body := doRequest(t, router, http.MethodGet, "/api/books?sort=year&order=desc", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	books := body["books"].([]interface{})
	require.Len(t, books, 3)
	assert.Equal(t, "Python Crash Course", books[0].(map[string]interface{})["title"])
	assert.Equal(t, "Undated Notes", books[2].(map[string]interface{})["title"])
}

func TestBookHandler_DeleteThenGone(t *testing.T) {
	router, authors := setupRouter(t)
	a, err := authors.Create(context.Background(), &bookTestAuthor)
	require.NoError(t, err)

	rec, body := doRequest(t, router, http.MethodPost, "/api/books", gin.H{
		"title":     "Python Crash Course",
		"author_id": a.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := int64(body["book"].(map[string]interface{})["id"].(float64))

	rec, _ = doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/books/%d", id), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/books/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
