package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"bookshelf-backend/internal/domains/author"
	"bookshelf-backend/internal/shared/response"
)

type AuthorHandler struct {
	service author.Service
}

func NewAuthorHandler(svc author.Service) *AuthorHandler {
	return &AuthorHandler{
		service: svc,
	}
}

// ════════════════════════════════════════════════════════════════
// LIST: GET /api/authors?search=&sort=name&order=asc
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) List(c *gin.Context) {
	filter := author.Filter{
		Search: c.Query("search"),
		SortBy: c.Query("sort"),
		Order:  c.Query("order"),
	}

	authors, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	response.OK(c, gin.H{
		"count":   len(authors),
		"authors": authors,
	})
}

// ════════════════════════════════════════════════════════════════
// READ: GET /api/authors/:id
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	a, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	response.OK(c, gin.H{"author": a})
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /api/authors
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) Create(c *gin.Context) {
	var req author.CreateAuthorRequest
	if err := c.BindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	a, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	response.Created(c, gin.H{
		"message": "Author created successfully",
		"author":  a,
	})
}

// ════════════════════════════════════════════════════════════════
// UPDATE: PUT /api/authors/:id
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req author.UpdateAuthorRequest
	if err := c.BindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	a, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	response.OK(c, gin.H{
		"message": "Author updated successfully",
		"author":  a,
	})
}

// ════════════════════════════════════════════════════════════════
// DELETE: DELETE /api/authors/:id
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeDomainError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "Author deleted successfully"})
}

// parseID reads the :id path parameter; writes the error response
// itself on failure.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "Invalid id format")
		return 0, false
	}
	return id, true
}

// writeDomainError maps service errors onto the response envelope:
// validation failures carry per-field details, domain errors map
// through the author error tables.
func writeDomainError(c *gin.Context, err error) {
	var vErrs validation.Errors
	if errors.As(err, &vErrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", vErrs)
		return
	}
	response.ErrorResponse(c, author.ToHTTPStatus(err), author.ToErrorCode(err), err.Error())
}
