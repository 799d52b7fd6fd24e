package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"bookshelf-backend/internal/domains/student"
	"bookshelf-backend/internal/shared/response"
)

type StudentHandler struct {
	service student.Service
}

func NewStudentHandler(svc student.Service) *StudentHandler {
	return &StudentHandler{
		service: svc,
	}
}

// ════════════════════════════════════════════════════════════════
// LIST: GET /api/students?search=
// ════════════════════════════════════════════════════════════════

func (h *StudentHandler) List(c *gin.Context) {
	filter := student.Filter{
		Search: c.Query("search"),
	}

	students, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	response.OK(c, gin.H{
		"count":    len(students),
		"students": students,
	})
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /api/students
// ════════════════════════════════════════════════════════════════

func (h *StudentHandler) Create(c *gin.Context) {
	var req student.CreateStudentRequest
	if err := c.BindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	s, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	response.Created(c, gin.H{
		"message": "Student created successfully",
		"student": s,
	})
}

// ════════════════════════════════════════════════════════════════
// SAMPLE: POST /api/students/sample
// ════════════════════════════════════════════════════════════════

func (h *StudentHandler) AddSample(c *gin.Context) {
	s, err := h.service.AddSample(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}

	response.Created(c, gin.H{
		"message": "Sample student added",
		"student": s,
	})
}

// ════════════════════════════════════════════════════════════════
// UPDATE: PUT /api/students/:id
// ════════════════════════════════════════════════════════════════

func (h *StudentHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req student.UpdateStudentRequest
	if err := c.BindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	s, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	response.OK(c, gin.H{
		"message": "Student updated successfully",
		"student": s,
	})
}

// ════════════════════════════════════════════════════════════════
// DELETE: DELETE /api/students/:id
// ════════════════════════════════════════════════════════════════

func (h *StudentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeDomainError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "Student deleted successfully"})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "Invalid id format")
		return 0, false
	}
	return id, true
}

func writeDomainError(c *gin.Context, err error) {
	var vErrs validation.Errors
	if errors.As(err, &vErrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", vErrs)
		return
	}
	response.ErrorResponse(c, student.ToHTTPStatus(err), student.ToErrorCode(err), err.Error())
}
