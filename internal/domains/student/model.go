package student

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Student is an enrolled student. Email is unique across the table.
type Student struct {
	ID     int64  `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Email  string `json:"email" db:"email"`
	Course string `json:"course" db:"course"`
}

const (
	MaxNameLength   = 255
	MaxEmailLength  = 255
	MaxCourseLength = 100
)

// CreateStudentRequest - POST /api/students
type CreateStudentRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Course string `json:"course"`
}

func (r CreateStudentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, MaxNameLength)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, MaxEmailLength), is.Email),
		validation.Field(&r.Course, validation.Required, validation.Length(1, MaxCourseLength)),
	)
}

// UpdateStudentRequest - PUT /api/students/:id (full-row replace)
type UpdateStudentRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Course string `json:"course"`
}

func (r UpdateStudentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, MaxNameLength)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, MaxEmailLength), is.Email),
		validation.Field(&r.Course, validation.Required, validation.Length(1, MaxCourseLength)),
	)
}

// Filter holds the list query parameters.
type Filter struct {
	Search string `form:"search"` // case-insensitive substring on name
}

// Repository is the data access contract. Listings come back newest
// first.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]Student, error)
	GetByID(ctx context.Context, id int64) (*Student, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, s *Student) (*Student, error)
	Update(ctx context.Context, s *Student) (*Student, error)
	Delete(ctx context.Context, id int64) error
}

// Service is the business logic contract consumed by the handler.
type Service interface {
	List(ctx context.Context, filter Filter) ([]Student, error)
	Create(ctx context.Context, req *CreateStudentRequest) (*Student, error)
	AddSample(ctx context.Context) (*Student, error)
	Update(ctx context.Context, id int64, req *UpdateStudentRequest) (*Student, error)
	Delete(ctx context.Context, id int64) error
}
