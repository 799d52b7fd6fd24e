package author

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Author is the entity row. IDs are server-assigned, unique and
// monotonic per table (BIGSERIAL).
type Author struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	City string `json:"city" db:"city"`
}

const (
	MaxNameLength = 255
	MaxCityLength = 100
)

// CreateAuthorRequest - POST /api/authors
type CreateAuthorRequest struct {
	Name string `json:"name"`
	City string `json:"city"`
}

func (r CreateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, MaxNameLength)),
		validation.Field(&r.City, validation.Required, validation.Length(1, MaxCityLength)),
	)
}

// UpdateAuthorRequest - PUT /api/authors/:id (full-row replace)
type UpdateAuthorRequest struct {
	Name string `json:"name"`
	City string `json:"city"`
}

func (r UpdateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, MaxNameLength)),
		validation.Field(&r.City, validation.Required, validation.Length(1, MaxCityLength)),
	)
}

// Filter holds the list query parameters.
type Filter struct {
	Search string `form:"search"` // case-insensitive substring on name
	SortBy string `form:"sort"`   // id, name, city
	Order  string `form:"order"`  // asc, desc
}

// Repository is the data access contract; implemented by the
// Postgres repository and the in-memory repository.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]Author, error)
	GetByID(ctx context.Context, id int64) (*Author, error)
	Create(ctx context.Context, a *Author) (*Author, error)
	Update(ctx context.Context, a *Author) (*Author, error)
	Delete(ctx context.Context, id int64) error
	BookCount(ctx context.Context, authorID int64) (int, error)
}

// Service is the business logic contract consumed by the handler.
type Service interface {
	List(ctx context.Context, filter Filter) ([]Author, error)
	GetByID(ctx context.Context, id int64) (*Author, error)
	Create(ctx context.Context, req *CreateAuthorRequest) (*Author, error)
	Update(ctx context.Context, id int64, req *UpdateAuthorRequest) (*Author, error)
	Delete(ctx context.Context, id int64) error
}
