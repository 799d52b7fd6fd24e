package book

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Book is the storage-shaped entity: it references its author by
// foreign id. Year and ISBN are optional.
type Book struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Year      *int      `json:"year,omitempty" db:"year"`
	ISBN      *string   `json:"isbn,omitempty" db:"isbn"`
	AuthorID  int64     `json:"author_id" db:"author_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// AuthorRef is the author embedded by value in read responses.
type AuthorRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

// BookResponse is the API read shape: the author reference is
// denormalized into an embedded object (JOIN on read).
type BookResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Year      *int      `json:"year,omitempty"`
	ISBN      *string   `json:"isbn,omitempty"`
	Author    AuthorRef `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	MaxTitleLength = 500
	MaxISBNLength  = 20
	MinYear        = 1000
)

// CreateBookRequest - POST /api/books
type CreateBookRequest struct {
	Title    string  `json:"title"`
	AuthorID int64   `json:"author_id"`
	Year     *int    `json:"year,omitempty"`
	ISBN     *string `json:"isbn,omitempty"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, MaxTitleLength)),
		validation.Field(&r.AuthorID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.Year, validation.Min(MinYear)),
		validation.Field(&r.ISBN, validation.Length(1, MaxISBNLength)),
	)
}

// UpdateBookRequest - PUT /api/books/:id (full-row replace)
type UpdateBookRequest struct {
	Title    string  `json:"title"`
	AuthorID int64   `json:"author_id"`
	Year     *int    `json:"year,omitempty"`
	ISBN     *string `json:"isbn,omitempty"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, MaxTitleLength)),
		validation.Field(&r.AuthorID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.Year, validation.Min(MinYear)),
		validation.Field(&r.ISBN, validation.Length(1, MaxISBNLength)),
	)
}

// Filter holds the list query parameters.
type Filter struct {
	Query  string `form:"q"`      // case-insensitive substring on title
	Author string `form:"author"` // case-insensitive substring on author name
	Year   *int   `form:"year"`   // exact match
	SortBy string `form:"sort"`   // id, title, year, created_at
	Order  string `form:"order"`  // asc, desc
}

// Repository is the data access contract. Reads return the
// denormalized BookResponse shape.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]BookResponse, error)
	GetByID(ctx context.Context, id int64) (*BookResponse, error)
	Create(ctx context.Context, b *Book) (*BookResponse, error)
	Update(ctx context.Context, b *Book) (*BookResponse, error)
	Delete(ctx context.Context, id int64) error
}

// Service is the business logic contract consumed by the handler.
type Service interface {
	List(ctx context.Context, filter Filter) ([]BookResponse, error)
	GetByID(ctx context.Context, id int64) (*BookResponse, error)
	Create(ctx context.Context, req *CreateBookRequest) (*BookResponse, error)
	Update(ctx context.Context, id int64, req *UpdateBookRequest) (*BookResponse, error)
	Delete(ctx context.Context, id int64) error
}
