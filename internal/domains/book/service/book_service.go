package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookshelf-backend/internal/domains/author"
	"bookshelf-backend/internal/domains/book"
)

// bookService implements book.Service. It takes the author repository
// alongside its own so writes can verify the referenced author exists
// before touching the books store.
type bookService struct {
	repo    book.Repository
	authors author.Repository
}

func NewBookService(repo book.Repository, authors author.Repository) book.Service {
	return &bookService{
		repo:    repo,
		authors: authors,
	}
}

var allowedSortColumns = map[string]bool{
	"id":         true,
	"title":      true,
	"year":       true,
	"created_at": true,
}

func (s *bookService) List(ctx context.Context, filter book.Filter) ([]book.BookResponse, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	filter.Author = strings.TrimSpace(filter.Author)

	if filter.SortBy == "" {
		filter.SortBy = "id" // creation order
	}
	if !allowedSortColumns[filter.SortBy] {
		return nil, fmt.Errorf("%w: %s", book.ErrInvalidSort, filter.SortBy)
	}

	filter.Order = strings.ToLower(filter.Order)
	if filter.Order != "desc" {
		filter.Order = "asc"
	}

	return s.repo.List(ctx, filter)
}

func (s *bookService) GetByID(ctx context.Context, id int64) (*book.BookResponse, error) {
	if id <= 0 {
		return nil, book.ErrBookNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *bookService) Create(ctx context.Context, req *book.CreateBookRequest) (*book.BookResponse, error) {
	req.Title = strings.TrimSpace(req.Title)
	normalizeISBN(&req.ISBN)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkAuthorExists(ctx, req.AuthorID); err != nil {
		return nil, err
	}

	newBook := &book.Book{
		Title:    req.Title,
		Year:     req.Year,
		ISBN:     req.ISBN,
		AuthorID: req.AuthorID,
	}

	return s.repo.Create(ctx, newBook)
}

func (s *bookService) Update(ctx context.Context, id int64, req *book.UpdateBookRequest) (*book.BookResponse, error) {
	if id <= 0 {
		return nil, book.ErrBookNotFound
	}

	req.Title = strings.TrimSpace(req.Title)
	normalizeISBN(&req.ISBN)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkAuthorExists(ctx, req.AuthorID); err != nil {
		return nil, err
	}

	updated := &book.Book{
		ID:       id,
		Title:    req.Title,
		Year:     req.Year,
		ISBN:     req.ISBN,
		AuthorID: req.AuthorID,
	}

	return s.repo.Update(ctx, updated)
}

func (s *bookService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return book.ErrBookNotFound
	}
	return s.repo.Delete(ctx, id)
}

// checkAuthorExists rejects writes that reference a missing author.
// The Postgres foreign key would also catch this; checking here keeps
// the behavior identical on every repository backend.
func (s *bookService) checkAuthorExists(ctx context.Context, authorID int64) error {
	if _, err := s.authors.GetByID(ctx, authorID); err != nil {
		if errors.Is(err, author.ErrAuthorNotFound) {
			return book.ErrAuthorNotFound
		}
		return fmt.Errorf("failed to verify author: %w", err)
	}
	return nil
}

// normalizeISBN trims whitespace and treats an empty ISBN as absent,
// so blank form submissions don't collide on the unique constraint.
func normalizeISBN(isbn **string) {
	if *isbn == nil {
		return
	}
	trimmed := strings.TrimSpace(**isbn)
	if trimmed == "" {
		*isbn = nil
		return
	}
	*isbn = &trimmed
}
