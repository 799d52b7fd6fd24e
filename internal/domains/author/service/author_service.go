package service

import (
	"context"
	"fmt"
	"strings"

	"bookshelf-backend/internal/domains/author"
)

// authorService implements author.Service.
type authorService struct {
	repo author.Repository
}

// NewAuthorService creates an author service. The service depends on
// the Repository abstraction, never on a concrete store.
func NewAuthorService(repo author.Repository) author.Service {
	return &authorService{
		repo: repo,
	}
}

// allowedSortColumns whitelists what List may sort by.
var allowedSortColumns = map[string]bool{
	"id":   true,
	"name": true,
	"city": true,
}

func (s *authorService) List(ctx context.Context, filter author.Filter) ([]author.Author, error) {
	filter.Search = strings.TrimSpace(filter.Search)

	if filter.SortBy == "" {
		filter.SortBy = "id" // creation order
	}
	if !allowedSortColumns[filter.SortBy] {
		return nil, fmt.Errorf("%w: %s", author.ErrInvalidSort, filter.SortBy)
	}

	filter.Order = strings.ToLower(filter.Order)
	if filter.Order != "desc" {
		filter.Order = "asc"
	}

	return s.repo.List(ctx, filter)
}

func (s *authorService) GetByID(ctx context.Context, id int64) (*author.Author, error) {
	if id <= 0 {
		return nil, author.ErrAuthorNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *authorService) Create(ctx context.Context, req *author.CreateAuthorRequest) (*author.Author, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.City = strings.TrimSpace(req.City)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	newAuthor := &author.Author{
		Name: req.Name,
		City: req.City,
	}

	created, err := s.repo.Create(ctx, newAuthor)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *authorService) Update(ctx context.Context, id int64, req *author.UpdateAuthorRequest) (*author.Author, error) {
	if id <= 0 {
		return nil, author.ErrAuthorNotFound
	}

	req.Name = strings.TrimSpace(req.Name)
	req.City = strings.TrimSpace(req.City)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	updated := &author.Author{
		ID:   id,
		Name: req.Name,
		City: req.City,
	}

	return s.repo.Update(ctx, updated)
}

func (s *authorService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return author.ErrAuthorNotFound
	}

	// Referential integrity check before the delete. The Postgres
	// foreign key would also catch this; checking here gives the
	// same behavior on every repository backend.
	bookCount, err := s.repo.BookCount(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check book count: %w", err)
	}
	if bookCount > 0 {
		return fmt.Errorf("%w: author has %d linked books", author.ErrAuthorHasBooks, bookCount)
	}

	return s.repo.Delete(ctx, id)
}
