package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookshelf-backend/internal/domains/author"
	"bookshelf-backend/pkg/cache"
)

// postgresRepository implements author.Repository with pgxpool for
// PostgreSQL and a cache-aside layer for point reads.
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

var _ author.Repository = (*postgresRepository)(nil)

// NewPostgresRepository creates an author repository. Pool and cache
// are injected by the container.
func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) author.Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

// Cache key constants
const (
	authorCacheKeyPrefix = "author:"
	authorListKeyPrefix  = "authors:list:"
	authorListDefaultKey = authorListKeyPrefix + "default"
	cacheTTL             = 15 * time.Minute
)

// List returns authors matching the filter. The unfiltered default
// listing is cached; filtered views always hit the database.
func (r *postgresRepository) List(ctx context.Context, filter author.Filter) ([]author.Author, error) {
	defaultListing := filter.Search == "" && (filter.SortBy == "" || filter.SortBy == "id") && filter.Order != "desc"

	if defaultListing {
		var cached []author.Author
		if found, err := r.cache.Get(ctx, authorListDefaultKey, &cached); err == nil && found {
			return cached, nil
		}
	}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, name, city FROM authors`)

	args := []interface{}{}
	if filter.Search != "" {
		queryBuilder.WriteString(" WHERE name ILIKE $1")
		args = append(args, "%"+escapeWildcards(filter.Search)+"%")
	}

	// Sort column is whitelisted by the service; anything else
	// falls back to creation order.
	sortColumn := "id"
	switch filter.SortBy {
	case "name":
		sortColumn = "name"
	case "city":
		sortColumn = "city"
	}

	sortOrder := "ASC"
	if filter.Order == "desc" {
		sortOrder = "DESC"
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s %s", sortColumn, sortOrder))

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query authors: %w", err)
	}
	defer rows.Close()

	authors := []author.Author{}
	for rows.Next() {
		var a author.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.City); err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating authors: %w", err)
	}

	if defaultListing {
		r.cache.Set(ctx, authorListDefaultKey, authors, cacheTTL)
	}

	return authors, nil
}

// GetByID retrieves an author by id with caching.
func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*author.Author, error) {
	cacheKey := fmt.Sprintf("%s%d", authorCacheKeyPrefix, id)

	var a author.Author
	if found, err := r.cache.Get(ctx, cacheKey, &a); err == nil && found {
		return &a, nil
	}

	query := `SELECT id, name, city FROM authors WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(&a.ID, &a.Name, &a.City)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, author.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to get author by id: %w", err)
	}

	r.cache.Set(ctx, cacheKey, a, cacheTTL)

	return &a, nil
}

// Create inserts a new author; the database assigns the id.
func (r *postgresRepository) Create(ctx context.Context, a *author.Author) (*author.Author, error) {
	query := `
        INSERT INTO authors (name, city)
        VALUES ($1, $2)
        RETURNING id, name, city
    `

	var created author.Author
	err := r.pool.QueryRow(ctx, query, a.Name, a.City).Scan(
		&created.ID,
		&created.Name,
		&created.City,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return nil, author.ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to create author: %w", err)
	}

	r.invalidateListCache(ctx)

	return &created, nil
}

// Update replaces the full row by id.
func (r *postgresRepository) Update(ctx context.Context, a *author.Author) (*author.Author, error) {
	query := `
        UPDATE authors
        SET name = $1, city = $2
        WHERE id = $3
        RETURNING id, name, city
    `

	var updated author.Author
	err := r.pool.QueryRow(ctx, query, a.Name, a.City, a.ID).Scan(
		&updated.ID,
		&updated.Name,
		&updated.City,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, author.ErrAuthorNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, author.ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to update author: %w", err)
	}

	r.invalidateAuthorCache(ctx, a.ID)
	r.invalidateListCache(ctx)
	// Book responses embed the author, so cached books are stale too.
	r.cache.DeletePattern(ctx, "books:*")

	return &updated, nil
}

// Delete removes an author by id.
func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return author.ErrAuthorHasBooks
		}
		return fmt.Errorf("failed to delete author: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return author.ErrAuthorNotFound
	}

	r.invalidateAuthorCache(ctx, id)
	r.invalidateListCache(ctx)

	return nil
}

// BookCount returns the number of books referencing this author.
func (r *postgresRepository) BookCount(ctx context.Context, authorID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM books WHERE author_id = $1`, authorID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return count, nil
}

// escapeWildcards prevents user input from injecting ILIKE wildcards.
func escapeWildcards(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\") // escape backslash first
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}

// Cache helper methods

func (r *postgresRepository) invalidateAuthorCache(ctx context.Context, id int64) {
	r.cache.Delete(ctx, fmt.Sprintf("%s%d", authorCacheKeyPrefix, id))
}

func (r *postgresRepository) invalidateListCache(ctx context.Context) {
	r.cache.DeletePattern(ctx, authorListKeyPrefix+"*")
}
