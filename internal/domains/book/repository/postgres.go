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

	"bookshelf-backend/internal/domains/book"
	"bookshelf-backend/pkg/cache"
)

// postgresRepository implements book.Repository. Reads JOIN the
// authors table so responses carry the embedded author object.
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

var _ book.Repository = (*postgresRepository)(nil)

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) book.Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

// Cache key constants
const (
	bookCacheKeyPrefix = "books:item:"
	bookListKeyPrefix  = "books:list:"
	bookListDefaultKey = bookListKeyPrefix + "default"
	cacheTTL           = 15 * time.Minute
)

const bookSelect = `
        SELECT b.id, b.title, b.year, b.isbn, b.created_at,
               a.id, a.name, a.city
        FROM books b
        JOIN authors a ON b.author_id = a.id
`

func scanBookRow(row pgx.Row) (*book.BookResponse, error) {
	var b book.BookResponse
	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Year,
		&b.ISBN,
		&b.CreatedAt,
		&b.Author.ID,
		&b.Author.Name,
		&b.Author.City,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// List returns books matching the filter with their authors embedded.
// The unfiltered default listing is cached.
func (r *postgresRepository) List(ctx context.Context, filter book.Filter) ([]book.BookResponse, error) {
	defaultListing := filter.Query == "" && filter.Author == "" && filter.Year == nil &&
		(filter.SortBy == "" || filter.SortBy == "id") && filter.Order != "desc"

	if defaultListing {
		var cached []book.BookResponse
		if found, err := r.cache.Get(ctx, bookListDefaultKey, &cached); err == nil && found {
			return cached, nil
		}
	}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(bookSelect)

	// Build WHERE clause with positional args
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	if filter.Query != "" {
		conditions = append(conditions, fmt.Sprintf("b.title ILIKE $%d", argPos))
		args = append(args, "%"+escapeWildcards(filter.Query)+"%")
		argPos++
	}
	if filter.Author != "" {
		conditions = append(conditions, fmt.Sprintf("a.name ILIKE $%d", argPos))
		args = append(args, "%"+escapeWildcards(filter.Author)+"%")
		argPos++
	}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("b.year = $%d", argPos))
		args = append(args, *filter.Year)
		argPos++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}

	// Sort column is whitelisted by the service. A missing year
	// sorts as 0, so undated books land after every dated one when
	// sorting by year descending.
	sortColumn := "b.id"
	switch filter.SortBy {
	case "title":
		sortColumn = "LOWER(b.title)"
	case "year":
		sortColumn = "COALESCE(b.year, 0)"
	case "created_at":
		sortColumn = "b.created_at"
	}

	sortOrder := "ASC"
	if filter.Order == "desc" {
		sortOrder = "DESC"
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s %s, b.id ASC", sortColumn, sortOrder))

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	books := []book.BookResponse{}
	for rows.Next() {
		b, err := scanBookRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating books: %w", err)
	}

	if defaultListing {
		r.cache.Set(ctx, bookListDefaultKey, books, cacheTTL)
	}

	return books, nil
}

// GetByID retrieves one book with its author embedded, cached.
func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*book.BookResponse, error) {
	cacheKey := fmt.Sprintf("%s%d", bookCacheKeyPrefix, id)

	var cached book.BookResponse
	if found, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	b, err := scanBookRow(r.pool.QueryRow(ctx, bookSelect+" WHERE b.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, book.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book by id: %w", err)
	}

	r.cache.Set(ctx, cacheKey, b, cacheTTL)

	return b, nil
}

// Create inserts a new book and rereads it with the author embedded.
func (r *postgresRepository) Create(ctx context.Context, b *book.Book) (*book.BookResponse, error) {
	query := `
        INSERT INTO books (title, year, isbn, author_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `

	var id int64
	err := r.pool.QueryRow(ctx, query, b.Title, b.Year, b.ISBN, b.AuthorID).Scan(&id)
	if err != nil {
		return nil, mapWriteError(err, "create")
	}

	r.invalidateListCache(ctx)

	return r.GetByID(ctx, id)
}

// Update replaces the full row by id.
func (r *postgresRepository) Update(ctx context.Context, b *book.Book) (*book.BookResponse, error) {
	query := `
        UPDATE books
        SET title = $1, year = $2, isbn = $3, author_id = $4
        WHERE id = $5
    `

	cmdTag, err := r.pool.Exec(ctx, query, b.Title, b.Year, b.ISBN, b.AuthorID, b.ID)
	if err != nil {
		return nil, mapWriteError(err, "update")
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, book.ErrBookNotFound
	}

	r.invalidateBookCache(ctx, b.ID)
	r.invalidateListCache(ctx)

	return r.GetByID(ctx, b.ID)
}

// Delete removes a book by id.
func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return book.ErrBookNotFound
	}

	r.invalidateBookCache(ctx, id)
	r.invalidateListCache(ctx)

	return nil
}

// mapWriteError translates Postgres constraint violations into
// domain errors.
func mapWriteError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation (isbn)
			return book.ErrDuplicateISBN
		case "23503": // foreign_key_violation (author_id)
			return book.ErrAuthorNotFound
		}
	}
	return fmt.Errorf("failed to %s book: %w", op, err)
}

// escapeWildcards prevents user input from injecting ILIKE wildcards.
func escapeWildcards(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}

// Cache helper methods

func (r *postgresRepository) invalidateBookCache(ctx context.Context, id int64) {
	r.cache.Delete(ctx, fmt.Sprintf("%s%d", bookCacheKeyPrefix, id))
}

func (r *postgresRepository) invalidateListCache(ctx context.Context) {
	r.cache.DeletePattern(ctx, bookListKeyPrefix+"*")
}
