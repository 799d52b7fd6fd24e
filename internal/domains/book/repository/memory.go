package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"bookshelf-backend/internal/domains/book"
)

// MemoryRepository is an in-memory book.Repository used by the memory
// storage driver and the test suite. IDs are assigned monotonically
// and never reused within a process.
type MemoryRepository struct {
	mu           sync.RWMutex
	nextID       int64
	books        map[int64]book.Book
	authorLookup func(ctx context.Context, id int64) (*book.AuthorRef, error)
}

var _ book.Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID: 1,
		books:  make(map[int64]book.Book),
	}
}

// SetAuthorLookup wires the author store in. The lookup resolves an
// author id into the embedded reference that read responses carry;
// it is set by the container after both repositories exist.
func (r *MemoryRepository) SetAuthorLookup(fn func(ctx context.Context, id int64) (*book.AuthorRef, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.authorLookup = fn
}

// CountByAuthor reports how many books reference the given author.
// The author store uses it for its delete guard.
func (r *MemoryRepository) CountByAuthor(ctx context.Context, authorID int64) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, b := range r.books {
		if b.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryRepository) resolve(ctx context.Context, b book.Book) (*book.BookResponse, error) {
	resp := &book.BookResponse{
		ID:        b.ID,
		Title:     b.Title,
		Year:      b.Year,
		ISBN:      b.ISBN,
		CreatedAt: b.CreatedAt,
	}
	if r.authorLookup != nil {
		ref, err := r.authorLookup(ctx, b.AuthorID)
		if err != nil {
			return nil, err
		}
		resp.Author = *ref
	}
	return resp, nil
}

func (r *MemoryRepository) List(ctx context.Context, filter book.Filter) ([]book.BookResponse, error) {
	r.mu.RLock()
	snapshot := make([]book.Book, 0, len(r.books))
	for _, b := range r.books {
		snapshot = append(snapshot, b)
	}
	r.mu.RUnlock()

	results := []book.BookResponse{}
	query := strings.ToLower(filter.Query)
	authorQuery := strings.ToLower(filter.Author)

	for _, b := range snapshot {
		if query != "" && !strings.Contains(strings.ToLower(b.Title), query) {
			continue
		}
		if filter.Year != nil && (b.Year == nil || *b.Year != *filter.Year) {
			continue
		}

		resp, err := r.resolve(ctx, b)
		if err != nil {
			return nil, err
		}
		if authorQuery != "" && !strings.Contains(strings.ToLower(resp.Author.Name), authorQuery) {
			continue
		}
		results = append(results, *resp)
	}

	desc := filter.Order == "desc"
	sort.Slice(results, func(i, j int) bool {
		less := compareBooks(results[i], results[j], filter.SortBy)
		if desc {
			return !less
		}
		return less
	})

	return results, nil
}

// compareBooks orders i before j for the given sort column. A nil
// year counts as 0 so undated books sort below every dated one.
func compareBooks(a, b book.BookResponse, sortBy string) bool {
	switch sortBy {
	case "title":
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	case "year":
		ya, yb := 0, 0
		if a.Year != nil {
			ya = *a.Year
		}
		if b.Year != nil {
			yb = *b.Year
		}
		if ya != yb {
			return ya < yb
		}
		return a.ID < b.ID
	case "created_at":
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	default:
		return a.ID < b.ID
	}
}

func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*book.BookResponse, error) {
	r.mu.RLock()
	b, exists := r.books[id]
	r.mu.RUnlock()

	if !exists {
		return nil, book.ErrBookNotFound
	}
	return r.resolve(ctx, b)
}

func (r *MemoryRepository) Create(ctx context.Context, b *book.Book) (*book.BookResponse, error) {
	if err := r.checkISBN(b.ISBN, 0); err != nil {
		return nil, err
	}

	r.mu.Lock()
	stored := *b
	stored.ID = r.nextID
	stored.CreatedAt = time.Now().UTC()
	r.nextID++
	r.books[stored.ID] = stored
	r.mu.Unlock()

	return r.resolve(ctx, stored)
}

func (r *MemoryRepository) Update(ctx context.Context, b *book.Book) (*book.BookResponse, error) {
	if err := r.checkISBN(b.ISBN, b.ID); err != nil {
		return nil, err
	}

	r.mu.Lock()
	existing, exists := r.books[b.ID]
	if !exists {
		r.mu.Unlock()
		return nil, book.ErrBookNotFound
	}

	stored := *b
	stored.CreatedAt = existing.CreatedAt
	r.books[b.ID] = stored
	r.mu.Unlock()

	return r.resolve(ctx, stored)
}

func (r *MemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.books[id]; !exists {
		return book.ErrBookNotFound
	}
	delete(r.books, id)
	return nil
}

// checkISBN enforces ISBN uniqueness across all books except the one
// being updated.
func (r *MemoryRepository) checkISBN(isbn *string, excludeID int64) error {
	if isbn == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, other := range r.books {
		if other.ID == excludeID {
			continue
		}
		if other.ISBN != nil && *other.ISBN == *isbn {
			return book.ErrDuplicateISBN
		}
	}
	return nil
}
