package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"bookshelf-backend/internal/domains/author"
)

// MemoryRepository is an in-process author.Repository used by tests
// and the database-less dev mode (STORAGE_DRIVER=memory). It mirrors
// the Postgres repository's semantics: monotonic ids, unique names,
// and delete protection for authors with books.
type MemoryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	authors map[int64]author.Author

	// bookCount reports how many books reference an author; wired by
	// the container to the book repository so deletes behave like the
	// foreign key constraint.
	bookCount func(ctx context.Context, authorID int64) (int, error)
}

var _ author.Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID:  1,
		authors: make(map[int64]author.Author),
	}
}

// SetBookCounter wires the cross-domain reference check.
func (m *MemoryRepository) SetBookCounter(fn func(ctx context.Context, authorID int64) (int, error)) {
	m.bookCount = fn
}

func (m *MemoryRepository) List(ctx context.Context, filter author.Filter) ([]author.Author, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	search := strings.ToLower(filter.Search)

	authors := []author.Author{}
	for _, a := range m.authors {
		if search != "" && !strings.Contains(strings.ToLower(a.Name), search) {
			continue
		}
		authors = append(authors, a)
	}

	desc := filter.Order == "desc"
	sort.Slice(authors, func(i, j int) bool {
		var less bool
		switch filter.SortBy {
		case "name":
			less = strings.ToLower(authors[i].Name) < strings.ToLower(authors[j].Name)
		case "city":
			less = strings.ToLower(authors[i].City) < strings.ToLower(authors[j].City)
		default:
			less = authors[i].ID < authors[j].ID
		}
		if desc {
			return !less
		}
		return less
	})

	return authors, nil
}

func (m *MemoryRepository) GetByID(ctx context.Context, id int64) (*author.Author, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.authors[id]
	if !ok {
		return nil, author.ErrAuthorNotFound
	}
	return &a, nil
}

func (m *MemoryRepository) Create(ctx context.Context, a *author.Author) (*author.Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.authors {
		if existing.Name == a.Name {
			return nil, author.ErrDuplicateName
		}
	}

	created := *a
	created.ID = m.nextID
	m.nextID++
	m.authors[created.ID] = created

	return &created, nil
}

func (m *MemoryRepository) Update(ctx context.Context, a *author.Author) (*author.Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.authors[a.ID]; !ok {
		return nil, author.ErrAuthorNotFound
	}

	for id, existing := range m.authors {
		if id != a.ID && existing.Name == a.Name {
			return nil, author.ErrDuplicateName
		}
	}

	updated := *a
	m.authors[a.ID] = updated

	return &updated, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id int64) error {
	if m.bookCount != nil {
		count, err := m.bookCount(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return author.ErrAuthorHasBooks
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.authors[id]; !ok {
		return author.ErrAuthorNotFound
	}
	delete(m.authors, id)
	return nil
}

func (m *MemoryRepository) BookCount(ctx context.Context, authorID int64) (int, error) {
	if m.bookCount == nil {
		return 0, nil
	}
	return m.bookCount(ctx, authorID)
}
