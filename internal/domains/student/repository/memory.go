package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"bookshelf-backend/internal/domains/student"
)

// MemoryRepository is an in-memory student.Repository used by the
// memory storage driver and the test suite.
type MemoryRepository struct {
	mu       sync.RWMutex
	nextID   int64
	students map[int64]student.Student
}

var _ student.Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID:   1,
		students: make(map[int64]student.Student),
	}
}

func (r *MemoryRepository) List(ctx context.Context, filter student.Filter) ([]student.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	results := []student.Student{}
	for _, s := range r.students {
		if search != "" && !strings.Contains(strings.ToLower(s.Name), search) {
			continue
		}
		results = append(results, s)
	}

	// Newest first, matching the SQL backend.
	sort.Slice(results, func(i, j int) bool {
		return results[i].ID > results[j].ID
	})

	return results, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*student.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.students[id]
	if !exists {
		return nil, student.ErrStudentNotFound
	}
	return &s, nil
}

func (r *MemoryRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.students)), nil
}

func (r *MemoryRepository) Create(ctx context.Context, s *student.Student) (*student.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, other := range r.students {
		if strings.EqualFold(other.Email, s.Email) {
			return nil, student.ErrDuplicateEmail
		}
	}

	stored := *s
	stored.ID = r.nextID
	r.nextID++
	r.students[stored.ID] = stored

	return &stored, nil
}

func (r *MemoryRepository) Update(ctx context.Context, s *student.Student) (*student.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.students[s.ID]; !exists {
		return nil, student.ErrStudentNotFound
	}

	for _, other := range r.students {
		if other.ID != s.ID && strings.EqualFold(other.Email, s.Email) {
			return nil, student.ErrDuplicateEmail
		}
	}

	stored := *s
	r.students[s.ID] = stored

	return &stored, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.students[id]; !exists {
		return student.ErrStudentNotFound
	}
	delete(r.students, id)
	return nil
}
