package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf-backend/internal/domains/student"
)

func createStudent(t *testing.T, repo *MemoryRepository, name, email, course string) *student.Student {
	t.Helper()
	s, err := repo.Create(context.Background(), &student.Student{Name: name, Email: email, Course: course})
	require.NoError(t, err)
	return s
}

func TestMemoryRepository_ListNewestFirst(t *testing.T) {
	repo := NewMemoryRepository()
	createStudent(t, repo, "Alice Nguyen", "alice@example.edu", "Computer Science")
	createStudent(t, repo, "Bob Tran", "bob@example.edu", "Mathematics")

	students, err := repo.List(context.Background(), student.Filter{})
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "Bob Tran", students[0].Name)
	assert.Equal(t, "Alice Nguyen", students[1].Name)
}

func TestMemoryRepository_ListSearchByName(t *testing.T) {
	repo := NewMemoryRepository()
	createStudent(t, repo, "Alice Nguyen", "alice@example.edu", "Computer Science")
	createStudent(t, repo, "Bob Tran", "bob@example.edu", "Mathematics")

	students, err := repo.List(context.Background(), student.Filter{Search: "NGUYEN"})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Alice Nguyen", students[0].Name)
}

func TestMemoryRepository_CreateRejectsDuplicateEmail(t *testing.T) {
	repo := NewMemoryRepository()
	createStudent(t, repo, "Alice Nguyen", "alice@example.edu", "Computer Science")

	_, err := repo.Create(context.Background(), &student.Student{
		Name:   "Other Alice",
		Email:  "ALICE@example.edu", // emails compare case-insensitively
		Course: "Physics",
	})
	assert.ErrorIs(t, err, student.ErrDuplicateEmail)
}

func TestMemoryRepository_UpdateRoundTrip(t *testing.T) {
	repo := NewMemoryRepository()
	created := createStudent(t, repo, "Alice Nguyen", "alice@example.edu", "Computer Science")

	updated, err := repo.Update(context.Background(), &student.Student{
		ID:     created.ID,
		Name:   "Alice Nguyen",
		Email:  "alice@example.edu",
		Course: "Data Science",
	})
	require.NoError(t, err)
	assert.Equal(t, "Data Science", updated.Course)

	got, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Data Science", got.Course)
}

func TestMemoryRepository_UpdateRejectsEmailTakenByOther(t *testing.T) {
	repo := NewMemoryRepository()
	createStudent(t, repo, "Alice Nguyen", "alice@example.edu", "Computer Science")
	bob := createStudent(t, repo, "Bob Tran", "bob@example.edu", "Mathematics")

	_, err := repo.Update(context.Background(), &student.Student{
		ID:     bob.ID,
		Name:   "Bob Tran",
		Email:  "alice@example.edu",
		Course: "Mathematics",
	})
	assert.ErrorIs(t, err, student.ErrDuplicateEmail)

	// Keeping your own email is fine.
	_, err = repo.Update(context.Background(), &student.Student{
		ID:     bob.ID,
		Name:   "Bob Tran",
		Email:  "bob@example.edu",
		Course: "Statistics",
	})
	assert.NoError(t, err)
}

func TestMemoryRepository_DeleteMissingLeavesCollectionUnchanged(t *testing.T) {
	repo := NewMemoryRepository()
	createStudent(t, repo, "Alice Nguyen", "alice@example.edu", "Computer Science")

	err := repo.Delete(context.Background(), 999)
	assert.ErrorIs(t, err, student.ErrStudentNotFound)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
