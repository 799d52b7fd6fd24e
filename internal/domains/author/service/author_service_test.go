package service

import (
	"context"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf-backend/internal/domains/author"
	"bookshelf-backend/internal/domains/author/repository"
)

func newTestService(t *testing.T) (author.Service, *repository.MemoryRepository) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	return NewAuthorService(repo), repo
}

func TestAuthorService_CreateTrimsAndValidates(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.Create(context.Background(), &author.CreateAuthorRequest{
		Name: "  Eric Matthes  ",
		City: " New York ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Eric Matthes", created.Name)
	assert.Equal(t, "New York", created.City)
}

func TestAuthorService_CreateRejectsBlankFields(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), &author.CreateAuthorRequest{
		Name: "   ",
		City: "New York",
	})
	require.Error(t, err)

	// Whitespace-only input trims to empty and fails validation with
	// per-field errors.
	var vErrs validation.Errors
	require.ErrorAs(t, err, &vErrs)
	assert.Contains(t, vErrs, "name")
}

func TestAuthorService_ListRejectsUnknownSortColumn(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.List(context.Background(), author.Filter{SortBy: "city; DROP TABLE authors"})
	assert.ErrorIs(t, err, author.ErrInvalidSort)
}

func TestAuthorService_ListDefaultsToCreationOrder(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), &author.CreateAuthorRequest{Name: "Zadie Smith", City: "London"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), &author.CreateAuthorRequest{Name: "Alice Munro", City: "Wingham"})
	require.NoError(t, err)

	authors, err := svc.List(context.Background(), author.Filter{})
	require.NoError(t, err)
	require.Len(t, authors, 2)
	assert.Equal(t, "Zadie Smith", authors[0].Name)
}

func TestAuthorService_ListNormalizesOrder(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), &author.CreateAuthorRequest{Name: "Beta", City: "B"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), &author.CreateAuthorRequest{Name: "Alpha", City: "A"})
	require.NoError(t, err)

	// Unknown order strings fall back to ascending.
	authors, err := svc.List(context.Background(), author.Filter{SortBy: "name", Order: "sideways"})
	require.NoError(t, err)
	require.Len(t, authors, 2)
	assert.Equal(t, "Alpha", authors[0].Name)

	authors, err = svc.List(context.Background(), author.Filter{SortBy: "name", Order: "DESC"})
	require.NoError(t, err)
	assert.Equal(t, "Beta", authors[0].Name)
}

func TestAuthorService_GetByIDRejectsNonPositive(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetByID(context.Background(), 0)
	assert.ErrorIs(t, err, author.ErrAuthorNotFound)

	_, err = svc.GetByID(context.Background(), -5)
	assert.ErrorIs(t, err, author.ErrAuthorNotFound)
}

func TestAuthorService_DeleteBlockedWhenBooksExist(t *testing.T) {
	svc, repo := newTestService(t)

	created, err := svc.Create(context.Background(), &author.CreateAuthorRequest{Name: "Eric Matthes", City: "New York"})
	require.NoError(t, err)

	repo.SetBookCounter(func(ctx context.Context, authorID int64) (int, error) {
		return 3, nil
	})

	err = svc.Delete(context.Background(), created.ID)
	assert.ErrorIs(t, err, author.ErrAuthorHasBooks)
}

func TestAuthorService_DeleteSucceedsWithoutBooks(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.Create(context.Background(), &author.CreateAuthorRequest{Name: "Eric Matthes", City: "New York"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	authors, err := svc.List(context.Background(), author.Filter{})
	require.NoError(t, err)
	assert.Empty(t, authors)
}
