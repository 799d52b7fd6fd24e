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

	"bookshelf-backend/internal/domains/student"
	"bookshelf-backend/pkg/cache"
)

// postgresRepository implements student.Repository.
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

var _ student.Repository = (*postgresRepository)(nil)

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) student.Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

const (
	studentListKeyPrefix  = "students:list:"
	studentListDefaultKey = studentListKeyPrefix + "default"
	cacheTTL              = 15 * time.Minute
)

// List returns students newest first, optionally filtered by a
// case-insensitive name substring.
func (r *postgresRepository) List(ctx context.Context, filter student.Filter) ([]student.Student, error) {
	defaultListing := filter.Search == ""

	if defaultListing {
		var cached []student.Student
		if found, err := r.cache.Get(ctx, studentListDefaultKey, &cached); err == nil && found {
			return cached, nil
		}
	}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, name, email, course FROM students`)

	args := []interface{}{}
	if filter.Search != "" {
		queryBuilder.WriteString(" WHERE name ILIKE $1")
		args = append(args, "%"+escapeWildcards(filter.Search)+"%")
	}

	queryBuilder.WriteString(" ORDER BY id DESC")

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	students := []student.Student{}
	for rows.Next() {
		var s student.Student
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Course); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating students: %w", err)
	}

	if defaultListing {
		r.cache.Set(ctx, studentListDefaultKey, students, cacheTTL)
	}

	return students, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*student.Student, error) {
	var s student.Student
	err := r.pool.QueryRow(ctx, `SELECT id, name, email, course FROM students WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.Email, &s.Course)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, student.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student by id: %w", err)
	}
	return &s, nil
}

func (r *postgresRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) Create(ctx context.Context, s *student.Student) (*student.Student, error) {
	query := `
        INSERT INTO students (name, email, course)
        VALUES ($1, $2, $3)
        RETURNING id, name, email, course
    `

	var created student.Student
	err := r.pool.QueryRow(ctx, query, s.Name, s.Email, s.Course).Scan(
		&created.ID,
		&created.Name,
		&created.Email,
		&created.Course,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return nil, student.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	r.invalidateListCache(ctx)

	return &created, nil
}

func (r *postgresRepository) Update(ctx context.Context, s *student.Student) (*student.Student, error) {
	query := `
        UPDATE students
        SET name = $1, email = $2, course = $3
        WHERE id = $4
        RETURNING id, name, email, course
    `

	var updated student.Student
	err := r.pool.QueryRow(ctx, query, s.Name, s.Email, s.Course, s.ID).Scan(
		&updated.ID,
		&updated.Name,
		&updated.Email,
		&updated.Course,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, student.ErrStudentNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, student.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	r.invalidateListCache(ctx)

	return &updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return student.ErrStudentNotFound
	}

	r.invalidateListCache(ctx)

	return nil
}

// escapeWildcards prevents user input from injecting ILIKE wildcards.
func escapeWildcards(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}

func (r *postgresRepository) invalidateListCache(ctx context.Context) {
	r.cache.DeletePattern(ctx, studentListKeyPrefix+"*")
}
