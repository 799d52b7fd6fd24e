package database

import (
	"context"
	"fmt"
	"log"
)

// createTableStatements is the idempotent schema bootstrap. Each
// statement is safe to run on every startup.
var createTableStatements = []string{
	`CREATE TABLE IF NOT EXISTS authors (
		id   BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		city TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS books (
		id         BIGSERIAL PRIMARY KEY,
		title      TEXT NOT NULL,
		year       INT,
		isbn       TEXT UNIQUE,
		author_id  BIGINT NOT NULL REFERENCES authors(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_books_author_id ON books(author_id)`,
	`CREATE TABLE IF NOT EXISTS students (
		id     BIGSERIAL PRIMARY KEY,
		name   TEXT NOT NULL,
		email  TEXT NOT NULL UNIQUE,
		course TEXT NOT NULL
	)`,
}

// EnsureSchema creates the tables if they do not exist yet.
// Runs once at startup, before any repository is used.
func (db *PostgresDB) EnsureSchema(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	for _, stmt := range createTableStatements {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema bootstrap failed: %w", err)
		}
	}

	log.Println("[DATABASE] Schema ensured")
	return nil
}

// Seed inserts sample authors and books when the authors table is
// empty. Development convenience only; gated by SEED_DATA.
func (db *PostgresDB) Seed(ctx context.Context) error {
	var count int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM authors`).Scan(&count); err != nil {
		return fmt.Errorf("seed: count authors: %w", err)
	}
	if count > 0 {
		return nil
	}

	seedAuthors := []struct {
		name string
		city string
	}{
		{"Eric Matthes", "New York"},
		{"Miguel Grinberg", "Washington"},
		{"Robert C. Martin", "London"},
	}

	authorIDs := make(map[string]int64, len(seedAuthors))
	for _, a := range seedAuthors {
		var id int64
		err := db.Pool.QueryRow(ctx,
			`INSERT INTO authors (name, city) VALUES ($1, $2) RETURNING id`,
			a.name, a.city,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed: insert author %q: %w", a.name, err)
		}
		authorIDs[a.name] = id
	}

	seedBooks := []struct {
		title  string
		year   int
		isbn   string
		author string
	}{
		{"Python Crash Course", 2019, "978-1593279288", "Eric Matthes"},
		{"Flask Web Development", 2018, "978-1491991732", "Miguel Grinberg"},
		{"Clean Code", 2008, "978-0132350884", "Robert C. Martin"},
	}

	for _, b := range seedBooks {
		_, err := db.Pool.Exec(ctx,
			`INSERT INTO books (title, year, isbn, author_id) VALUES ($1, $2, $3, $4)`,
			b.title, b.year, b.isbn, authorIDs[b.author],
		)
		if err != nil {
			return fmt.Errorf("seed: insert book %q: %w", b.title, err)
		}
	}

	log.Printf("[DATABASE] Seeded %d authors and %d books", len(seedAuthors), len(seedBooks))
	return nil
}
