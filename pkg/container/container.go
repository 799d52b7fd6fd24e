package container

import (
	"context"
	"fmt"
	"time"

	"bookshelf-backend/internal/config"
	"bookshelf-backend/internal/domains/author"
	authorhandler "bookshelf-backend/internal/domains/author/handler"
	authorrepo "bookshelf-backend/internal/domains/author/repository"
	authorservice "bookshelf-backend/internal/domains/author/service"
	"bookshelf-backend/internal/domains/book"
	bookhandler "bookshelf-backend/internal/domains/book/handler"
	bookrepo "bookshelf-backend/internal/domains/book/repository"
	bookservice "bookshelf-backend/internal/domains/book/service"
	"bookshelf-backend/internal/domains/student"
	studenthandler "bookshelf-backend/internal/domains/student/handler"
	studentrepo "bookshelf-backend/internal/domains/student/repository"
	studentservice "bookshelf-backend/internal/domains/student/service"
	rediscache "bookshelf-backend/internal/infrastructure/cache"
	"bookshelf-backend/internal/infrastructure/database"
	"bookshelf-backend/pkg/cache"
	"bookshelf-backend/pkg/logger"
)

// Container wires the whole application: config -> infrastructure ->
// repositories -> services -> handlers. One instance per process.
type Container struct {
	Config *config.Config

	// Infrastructure. DB is nil when running on the memory driver;
	// Redis is the cache when enabled, otherwise the in-process cache.
	DB    *database.PostgresDB
	Cache cache.Cache
	redis *rediscache.RedisClient

	// Repositories
	AuthorRepo  author.Repository
	BookRepo    book.Repository
	StudentRepo student.Repository

	// Services
	AuthorService  author.Service
	BookService    book.Service
	StudentService student.Service

	// Handlers
	AuthorHandler  *authorhandler.AuthorHandler
	BookHandler    *bookhandler.BookHandler
	StudentHandler *studenthandler.StudentHandler
}

// NewContainer builds the dependency graph in order.
func NewContainer() (*Container, error) {
	c := &Container{}

	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Info("✅ Configuration loaded", map[string]interface{}{
		"environment": cfg.App.Environment,
		"storage":     cfg.App.StorageDriver,
	})

	// 2. Cache layer
	if err := c.initCache(); err != nil {
		return nil, err
	}

	// 3. Storage + repositories
	switch cfg.App.StorageDriver {
	case "memory":
		c.initMemoryRepositories()
	default:
		if err := c.initPostgres(); err != nil {
			return nil, err
		}
	}

	// 4. Services
	c.AuthorService = authorservice.NewAuthorService(c.AuthorRepo)
	c.BookService = bookservice.NewBookService(c.BookRepo, c.AuthorRepo)
	c.StudentService = studentservice.NewStudentService(c.StudentRepo)

	// 5. Handlers
	c.AuthorHandler = authorhandler.NewAuthorHandler(c.AuthorService)
	c.BookHandler = bookhandler.NewBookHandler(c.BookService)
	c.StudentHandler = studenthandler.NewStudentHandler(c.StudentService)

	logger.Info("✅ Container initialized", nil)
	return c, nil
}

// initCache picks Redis when enabled, otherwise an in-process cache
// so repositories never have to branch on a nil cache.
func (c *Container) initCache() error {
	if !c.Config.Redis.Enabled {
		c.Cache = cache.NewMemoryCache()
		logger.Info("✅ In-process cache initialized", nil)
		return nil
	}

	redisClient := rediscache.NewRedisClient(
		c.Config.Redis.Host,
		c.Config.Redis.Password,
		c.Config.Redis.DB,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := redisClient.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	c.redis = redisClient
	c.Cache = redisClient
	logger.Info("✅ Redis cache initialized", map[string]interface{}{
		"host": c.Config.Redis.Host,
	})
	return nil
}

// initPostgres connects the pool, bootstraps the schema, optionally
// seeds sample data, and builds the SQL-backed repositories.
func (c *Container) initPostgres() error {
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	if c.Config.App.SeedData {
		if err := db.Seed(ctx); err != nil {
			db.Close()
			return fmt.Errorf("failed to seed data: %w", err)
		}
	}

	c.DB = db
	c.AuthorRepo = authorrepo.NewPostgresRepository(db.Pool, c.Cache)
	c.BookRepo = bookrepo.NewPostgresRepository(db.Pool, c.Cache)
	c.StudentRepo = studentrepo.NewPostgresRepository(db.Pool, c.Cache)

	logger.Info("✅ PostgreSQL repositories initialized", nil)
	return nil
}

// initMemoryRepositories builds the in-memory stores and wires the
// cross-domain hooks the foreign key would otherwise provide.
func (c *Container) initMemoryRepositories() {
	authors := authorrepo.NewMemoryRepository()
	books := bookrepo.NewMemoryRepository()
	students := studentrepo.NewMemoryRepository()

	// Author deletes check for referencing books; book reads resolve
	// the embedded author.
	authors.SetBookCounter(func(ctx context.Context, authorID int64) (int, error) {
		count, err := books.CountByAuthor(ctx, authorID)
		return int(count), err
	})
	books.SetAuthorLookup(func(ctx context.Context, id int64) (*book.AuthorRef, error) {
		a, err := authors.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &book.AuthorRef{ID: a.ID, Name: a.Name, City: a.City}, nil
	})

	c.AuthorRepo = authors
	c.BookRepo = books
	c.StudentRepo = students

	if c.Config.App.SeedData {
		seedMemory(authors, books)
	}

	logger.Info("✅ In-memory repositories initialized", nil)
}

// seedMemory mirrors the SQL seed for the database-less dev mode.
func seedMemory(authors *authorrepo.MemoryRepository, books *bookrepo.MemoryRepository) {
	ctx := context.Background()

	type seedBook struct {
		title string
		year  int
		isbn  string
	}
	seeds := []struct {
		name string
		city string
		book seedBook
	}{
		{"Eric Matthes", "New York", seedBook{"Python Crash Course", 2019, "978-1593279288"}},
		{"Miguel Grinberg", "Washington", seedBook{"Flask Web Development", 2018, "978-1491991732"}},
		{"Robert C. Martin", "London", seedBook{"Clean Code", 2008, "978-0132350884"}},
	}

	for _, s := range seeds {
		a, err := authors.Create(ctx, &author.Author{Name: s.name, City: s.city})
		if err != nil {
			continue // already seeded
		}
		year := s.book.year
		isbn := s.book.isbn
		books.Create(ctx, &book.Book{
			Title:    s.book.title,
			Year:     &year,
			ISBN:     &isbn,
			AuthorID: a.ID,
		})
	}
}

// Cleanup releases infrastructure resources on shutdown.
func (c *Container) Cleanup() {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			logger.Error("❌ Failed to close Redis client", err)
		} else {
			logger.Info("✅ Redis client closed", nil)
		}
	}

	if c.DB != nil {
		c.DB.Close()
		logger.Info("✅ Database pool closed", nil)
	}
}
