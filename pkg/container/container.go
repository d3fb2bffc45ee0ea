package container

import (
	"context"
	"fmt"
	"time"

	"bookshelf-backend/internal/config"
	infraCache "bookshelf-backend/internal/infrastructure/cache"
	"bookshelf-backend/internal/infrastructure/database"
	"bookshelf-backend/internal/infrastructure/oauth"
	"bookshelf-backend/internal/session"
	"bookshelf-backend/pkg/cache"
	"bookshelf-backend/pkg/logger"

	"bookshelf-backend/internal/domains/book"
	bookHandler "bookshelf-backend/internal/domains/book/handler"
	bookRepo "bookshelf-backend/internal/domains/book/repository"
	bookService "bookshelf-backend/internal/domains/book/service"
	"bookshelf-backend/internal/domains/user"
	userHandler "bookshelf-backend/internal/domains/user/handler"
	userRepo "bookshelf-backend/internal/domains/user/repository"
	userService "bookshelf-backend/internal/domains/user/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph. Every component is a
// singleton built once at startup.
type Container struct {
	// Infrastructure layer - shared across all domains.
	Config   *config.Config
	DB       *database.PostgresDB
	Cache    cache.Cache
	Sessions session.Strategy
	Google   oauth.Provider

	// Repository layer.
	UserRepo user.Repository
	BookRepo book.Repository

	// Service layer.
	UserService user.Service
	BookService book.Service

	// Handler layer.
	UserHandler *userHandler.UserHandler
	BookHandler *bookHandler.BookHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer initializes the whole dependency graph in order:
// config, infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	c := &Container{}

	// Config depends on nothing - load it first.
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Info("config loaded", map[string]interface{}{"environment": cfg.App.Environment})

	// Database.
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	logger.Info("database connected", nil)

	// Redis. With the jwt session strategy Redis is optional, so a
	// failed connection is a warning; with the store strategy sessions
	// live there and the failure is fatal.
	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Connect(context.Background()); err != nil {
		if cfg.Session.Strategy == config.SessionStrategyStore {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Warn("redis connection failed", err)
	} else {
		logger.Info("redis connected", nil)
	}
	c.Cache = redisCache

	// Session strategy is fixed for the process lifetime.
	sessions, err := session.New(cfg.Session, c.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to build session strategy: %w", err)
	}
	c.Sessions = sessions
	logger.Info("session strategy selected", map[string]interface{}{"strategy": cfg.Session.Strategy})

	c.Google = oauth.NewGoogleProvider(cfg.Google)

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.BookRepo = bookRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(c.UserRepo, c.Sessions, c.Config.Auth.BcryptCost)
	c.BookService = bookService.NewBookService(c.BookRepo)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService, c.Google)
	c.BookHandler = bookHandler.NewBookHandler(c.BookService)
}

// ========================================
// CLEANUP
// ========================================

// Cleanup releases infrastructure resources on shutdown.
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
		logger.Info("database connection closed", nil)
	}
	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			logger.Warn("redis close failed", err)
		}
	}
}
