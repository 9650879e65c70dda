package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"biblioteca-api/internal/config"
	infraCache "biblioteca-api/internal/infrastructure/cache"
	"biblioteca-api/internal/infrastructure/database"
	"biblioteca-api/internal/infrastructure/queue"
	"biblioteca-api/internal/infrastructure/storage"
	"biblioteca-api/pkg/cache"
	"biblioteca-api/pkg/jwt"

	authorHandler "biblioteca-api/internal/domains/author/handler"
	authorRepo "biblioteca-api/internal/domains/author/repository"
	authorService "biblioteca-api/internal/domains/author/service"
	bookHandler "biblioteca-api/internal/domains/book/handler"
	bookRepo "biblioteca-api/internal/domains/book/repository"
	bookService "biblioteca-api/internal/domains/book/service"
	commentHandler "biblioteca-api/internal/domains/comment/handler"
	commentRepo "biblioteca-api/internal/domains/comment/repository"
	commentService "biblioteca-api/internal/domains/comment/service"
	errorlogRepo "biblioteca-api/internal/domains/errorlog/repository"
	errorlogService "biblioteca-api/internal/domains/errorlog/service"
	ratingHandler "biblioteca-api/internal/domains/rating/handler"
	ratingRepo "biblioteca-api/internal/domains/rating/repository"
	ratingService "biblioteca-api/internal/domains/rating/service"
	systemHandler "biblioteca-api/internal/domains/system/handler"
	userHandler "biblioteca-api/internal/domains/user/handler"
	userRepo "biblioteca-api/internal/domains/user/repository"
	userService "biblioteca-api/internal/domains/user/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph.
// Order of construction: config → infrastructure → repositories → services → handlers.
type Container struct {
	// Infrastructure
	Config     *config.Config
	DB         *database.PostgresDB
	Redis      *infraCache.RedisClient // nil with CACHE_DRIVER=memory
	Cache      cache.OutputCache
	JWTManager *jwt.Manager
	Storage    storage.FileStorage
	Images     *storage.ImageProcessor
	Queue      *asynq.Client // nil with QUEUE_ENABLED=false
	Errors     *errorlogService.Recorder

	// Services
	AuthorService  authorService.ServiceInterface
	BookService    *bookService.BookService
	CommentService commentService.CommentService
	RatingService  ratingService.RatingService
	UserService    userService.UserService

	// Handlers
	AuthorHandler  *authorHandler.AuthorHandler
	BookHandler    *bookHandler.Handler
	CommentHandler *commentHandler.CommentHandler
	RatingHandler  *ratingHandler.RatingHandler
	UserHandler    *userHandler.UserHandler
	SystemHandler  *systemHandler.SystemHandler
}

// ========================================
// CONSTRUCTOR
// ========================================

func NewContainer() (*Container, error) {
	log.Info().Msg("[CONTAINER] initializing")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c := &Container{Config: cfg}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := c.initCache(ctx); err != nil {
		c.Cleanup()
		return nil, err
	}

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry)

	if c.Storage, err = NewFileStorage(ctx, cfg); err != nil {
		c.Cleanup()
		return nil, err
	}
	c.Images = storage.NewImageProcessor(cfg.Storage.MaxPhotoSize, cfg.Storage.PhotoSize)

	if cfg.Queue.Enabled {
		c.Queue = asynq.NewClient(RedisConnOpt(cfg))
		log.Info().Msg("[CONTAINER] photo cleanup delegated to the worker queue")
	}

	c.initDomains()

	log.Info().
		Str("env", cfg.App.Environment).
		Str("cache", cfg.Cache.Driver).
		Str("storage", cfg.Storage.Driver).
		Msg("[CONTAINER] initialized")
	return c, nil
}

func (c *Container) initDatabase(ctx context.Context) error {
	dbConfig, err := config.LoadDatabaseConfig(c.Config.App.Environment)
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)
	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db
	return nil
}

// initCache picks the output cache driver. Redis being unreachable at
// startup is not fatal: the cache middleware serves misses on errors.
func (c *Container) initCache(ctx context.Context) error {
	switch c.Config.Cache.Driver {
	case "memory":
		c.Cache = infraCache.NewMemoryOutputCache(infraCache.DefaultMemoryConfig(c.Config.Cache.TTL))
	case "redis":
		c.Redis = infraCache.NewRedisClient(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
		if err := c.Redis.Connect(ctx); err != nil {
			log.Warn().Err(err).Msg("[CONTAINER] redis unavailable, responses will not be cached")
		}
		c.Cache = infraCache.NewRedisOutputCache(c.Redis)
	default:
		return fmt.Errorf("unsupported cache driver %q", c.Config.Cache.Driver)
	}
	return nil
}

// initDomains wires repositories, services and handlers
func (c *Container) initDomains() {
	pool := c.DB.Pool

	c.Errors = errorlogService.NewRecorder(errorlogRepo.NewPostgresRepository(pool))

	// Photo removal goes through the queue when enabled, inline otherwise
	var remover authorService.PhotoRemover = c.Storage
	if c.Queue != nil {
		remover = queue.NewPhotoRemover(c.Queue)
	}

	c.AuthorService = authorService.NewAuthorService(
		authorRepo.NewPostgresRepository(pool),
		c.Cache,
		c.Storage,
		remover,
		c.Images,
	)
	c.BookService = bookService.NewService(bookRepo.NewPostgresRepository(pool), c.Cache)
	c.CommentService = commentService.NewCommentService(commentRepo.NewPostgresRepository(pool), c.BookService, c.Cache)
	c.RatingService = ratingService.NewRatingService(ratingRepo.NewPostgresRatingRepository(pool), c.Cache)
	c.UserService = userService.NewUserService(userRepo.NewPostgresRepository(pool), c.JWTManager, c.Cache)

	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService)
	c.BookHandler = bookHandler.NewHandler(c.BookService)
	c.CommentHandler = commentHandler.NewCommentHandler(c.CommentService)
	c.RatingHandler = ratingHandler.NewRatingHandler(c.RatingService)
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.SystemHandler = systemHandler.NewSystemHandler(c.DB, c.Cache, c.Config.App.Version)
}

// ========================================
// SHARED FACTORIES (API + worker)
// ========================================

// NewFileStorage returns the driver selected by STORAGE_DRIVER
func NewFileStorage(ctx context.Context, cfg *config.Config) (storage.FileStorage, error) {
	switch cfg.Storage.Driver {
	case "minio":
		s, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
		if err != nil {
			return nil, fmt.Errorf("failed to init minio storage: %w", err)
		}
		return s, nil
	case "local":
		return storage.NewLocalStorage(cfg.Storage.LocalDir, cfg.Storage.PublicURL), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

// RedisConnOpt points asynq at the configured Redis
func RedisConnOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}

// ========================================
// CLEANUP
// ========================================

// Cleanup releases every connection. Called on shutdown.
func (c *Container) Cleanup() {
	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			log.Warn().Err(err).Msg("[CONTAINER] failed to close queue client")
		}
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			log.Warn().Err(err).Msg("[CONTAINER] failed to close cache")
		}
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
	log.Info().Msg("[CONTAINER] cleanup completed")
}
