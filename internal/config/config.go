package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds the whole application configuration.
// It is populated from environment variables (optionally loaded from .env).
type Config struct {
	App     AppConfig
	Redis   RedisConfig
	Cache   CacheConfig
	JWT     JWTConfig
	Storage StorageConfig
	MinIO   MinIOConfig
	Queue   QueueConfig
	Ratings RatingsConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	CORSOrigins []string
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

// CacheConfig selects the output cache driver.
type CacheConfig struct {
	Driver string        // redis, memory
	TTL    time.Duration // default expiration of cached responses
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

// StorageConfig selects where author photos are stored.
type StorageConfig struct {
	Driver       string // local, minio
	LocalDir     string // root folder for the local driver
	PublicURL    string // base URL under which the local driver serves files
	MaxPhotoSize int64
	PhotoSize    int // longest edge after resize, 0 disables resizing
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string // minioadmin
	SecretKey string // minioadmin
	Bucket    string // library
	UseSSL    bool   // false for local
}

type QueueConfig struct {
	Enabled     bool
	Concurrency int
}

type RatingsConfig struct {
	AllowAnonymousRead bool
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Biblioteca API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			CORSOrigins: getEnvList("CORS_ORIGINS", []string{"*"}),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			Driver: getEnv("CACHE_DRIVER", "redis"),
			TTL:    getEnvDuration("CACHE_TTL", 60*time.Second),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", defaultJWTSecret),
			Expiry: getEnvDuration("JWT_EXPIRY", 365*24*time.Hour),
		},
		Storage: StorageConfig{
			Driver:       getEnv("STORAGE_DRIVER", "local"),
			LocalDir:     getEnv("STORAGE_LOCAL_DIR", "./wwwroot"),
			PublicURL:    getEnv("STORAGE_PUBLIC_URL", "http://localhost:8080/static"),
			MaxPhotoSize: int64(getEnvInt("STORAGE_MAX_PHOTO_BYTES", 5*1024*1024)),
			PhotoSize:    getEnvInt("STORAGE_PHOTO_SIZE", 600),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "library"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Queue: QueueConfig{
			Enabled:     getEnvBool("QUEUE_ENABLED", false),
			Concurrency: getEnvInt("QUEUE_CONCURRENCY", 5),
		},
		Ratings: RatingsConfig{
			AllowAnonymousRead: getEnvBool("RATINGS_ALLOW_ANONYMOUS_READ", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks values that would make the service unsafe or unusable
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
	}

	switch c.Cache.Driver {
	case "redis", "memory":
	default:
		return fmt.Errorf("unsupported CACHE_DRIVER %q", c.Cache.Driver)
	}

	switch c.Storage.Driver {
	case "local", "minio":
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if c.JWT.Expiry <= 0 {
		return fmt.Errorf("JWT_EXPIRY must be positive")
	}

	return nil
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
