package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, []string{"*"}, cfg.App.CORSOrigins)
	assert.Equal(t, "redis", cfg.Cache.Driver)
	assert.Equal(t, 60*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 365*24*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.False(t, cfg.Ratings.AllowAnonymousRead)
	assert.False(t, cfg.Queue.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CACHE_DRIVER", "memory")
	t.Setenv("CACHE_TTL", "5s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("RATINGS_ALLOW_ANONYMOUS_READ", "true")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Cache.Driver)
	assert.Equal(t, 5*time.Second, cfg.Cache.TTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.CORSOrigins)
	assert.True(t, cfg.Ratings.AllowAnonymousRead)
	assert.Equal(t, 0, cfg.Redis.DB)
}

func TestValidate(t *testing.T) {
	t.Run("production needs a real secret", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("JWT_SECRET", "")

		_, err := Load()
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("unknown drivers", func(t *testing.T) {
		t.Setenv("CACHE_DRIVER", "memcached")
		_, err := Load()
		assert.ErrorContains(t, err, "CACHE_DRIVER")
	})

	t.Run("production with secret", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("JWT_SECRET", "s3cr3t")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})
}
