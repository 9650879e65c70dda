package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"biblioteca-api/pkg/cache"
)

const (
	entryPrefix = "outputcache:entry:"
	tagPrefix   = "outputcache:tag:"
)

type RedisClient struct {
	Client *redis.Client
}

func NewRedisClient(host, password string, db int) *RedisClient {
	return &RedisClient{
		Client: redis.NewClient(&redis.Options{
			Addr:         host,
			Password:     password,
			DB:           db,
			PoolSize:     10,
			MinIdleConns: 5,
			MaxRetries:   3,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}),
	}
}

func (r *RedisClient) Connect(ctx context.Context) error {
	log.Info().Str("addr", r.Client.Options().Addr).Msg("[REDIS] connecting")

	if err := r.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	log.Info().Msg("[REDIS] connected")
	return nil
}

func (r *RedisClient) HealthCheck(ctx context.Context) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := r.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	return nil
}

func (r *RedisClient) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

// ========================================
// OUTPUT CACHE STORE
// ========================================

// RedisOutputCache keeps entries as JSON strings and tag membership as sets.
// Tag sets live as long as their longest entry, stale members are harmless.
type RedisOutputCache struct {
	client *RedisClient
}

func NewRedisOutputCache(client *RedisClient) *RedisOutputCache {
	return &RedisOutputCache{client: client}
}

var _ cache.OutputCache = (*RedisOutputCache)(nil)

func (s *RedisOutputCache) Get(ctx context.Context, key string) (*cache.Entry, bool, error) {
	raw, err := s.client.Client.Get(ctx, entryPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var entry cache.Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		// Corrupt entry: treat as miss and drop it
		s.client.Client.Del(ctx, entryPrefix+key)
		return nil, false, nil
	}
	if entry.Expired(time.Now()) {
		return nil, false, nil
	}
	return &entry, true, nil
}

func (s *RedisOutputCache) Set(ctx context.Context, key string, entry *cache.Entry, tags []string, ttl time.Duration) error {
	if entry.ExpiresAt.IsZero() {
		entry.ExpiresAt = time.Now().Add(ttl)
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	_, err = s.client.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, entryPrefix+key, raw, ttl)
		for _, tag := range tags {
			pipe.SAdd(ctx, tagPrefix+tag, key)
			pipe.Expire(ctx, tagPrefix+tag, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisOutputCache) EvictByTag(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		keys, err := s.client.Client.SMembers(ctx, tagPrefix+tag).Result()
		if err != nil {
			return fmt.Errorf("redis smembers %s: %w", tag, err)
		}

		toDelete := make([]string, 0, len(keys)+1)
		for _, k := range keys {
			toDelete = append(toDelete, entryPrefix+k)
		}
		toDelete = append(toDelete, tagPrefix+tag)

		if err := s.client.Client.Del(ctx, toDelete...).Err(); err != nil {
			return fmt.Errorf("redis evict %s: %w", tag, err)
		}
		log.Debug().Str("tag", tag).Int("entries", len(keys)).Msg("[CACHE] evicted tag")
	}
	return nil
}

func (s *RedisOutputCache) Ping(ctx context.Context) error {
	return s.client.HealthCheck(ctx)
}

func (s *RedisOutputCache) Close() error {
	return s.client.Close()
}
