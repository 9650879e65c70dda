package cache

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/viccon/sturdyc"

	"biblioteca-api/pkg/cache"
)

// MemoryConfig sizes the in-process cache
type MemoryConfig struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
}

func DefaultMemoryConfig(ttl time.Duration) MemoryConfig {
	return MemoryConfig{
		Capacity:           10000,
		NumShards:          10,
		TTL:                ttl,
		EvictionPercentage: 10,
	}
}

// MemoryOutputCache is a single-instance output cache backed by sturdyc.
// sturdyc has no notion of tags, so tag → keys membership is kept in xsync maps.
type MemoryOutputCache struct {
	entries *sturdyc.Client[*cache.Entry]
	tags    *xsync.MapOf[string, *xsync.MapOf[string, struct{}]]
	now     func() time.Time
}

func NewMemoryOutputCache(cfg MemoryConfig) *MemoryOutputCache {
	return &MemoryOutputCache{
		entries: sturdyc.New[*cache.Entry](cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage),
		tags:    xsync.NewMapOf[string, *xsync.MapOf[string, struct{}]](),
		now:     time.Now,
	}
}

var _ cache.OutputCache = (*MemoryOutputCache)(nil)

func (s *MemoryOutputCache) Get(_ context.Context, key string) (*cache.Entry, bool, error) {
	entry, ok := s.entries.Get(key)
	if !ok || entry == nil {
		return nil, false, nil
	}
	if entry.Expired(s.now()) {
		s.entries.Delete(key)
		return nil, false, nil
	}
	return entry, true, nil
}

func (s *MemoryOutputCache) Set(_ context.Context, key string, entry *cache.Entry, tags []string, ttl time.Duration) error {
	if entry.ExpiresAt.IsZero() {
		entry.ExpiresAt = s.now().Add(ttl)
	}
	s.entries.Set(key, entry)

	for _, tag := range tags {
		keys, _ := s.tags.LoadOrStore(tag, xsync.NewMapOf[string, struct{}]())
		keys.Store(key, struct{}{})
	}
	return nil
}

func (s *MemoryOutputCache) EvictByTag(_ context.Context, tags ...string) error {
	for _, tag := range tags {
		keys, ok := s.tags.LoadAndDelete(tag)
		if !ok {
			continue
		}
		keys.Range(func(key string, _ struct{}) bool {
			s.entries.Delete(key)
			return true
		})
	}
	return nil
}

func (s *MemoryOutputCache) Ping(context.Context) error { return nil }

func (s *MemoryOutputCache) Close() error { return nil }
