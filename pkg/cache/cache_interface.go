package cache

import (
	"context"
	"net/http"
	"time"
)

// Entry is one cached HTTP response.
type Entry struct {
	Status    int         `json:"status"`
	Header    http.Header `json:"header"`
	Body      []byte      `json:"body"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// Expired reports whether the entry outlived its TTL
func (e *Entry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// OutputCache stores rendered responses grouped by tags so that
// a whole resource family can be evicted after a mutation.
// Implementations: Redis (shared between instances) and in-memory.
type OutputCache interface {
	// Get returns the entry stored under key.
	// found = false on miss or when the entry expired.
	Get(ctx context.Context, key string) (*Entry, bool, error)

	// Set stores entry under key, attaches it to every tag and expires it after ttl
	Set(ctx context.Context, key string, entry *Entry, tags []string, ttl time.Duration) error

	// EvictByTag removes every entry attached to any of the tags
	EvictByTag(ctx context.Context, tags ...string) error

	// Ping checks the backend connection
	Ping(ctx context.Context) error

	Close() error
}

// Output cache tags, one per resource family.
const (
	TagAuthors  = "authors-get"
	TagBooks    = "books-get"
	TagComments = "comments-get"
	TagRatings  = "ratings"
	TagUsers    = "users-get"
)
