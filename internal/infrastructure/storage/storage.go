package storage

import (
	"context"
	"path"
	"strings"

	"github.com/google/uuid"
)

// File is an uploaded file held in memory
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// FileStorage stores files grouped in containers (e.g. "authors")
// and addresses them by the public URL returned from Store.
type FileStorage interface {
	Store(ctx context.Context, container string, file File) (string, error)
	// Edit replaces the file at currentURL (may be empty) with file
	Edit(ctx context.Context, currentURL, container string, file File) (string, error)
	// Delete is a no-op for an empty URL or a missing file
	Delete(ctx context.Context, url, container string) error
}

// newObjectName keeps the original extension behind a random name
func newObjectName(original string) string {
	return uuid.NewString() + strings.ToLower(path.Ext(original))
}

// objectNameFromURL returns the last path segment of url
func objectNameFromURL(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	return path.Base(url)
}
