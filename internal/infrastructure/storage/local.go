package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// LocalStorage writes files below root/<container> and serves them under publicURL
type LocalStorage struct {
	root      string
	publicURL string
}

func NewLocalStorage(root, publicURL string) *LocalStorage {
	return &LocalStorage{root: root, publicURL: strings.TrimRight(publicURL, "/")}
}

var _ FileStorage = (*LocalStorage)(nil)

func (s *LocalStorage) Store(_ context.Context, container string, file File) (string, error) {
	folder := filepath.Join(s.root, container)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", fmt.Errorf("create folder %s: %w", folder, err)
	}

	name := newObjectName(file.Name)
	if err := os.WriteFile(filepath.Join(folder, name), file.Data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.publicURL, container, name), nil
}

func (s *LocalStorage) Edit(ctx context.Context, currentURL, container string, file File) (string, error) {
	if err := s.Delete(ctx, currentURL, container); err != nil {
		return "", err
	}
	return s.Store(ctx, container, file)
}

func (s *LocalStorage) Delete(_ context.Context, url, container string) error {
	if url == "" {
		return nil
	}

	target := filepath.Join(s.root, container, objectNameFromURL(url))
	err := os.Remove(target)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("path", target).Msg("[STORAGE] file already gone")
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete %s: %w", target, err)
	}
	return nil
}
