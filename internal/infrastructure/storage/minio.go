package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"biblioteca-api/internal/config"
)

// MinIOStorage keeps files in a single bucket under <container>/<name>
type MinIOStorage struct {
	client *minio.Client
	bucket string
}

// NewMinIOStorage connects and creates the bucket when missing
func NewMinIOStorage(ctx context.Context, cfg config.MinIOConfig) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinIOStorage{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

var _ FileStorage = (*MinIOStorage)(nil)

func (s *MinIOStorage) Store(ctx context.Context, container string, file File) (string, error) {
	key := container + "/" + newObjectName(file.Name)

	_, err := s.client.PutObject(
		ctx,
		s.bucket,
		key,
		bytes.NewReader(file.Data),
		int64(len(file.Data)),
		minio.PutObjectOptions{ContentType: file.ContentType},
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload to minio: %w", err)
	}

	// http://localhost:9000/library/authors/<uuid>.jpg
	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, key), nil
}

func (s *MinIOStorage) Edit(ctx context.Context, currentURL, container string, file File) (string, error) {
	if err := s.Delete(ctx, currentURL, container); err != nil {
		return "", err
	}
	return s.Store(ctx, container, file)
}

func (s *MinIOStorage) Delete(ctx context.Context, url, container string) error {
	if url == "" {
		return nil
	}

	key := container + "/" + objectNameFromURL(url)
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		var resp minio.ErrorResponse
		if errors.As(err, &resp) && resp.Code == "NoSuchKey" {
			return nil
		}
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
