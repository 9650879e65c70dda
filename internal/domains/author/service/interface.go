package service

import (
	"context"

	"biblioteca-api/internal/domains/author/model"
	"biblioteca-api/internal/infrastructure/storage"
	"biblioteca-api/internal/shared/pagination"
)

// ServiceInterface is the business contract of the author domain.
// Validation failures are returned as ozzo validation.Errors.
type ServiceInterface interface {
	List(ctx context.Context, page pagination.Params) ([]model.Author, int64, error)
	GetByID(ctx context.Context, id int) (*model.Author, error)
	// GetByIDs parses a comma separated id list and requires every id to exist
	GetByIDs(ctx context.Context, ids string) ([]model.Author, error)
	Filter(ctx context.Context, filter model.AuthorFilter) ([]model.Author, error)

	Create(ctx context.Context, req model.CreateAuthorRequest) (*model.Author, error)
	CreateWithPhoto(ctx context.Context, req model.CreateAuthorRequest, photo *storage.File) (*model.Author, error)
	CreateMany(ctx context.Context, reqs []model.CreateAuthorRequest) ([]model.Author, error)
	Update(ctx context.Context, id int, req model.CreateAuthorRequest, photo *storage.File) error
	Patch(ctx context.Context, id int, document []byte) error
	Delete(ctx context.Context, id int) error
}

// PhotoStore is the part of storage.FileStorage the service writes with
type PhotoStore interface {
	Store(ctx context.Context, container string, file storage.File) (string, error)
	Edit(ctx context.Context, currentURL, container string, file storage.File) (string, error)
}

// PhotoRemover deletes a stored photo, inline or through the job queue
type PhotoRemover interface {
	Delete(ctx context.Context, url, container string) error
}

// PhotoPreparer validates and normalises an uploaded photo
type PhotoPreparer interface {
	Prepare(file storage.File) (storage.File, error)
}
