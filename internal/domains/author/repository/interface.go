package repository

import (
	"context"

	"biblioteca-api/internal/domains/author/model"
	"biblioteca-api/internal/shared/pagination"
)

// RepositoryInterface is the data access contract of the author domain
type RepositoryInterface interface {
	// List returns a page ordered by first name plus the total count
	List(ctx context.Context, page pagination.Params) ([]model.Author, int64, error)
	// GetByID loads the author with its books ordered by "order"
	GetByID(ctx context.Context, id int) (*model.Author, error)
	GetByIDs(ctx context.Context, ids []int) ([]model.Author, error)
	Filter(ctx context.Context, filter model.AuthorFilter, sort model.SortSpec) ([]model.Author, error)
	Exists(ctx context.Context, id int) (bool, error)

	// Create inserts the author and its nested books in one transaction
	Create(ctx context.Context, a *model.Author) error
	CreateMany(ctx context.Context, authors []*model.Author) error
	Update(ctx context.Context, a *model.Author) error
	Delete(ctx context.Context, id int) error
}
