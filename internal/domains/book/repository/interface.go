package repository

import (
	"context"

	"biblioteca-api/internal/domains/book/model"
	"biblioteca-api/internal/shared/pagination"
)

type RepositoryInterface interface {
	// List returns a page ordered by title plus the total count
	List(ctx context.Context, page pagination.Params) ([]model.Book, int64, error)
	// GetByID loads the book with its authors ordered by "order"
	GetByID(ctx context.Context, id int) (*model.Book, error)
	Exists(ctx context.Context, id int) (bool, error)
	// ExistingAuthorIDs returns the subset of ids that are stored authors
	ExistingAuthorIDs(ctx context.Context, ids []int) ([]int, error)

	Create(ctx context.Context, b *model.Book) error
	// Update rewrites the title and replaces every author link
	Update(ctx context.Context, b *model.Book) error
	Delete(ctx context.Context, id int) error
}
