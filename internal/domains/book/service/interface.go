package service

import (
	"context"

	"biblioteca-api/internal/domains/book/model"
	"biblioteca-api/internal/shared/pagination"
)

type ServiceInterface interface {
	List(ctx context.Context, page pagination.Params) ([]model.Book, int64, error)
	GetByID(ctx context.Context, id int) (*model.Book, error)
	Exists(ctx context.Context, id int) (bool, error)
	Create(ctx context.Context, req model.CreateBookRequest) (*model.Book, error)
	Update(ctx context.Context, id int, req model.CreateBookRequest) error
	Delete(ctx context.Context, id int) error
}
