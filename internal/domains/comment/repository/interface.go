package repository

import (
	"context"

	"github.com/google/uuid"

	"biblioteca-api/internal/domains/comment/model"
)

// CommentRepository never returns soft-deleted rows
type CommentRepository interface {
	// ListByBook returns the comments of a book, newest first
	ListByBook(ctx context.Context, bookID int) ([]model.Comment, error)
	GetByID(ctx context.Context, bookID int, id uuid.UUID) (*model.Comment, error)
	Create(ctx context.Context, c *model.Comment) error
	UpdateBody(ctx context.Context, id uuid.UUID, body string) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
