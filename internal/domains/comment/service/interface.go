package service

import (
	"context"

	"github.com/google/uuid"

	"biblioteca-api/internal/domains/comment/model"
	"biblioteca-api/internal/shared/auth"
)

type CommentService interface {
	List(ctx context.Context, bookID int) ([]model.Comment, error)
	Get(ctx context.Context, bookID int, id uuid.UUID) (*model.Comment, error)
	Create(ctx context.Context, bookID int, user *auth.Principal, req model.CreateCommentRequest) (*model.Comment, error)
	// Patch and Delete return model.ErrNotOwner for other users' comments
	Patch(ctx context.Context, bookID int, id uuid.UUID, user *auth.Principal, document []byte) error
	Delete(ctx context.Context, bookID int, id uuid.UUID, user *auth.Principal) error
}

// BookChecker reports whether a book exists
type BookChecker interface {
	Exists(ctx context.Context, id int) (bool, error)
}
