package service

import (
	"context"

	"biblioteca-api/internal/domains/rating/model"
	"biblioteca-api/internal/shared/auth"
)

// RatingService keeps one score per (user, book) and the book's aggregate
// in step with it. user may be nil only for Get.
type RatingService interface {
	Get(ctx context.Context, bookID int, user *auth.Principal) (*model.BookRating, error)
	Create(ctx context.Context, bookID int, user *auth.Principal, req model.RatingRequest) error
	Update(ctx context.Context, bookID int, user *auth.Principal, req model.RatingRequest) error
	Delete(ctx context.Context, bookID int, user *auth.Principal) error
}
