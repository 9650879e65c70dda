package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"biblioteca-api/internal/domains/rating/model"
)

// RatingRepository persists ratings. Every mutation recomputes the book's
// cached average and count inside the same transaction.
type RatingRepository interface {
	// Summary returns the cached aggregate of a book, ErrBookNotFound when absent
	Summary(ctx context.Context, bookID int) (*model.Summary, error)
	// Find returns the caller's rating, ErrRatingNotFound when absent
	Find(ctx context.Context, bookID int, userID uuid.UUID) (*model.Rating, error)
	Create(ctx context.Context, r *model.Rating) (*model.Summary, error)
	UpdateScore(ctx context.Context, id int, bookID int, score decimal.Decimal) (*model.Summary, error)
	Delete(ctx context.Context, id int, bookID int) (*model.Summary, error)
}
