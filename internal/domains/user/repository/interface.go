package repository

import (
	"context"

	"github.com/google/uuid"

	"biblioteca-api/internal/domains/user/model"
	"biblioteca-api/internal/shared/pagination"
)

// UserRepository reads users together with their claims
type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// List orders by email and returns the total before pagination
	List(ctx context.Context, page pagination.Params) ([]model.User, int64, error)
	// Update writes birth date and password hash
	Update(ctx context.Context, u *model.User) error
	SetClaim(ctx context.Context, userID uuid.UUID, claimType, value string) error
	RemoveClaim(ctx context.Context, userID uuid.UUID, claimType, value string) error
}
