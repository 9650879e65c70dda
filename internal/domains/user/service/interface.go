package service

import (
	"context"
	"time"

	"biblioteca-api/internal/domains/user/model"
	"biblioteca-api/internal/shared/auth"
	"biblioteca-api/internal/shared/pagination"
)

type UserService interface {
	Register(ctx context.Context, req model.CredentialsRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req model.CredentialsRequest) (*model.AuthResponse, error)
	Me(ctx context.Context, caller *auth.Principal) (*model.User, error)
	List(ctx context.Context, page pagination.Params) ([]model.User, int64, error)
	Update(ctx context.Context, caller *auth.Principal, req model.UpdateUserRequest) error
	RenewToken(ctx context.Context, caller *auth.Principal) (*model.AuthResponse, error)
	MakeAdmin(ctx context.Context, req model.EditClaimRequest) error
	RemoveAdmin(ctx context.Context, req model.EditClaimRequest) error
}

// TokenIssuer signs access tokens carrying the user's stored claims
type TokenIssuer interface {
	GenerateToken(userID, email string, custom map[string]string) (string, time.Time, error)
}
