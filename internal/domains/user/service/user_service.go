package service

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"biblioteca-api/internal/domains/user/model"
	"biblioteca-api/internal/domains/user/repository"
	"biblioteca-api/internal/shared/auth"
	"biblioteca-api/internal/shared/pagination"
	"biblioteca-api/pkg/cache"
	"biblioteca-api/pkg/jwt"
)

// DefaultHashCost is the bcrypt cost used for stored passwords
const DefaultHashCost = 12

type userService struct {
	repo     repository.UserRepository
	tokens   TokenIssuer
	cache    cache.OutputCache
	hashCost int
}

func NewUserService(repo repository.UserRepository, tokens TokenIssuer, outputCache cache.OutputCache) UserService {
	return &userService{
		repo:     repo,
		tokens:   tokens,
		cache:    outputCache,
		hashCost: DefaultHashCost,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *userService) Register(ctx context.Context, req model.CredentialsRequest) (*model.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := model.NormalizeEmail(req.Email)
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return nil, validation.Errors{"email": model.ErrEmailTaken}
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Claims:       map[string]string{},
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return nil, validation.Errors{"email": err}
		}
		return nil, err
	}

	log.Info().Str("user_id", u.ID.String()).Msg("[UserService] user registered")
	s.evict(ctx)
	return s.issue(u)
}

// Login answers the same validation problem for an unknown email and a
// wrong password.
func (s *userService) Login(ctx context.Context, req model.CredentialsRequest) (*model.AuthResponse, error) {
	if err := req.ValidateLogin(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, invalidLogin()
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		log.Debug().Str("user_id", u.ID.String()).Msg("[UserService] password mismatch")
		return nil, invalidLogin()
	}

	return s.issue(u)
}

func (s *userService) RenewToken(ctx context.Context, caller *auth.Principal) (*model.AuthResponse, error) {
	u, err := s.Me(ctx, caller)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

// issue signs a token carrying the claims currently stored for u
func (s *userService) issue(u *model.User) (*model.AuthResponse, error) {
	token, expiration, err := s.tokens.GenerateToken(u.ID.String(), u.Email, u.Claims)
	if err != nil {
		return nil, err
	}
	return &model.AuthResponse{Token: token, Expiration: expiration}, nil
}

// ========================================
// PROFILE
// ========================================

func (s *userService) Me(ctx context.Context, caller *auth.Principal) (*model.User, error) {
	if caller == nil {
		return nil, model.ErrUserNotFound
	}
	return s.repo.FindByID(ctx, caller.UserID)
}

// Update always writes the birth date; the password changes only when a
// new one is given together with the current one.
func (s *userService) Update(ctx context.Context, caller *auth.Principal, req model.UpdateUserRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := s.Me(ctx, caller)
	if err != nil {
		return err
	}

	u.BirthDate = nil
	if req.BirthDate != nil {
		t := req.BirthDate.Time
		u.BirthDate = &t
	}

	if req.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			return validation.Errors{"currentPassword": model.ErrIncorrectPassword}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.hashCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}

	s.evict(ctx)
	return nil
}

// ========================================
// ADMIN
// ========================================

func (s *userService) List(ctx context.Context, page pagination.Params) ([]model.User, int64, error) {
	return s.repo.List(ctx, page.Normalize())
}

func (s *userService) MakeAdmin(ctx context.Context, req model.EditClaimRequest) error {
	return s.editAdmin(ctx, req, s.repo.SetClaim)
}

func (s *userService) RemoveAdmin(ctx context.Context, req model.EditClaimRequest) error {
	return s.editAdmin(ctx, req, s.repo.RemoveClaim)
}

func (s *userService) editAdmin(
	ctx context.Context,
	req model.EditClaimRequest,
	edit func(ctx context.Context, userID uuid.UUID, claimType, value string) error,
) error {
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return err
	}

	if err := edit(ctx, u.ID, jwt.ClaimIsAdmin, "true"); err != nil {
		return err
	}

	log.Info().Str("user_id", u.ID.String()).Msg("[UserService] admin claim changed")
	s.evict(ctx)
	return nil
}

func (s *userService) evict(ctx context.Context) {
	if err := s.cache.EvictByTag(ctx, cache.TagUsers); err != nil {
		log.Warn().Err(err).Str("tag", cache.TagUsers).Msg("[UserService] cache eviction failed")
	}
}

func invalidLogin() error {
	return validation.Errors{"": model.ErrInvalidLogin}
}
