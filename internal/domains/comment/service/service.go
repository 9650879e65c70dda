package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"biblioteca-api/internal/domains/comment/model"
	"biblioteca-api/internal/domains/comment/repository"
	"biblioteca-api/internal/shared/auth"
	"biblioteca-api/internal/shared/patch"
	"biblioteca-api/pkg/cache"
)

type commentService struct {
	repo  repository.CommentRepository
	books BookChecker
	cache cache.OutputCache
	now   func() time.Time
}

func NewCommentService(repo repository.CommentRepository, books BookChecker, outputCache cache.OutputCache) CommentService {
	return &commentService{
		repo:  repo,
		books: books,
		cache: outputCache,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *commentService) List(ctx context.Context, bookID int) ([]model.Comment, error) {
	if err := s.requireBook(ctx, bookID); err != nil {
		return nil, err
	}
	return s.repo.ListByBook(ctx, bookID)
}

func (s *commentService) Get(ctx context.Context, bookID int, id uuid.UUID) (*model.Comment, error) {
	return s.repo.GetByID(ctx, bookID, id)
}

func (s *commentService) Create(ctx context.Context, bookID int, user *auth.Principal, req model.CreateCommentRequest) (*model.Comment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireBook(ctx, bookID); err != nil {
		return nil, err
	}

	c := &model.Comment{
		ID:        uuid.New(),
		Body:      req.Body,
		PostedAt:  s.now(),
		BookID:    bookID,
		UserID:    user.UserID,
		UserEmail: user.Email,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.evict(ctx)
	return c, nil
}

func (s *commentService) Patch(ctx context.Context, bookID int, id uuid.UUID, user *auth.Principal, document []byte) error {
	c, err := s.ownedComment(ctx, bookID, id, user)
	if err != nil {
		return err
	}

	projection := model.CommentPatch{Body: c.Body}
	if err := patch.Apply(document, &projection); err != nil {
		return err
	}
	if err := projection.Validate(); err != nil {
		return err
	}

	if err := s.repo.UpdateBody(ctx, c.ID, projection.Body); err != nil {
		return err
	}

	s.evict(ctx)
	return nil
}

func (s *commentService) Delete(ctx context.Context, bookID int, id uuid.UUID, user *auth.Principal) error {
	c, err := s.ownedComment(ctx, bookID, id, user)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, c.ID); err != nil {
		return err
	}

	s.evict(ctx)
	return nil
}

func (s *commentService) ownedComment(ctx context.Context, bookID int, id uuid.UUID, user *auth.Principal) (*model.Comment, error) {
	if err := s.requireBook(ctx, bookID); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, bookID, id)
	if err != nil {
		return nil, err
	}
	if !c.OwnedBy(user.UserID) {
		return nil, model.ErrNotOwner
	}
	return c, nil
}

func (s *commentService) requireBook(ctx context.Context, bookID int) error {
	exists, err := s.books.Exists(ctx, bookID)
	if err != nil {
		return err
	}
	if !exists {
		return model.ErrBookNotFound
	}
	return nil
}

func (s *commentService) evict(ctx context.Context) {
	if err := s.cache.EvictByTag(ctx, cache.TagComments); err != nil {
		log.Warn().Err(err).Str("tag", cache.TagComments).Msg("[CommentService] cache eviction failed")
	}
}
