package service

import (
	"context"
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"biblioteca-api/internal/domains/rating/model"
	"biblioteca-api/internal/domains/rating/repository"
	"biblioteca-api/internal/shared/auth"
	"biblioteca-api/pkg/cache"
)

type ratingService struct {
	repo  repository.RatingRepository
	cache cache.OutputCache
	now   func() time.Time
}

func NewRatingService(repo repository.RatingRepository, outputCache cache.OutputCache) RatingService {
	return &ratingService{
		repo:  repo,
		cache: outputCache,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *ratingService) Get(ctx context.Context, bookID int, user *auth.Principal) (*model.BookRating, error) {
	summary, err := s.repo.Summary(ctx, bookID)
	if err != nil {
		return nil, err
	}

	out := &model.BookRating{Summary: *summary}
	if user == nil {
		return out, nil
	}

	mine, err := s.repo.Find(ctx, bookID, user.UserID)
	switch {
	case err == nil:
		out.UserScore = &mine.Score
	case !errors.Is(err, model.ErrRatingNotFound):
		return nil, err
	}
	return out, nil
}

// Create rejects, in order: anonymous callers, unknown books, scores out
// of range and a second rating of the same book.
func (s *ratingService) Create(ctx context.Context, bookID int, user *auth.Principal, req model.RatingRequest) error {
	if user == nil {
		return model.ErrUnauthorized
	}
	if _, err := s.repo.Summary(ctx, bookID); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	_, err := s.repo.Find(ctx, bookID, user.UserID)
	if err == nil {
		return validation.Errors{"bookId": model.ErrAlreadyRated}
	}
	if !errors.Is(err, model.ErrRatingNotFound) {
		return err
	}

	summary, err := s.repo.Create(ctx, &model.Rating{
		BookID:    bookID,
		UserID:    user.UserID,
		Score:     req.Score,
		CreatedAt: s.now(),
	})
	if err != nil {
		return err
	}

	s.changed(ctx, bookID, summary)
	return nil
}

func (s *ratingService) Update(ctx context.Context, bookID int, user *auth.Principal, req model.RatingRequest) error {
	if user == nil {
		return model.ErrUnauthorized
	}
	if err := req.Validate(); err != nil {
		return err
	}

	existing, err := s.repo.Find(ctx, bookID, user.UserID)
	if err != nil {
		return err
	}

	summary, err := s.repo.UpdateScore(ctx, existing.ID, bookID, req.Score)
	if err != nil {
		return err
	}

	s.changed(ctx, bookID, summary)
	return nil
}

func (s *ratingService) Delete(ctx context.Context, bookID int, user *auth.Principal) error {
	if user == nil {
		return model.ErrUnauthorized
	}

	existing, err := s.repo.Find(ctx, bookID, user.UserID)
	if err != nil {
		return err
	}

	summary, err := s.repo.Delete(ctx, existing.ID, bookID)
	if err != nil {
		return err
	}

	s.changed(ctx, bookID, summary)
	return nil
}

func (s *ratingService) changed(ctx context.Context, bookID int, summary *model.Summary) {
	log.Debug().
		Int("book_id", bookID).
		Str("average", summary.Average.String()).
		Int("total", summary.Total).
		Msg("[RatingService] book rating recomputed")

	tags := []string{cache.TagRatings, cache.TagBooks}
	if err := s.cache.EvictByTag(ctx, tags...); err != nil {
		log.Warn().Err(err).Strs("tags", tags).Msg("[RatingService] cache eviction failed")
	}
}
