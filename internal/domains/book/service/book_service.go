package service

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"biblioteca-api/internal/domains/book/model"
	"biblioteca-api/internal/domains/book/repository"
	"biblioteca-api/internal/shared/pagination"
	"biblioteca-api/pkg/cache"
)

type BookService struct {
	repo  repository.RepositoryInterface
	cache cache.OutputCache
}

func NewService(repo repository.RepositoryInterface, outputCache cache.OutputCache) *BookService {
	return &BookService{
		repo:  repo,
		cache: outputCache,
	}
}

func (s *BookService) List(ctx context.Context, page pagination.Params) ([]model.Book, int64, error) {
	return s.repo.List(ctx, page.Normalize())
}

func (s *BookService) GetByID(ctx context.Context, id int) (*model.Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *BookService) Exists(ctx context.Context, id int) (bool, error) {
	return s.repo.Exists(ctx, id)
}

func (s *BookService) Create(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	authorIDs, err := s.validate(ctx, req)
	if err != nil {
		return nil, err
	}

	b := &model.Book{Title: req.Title}
	b.AssignAuthors(authorIDs)

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.evict(ctx)
	return b, nil
}

func (s *BookService) Update(ctx context.Context, id int, req model.CreateBookRequest) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return model.ErrBookNotFound
	}

	authorIDs, err := s.validate(ctx, req)
	if err != nil {
		return err
	}

	b := &model.Book{ID: id, Title: req.Title}
	b.AssignAuthors(authorIDs)

	if err := s.repo.Update(ctx, b); err != nil {
		return err
	}

	s.evict(ctx)
	return nil
}

func (s *BookService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	// comments and ratings cascade with the book
	s.evict(ctx, cache.TagComments, cache.TagRatings)
	return nil
}

// validate checks the body, then that every referenced author exists.
// It returns the de-duplicated author ids in request order.
func (s *BookService) validate(ctx context.Context, req model.CreateBookRequest) ([]int, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ids := req.UniqueAuthorIDs()
	if len(ids) == 0 {
		return nil, validation.Errors{"authorsIds": model.ErrNoAuthors}
	}

	found, err := s.repo.ExistingAuthorIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		existing := make(map[int]struct{}, len(found))
		for _, id := range found {
			existing[id] = struct{}{}
		}
		missing := make([]int, 0, len(ids)-len(found))
		for _, id := range ids {
			if _, ok := existing[id]; !ok {
				missing = append(missing, id)
			}
		}
		return nil, validation.Errors{"authorsIds": errors.New(model.MissingAuthorsMessage(missing))}
	}

	return ids, nil
}

// evict drops book pages, the author pages listing book titles and any extra tags
func (s *BookService) evict(ctx context.Context, extra ...string) {
	tags := append([]string{cache.TagBooks, cache.TagAuthors}, extra...)
	if err := s.cache.EvictByTag(ctx, tags...); err != nil {
		log.Warn().Err(err).Strs("tags", tags).Msg("[BookService] cache eviction failed")
	}
}
