package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"biblioteca-api/internal/domains/author/model"
	"biblioteca-api/internal/domains/author/repository"
	"biblioteca-api/internal/infrastructure/storage"
	"biblioteca-api/internal/shared/pagination"
	"biblioteca-api/internal/shared/patch"
	"biblioteca-api/pkg/cache"
)

type authorService struct {
	repo     repository.RepositoryInterface
	cache    cache.OutputCache
	photos   PhotoStore
	remover  PhotoRemover
	preparer PhotoPreparer
}

func NewAuthorService(
	repo repository.RepositoryInterface,
	outputCache cache.OutputCache,
	photos PhotoStore,
	remover PhotoRemover,
	preparer PhotoPreparer,
) ServiceInterface {
	return &authorService{
		repo:     repo,
		cache:    outputCache,
		photos:   photos,
		remover:  remover,
		preparer: preparer,
	}
}

// ========================================
// READ
// ========================================

func (s *authorService) List(ctx context.Context, page pagination.Params) ([]model.Author, int64, error) {
	return s.repo.List(ctx, page.Normalize())
}

func (s *authorService) GetByID(ctx context.Context, id int) (*model.Author, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *authorService) GetByIDs(ctx context.Context, raw string) ([]model.Author, error) {
	ids := parseIDs(raw)
	if len(ids) == 0 {
		return nil, validation.Errors{"ids": model.ErrNoValidIDs}
	}

	authors, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(authors) != len(ids) {
		return nil, model.ErrAuthorsMissing
	}
	return authors, nil
}

func (s *authorService) Filter(ctx context.Context, filter model.AuthorFilter) ([]model.Author, error) {
	sort, err := model.ResolveSort(filter.SortField, filter.Ascending())
	if err != nil {
		log.Warn().
			Err(err).
			Str("sort_field", filter.SortField).
			Msg("[AuthorService] falling back to first name ordering")
	}
	return s.repo.Filter(ctx, filter, sort)
}

// ========================================
// WRITE
// ========================================

func (s *authorService) Create(ctx context.Context, req model.CreateAuthorRequest) (*model.Author, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a := req.ToAuthor()
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.evict(ctx)
	return a, nil
}

func (s *authorService) CreateWithPhoto(ctx context.Context, req model.CreateAuthorRequest, photo *storage.File) (*model.Author, error) {
	req.Books = nil
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a := req.ToAuthor()
	if photo != nil {
		url, err := s.storePhoto(ctx, "", *photo)
		if err != nil {
			return nil, err
		}
		a.Photo = &url
	}

	if err := s.repo.Create(ctx, a); err != nil {
		if a.HasPhoto() {
			s.removePhoto(ctx, *a.Photo, 0)
		}
		return nil, err
	}

	s.evict(ctx)
	return a, nil
}

func (s *authorService) CreateMany(ctx context.Context, reqs []model.CreateAuthorRequest) ([]model.Author, error) {
	errs := validation.Errors{}
	for i, req := range reqs {
		if err := req.Validate(); err != nil {
			errs[strconv.Itoa(i)] = err
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	authors := make([]*model.Author, 0, len(reqs))
	for _, req := range reqs {
		authors = append(authors, req.ToAuthor())
	}
	if err := s.repo.CreateMany(ctx, authors); err != nil {
		return nil, err
	}

	s.evict(ctx)

	out := make([]model.Author, 0, len(authors))
	for _, a := range authors {
		out = append(out, *a)
	}
	return out, nil
}

// Update replaces the scalar fields. The photo is replaced only when a
// new one is uploaded; otherwise the stored one is kept.
func (s *authorService) Update(ctx context.Context, id int, req model.CreateAuthorRequest, photo *storage.File) error {
	req.Books = nil
	if err := req.Validate(); err != nil {
		return err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	updated := req.ToAuthor()
	updated.ID = id
	updated.Photo = current.Photo

	if photo != nil {
		currentURL := ""
		if current.Photo != nil {
			currentURL = *current.Photo
		}
		url, err := s.storePhoto(ctx, currentURL, *photo)
		if err != nil {
			return err
		}
		updated.Photo = &url
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		return err
	}

	s.evict(ctx)
	return nil
}

func (s *authorService) Patch(ctx context.Context, id int, document []byte) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	projection := model.NewAuthorPatch(a)
	if err := patch.Apply(document, &projection); err != nil {
		return err
	}
	if err := projection.Validate(); err != nil {
		return err
	}

	projection.ApplyTo(a)
	if err := s.repo.Update(ctx, a); err != nil {
		return err
	}

	s.evict(ctx)
	return nil
}

func (s *authorService) Delete(ctx context.Context, id int) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.evict(ctx)

	if a.HasPhoto() {
		s.removePhoto(ctx, *a.Photo, id)
	}
	return nil
}

// removePhoto deletes a stored photo that no row references; failures are only logged
func (s *authorService) removePhoto(ctx context.Context, url string, authorID int) {
	if err := s.remover.Delete(ctx, url, model.PhotoContainer); err != nil {
		log.Error().
			Err(err).
			Int("author_id", authorID).
			Str("photo", url).
			Msg("[AuthorService] failed to remove author photo")
	}
}

// storePhoto normalises the upload and stores it, replacing currentURL when set
func (s *authorService) storePhoto(ctx context.Context, currentURL string, photo storage.File) (string, error) {
	prepared, err := s.preparer.Prepare(photo)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidImage) {
			return "", validation.Errors{"photo": fmt.Errorf("%w: %v", model.ErrInvalidPhoto, err)}
		}
		return "", err
	}

	if currentURL == "" {
		return s.photos.Store(ctx, model.PhotoContainer, prepared)
	}
	return s.photos.Edit(ctx, currentURL, model.PhotoContainer, prepared)
}

// evict drops cached author pages and the book pages embedding author names
func (s *authorService) evict(ctx context.Context) {
	tags := []string{cache.TagAuthors, cache.TagBooks}
	if err := s.cache.EvictByTag(ctx, tags...); err != nil {
		log.Warn().Err(err).Strs("tags", tags).Msg("[AuthorService] cache eviction failed")
	}
}

// parseIDs keeps the integers of a comma separated list, dropping the rest
func parseIDs(raw string) []int {
	seen := make(map[int]struct{})
	ids := make([]int, 0)
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
