package service

import (
	"context"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biblioteca-api/internal/domains/book/model"
	"biblioteca-api/internal/shared/pagination"
	"biblioteca-api/pkg/cache"
)

type fakeRepo struct {
	books   map[int]*model.Book
	authors map[int]bool
	nextID  int
}

func newFakeRepo(authorIDs ...int) *fakeRepo {
	r := &fakeRepo{books: map[int]*model.Book{}, authors: map[int]bool{}, nextID: 1}
	for _, id := range authorIDs {
		r.authors[id] = true
	}
	return r
}

func (r *fakeRepo) List(context.Context, pagination.Params) ([]model.Book, int64, error) {
	out := make([]model.Book, 0, len(r.books))
	for _, b := range r.books {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) GetByID(_ context.Context, id int) (*model.Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeRepo) Exists(_ context.Context, id int) (bool, error) {
	_, ok := r.books[id]
	return ok, nil
}

func (r *fakeRepo) ExistingAuthorIDs(_ context.Context, ids []int) ([]int, error) {
	out := []int{}
	for _, id := range ids {
		if r.authors[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *fakeRepo) Create(_ context.Context, b *model.Book) error {
	b.ID = r.nextID
	r.nextID++
	cp := *b
	r.books[b.ID] = &cp
	return nil
}

func (r *fakeRepo) Update(_ context.Context, b *model.Book) error {
	cp := *b
	r.books[b.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.books[id]; !ok {
		return model.ErrBookNotFound
	}
	delete(r.books, id)
	return nil
}

type spyCache struct{ evicted []string }

func (c *spyCache) Get(context.Context, string) (*cache.Entry, bool, error) { return nil, false, nil }
func (c *spyCache) Set(context.Context, string, *cache.Entry, []string, time.Duration) error {
	return nil
}
func (c *spyCache) EvictByTag(_ context.Context, tags ...string) error {
	c.evicted = append(c.evicted, tags...)
	return nil
}
func (c *spyCache) Ping(context.Context) error { return nil }
func (c *spyCache) Close() error               { return nil }

func fieldErrors(t *testing.T, err error) validation.Errors {
	t.Helper()
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	return verrs
}

func TestCreate_RequiresAuthors(t *testing.T) {
	svc := NewService(newFakeRepo(1), &spyCache{})

	_, err := svc.Create(context.Background(), model.CreateBookRequest{Title: "T", AuthorsIds: []int{}})
	verrs := fieldErrors(t, err)
	assert.EqualError(t, verrs["authorsIds"], "A book cannot be created without authors")
}

func TestCreate_ListsMissingAuthors(t *testing.T) {
	svc := NewService(newFakeRepo(1), &spyCache{})

	_, err := svc.Create(context.Background(), model.CreateBookRequest{Title: "T", AuthorsIds: []int{3, 1, 2}})
	verrs := fieldErrors(t, err)
	assert.EqualError(t, verrs["authorsIds"], "The following authors do not exist: 3,2")
}

func TestCreate_ValidatesTitle(t *testing.T) {
	svc := NewService(newFakeRepo(1), &spyCache{})

	_, err := svc.Create(context.Background(), model.CreateBookRequest{AuthorsIds: []int{1}})
	verrs := fieldErrors(t, err)
	assert.Contains(t, verrs, "title")
}

func TestCreate_AssignsOrderFromPosition(t *testing.T) {
	repo := newFakeRepo(1, 2, 3)
	c := &spyCache{}
	svc := NewService(repo, c)

	b, err := svc.Create(context.Background(), model.CreateBookRequest{Title: "T", AuthorsIds: []int{3, 1, 3, 2}})
	require.NoError(t, err)

	require.Len(t, b.Authors, 3)
	assert.Equal(t, model.BookAuthor{AuthorID: 3, Order: 0}, b.Authors[0])
	assert.Equal(t, model.BookAuthor{AuthorID: 1, Order: 1}, b.Authors[1])
	assert.Equal(t, model.BookAuthor{AuthorID: 2, Order: 2}, b.Authors[2])
	assert.ElementsMatch(t, []string{cache.TagBooks, cache.TagAuthors}, c.evicted)
}

func TestUpdate_ReassignsOrder(t *testing.T) {
	repo := newFakeRepo(1, 2)
	svc := NewService(repo, &spyCache{})
	ctx := context.Background()

	b, err := svc.Create(ctx, model.CreateBookRequest{Title: "T", AuthorsIds: []int{1, 2}})
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, b.ID, model.CreateBookRequest{Title: "T2", AuthorsIds: []int{2, 1}}))
	stored := repo.books[b.ID]
	assert.Equal(t, "T2", stored.Title)
	assert.Equal(t, 2, stored.Authors[0].AuthorID)
	assert.Equal(t, 0, stored.Authors[0].Order)

	err = svc.Update(ctx, 99, model.CreateBookRequest{Title: "T", AuthorsIds: []int{1}})
	assert.ErrorIs(t, err, model.ErrBookNotFound)
}

func TestDelete(t *testing.T) {
	repo := newFakeRepo(1)
	c := &spyCache{}
	svc := NewService(repo, c)
	ctx := context.Background()

	b, err := svc.Create(ctx, model.CreateBookRequest{Title: "T", AuthorsIds: []int{1}})
	require.NoError(t, err)

	c.evicted = nil
	require.NoError(t, svc.Delete(ctx, b.ID))
	assert.ElementsMatch(t, []string{cache.TagBooks, cache.TagAuthors, cache.TagComments, cache.TagRatings}, c.evicted)
	assert.ErrorIs(t, svc.Delete(ctx, b.ID), model.ErrBookNotFound)
}
