package service

import (
	"context"
	"errors"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"biblioteca-api/internal/domains/comment/model"
	infracache "biblioteca-api/internal/infrastructure/cache"
	"biblioteca-api/internal/shared/auth"
	"biblioteca-api/internal/shared/patch"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) ListByBook(ctx context.Context, bookID int) ([]model.Comment, error) {
	args := m.Called(ctx, bookID)
	comments, _ := args.Get(0).([]model.Comment)
	return comments, args.Error(1)
}

func (m *mockRepo) GetByID(ctx context.Context, bookID int, id uuid.UUID) (*model.Comment, error) {
	args := m.Called(ctx, bookID, id)
	c, _ := args.Get(0).(*model.Comment)
	return c, args.Error(1)
}

func (m *mockRepo) Create(ctx context.Context, c *model.Comment) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockRepo) UpdateBody(ctx context.Context, id uuid.UUID, body string) error {
	return m.Called(ctx, id, body).Error(0)
}

func (m *mockRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type books map[int]bool

func (b books) Exists(_ context.Context, id int) (bool, error) {
	return b[id], nil
}

func newTestService(repo *mockRepo) *commentService {
	s := NewCommentService(repo, books{1: true}, infracache.NewMemoryOutputCache(infracache.DefaultMemoryConfig(time.Minute))).(*commentService)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestCreate(t *testing.T) {
	repo := new(mockRepo)
	s := newTestService(repo)
	user := &auth.Principal{UserID: uuid.New(), Email: "reader@example.com"}

	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *model.Comment) bool {
		return c.BookID == 1 && c.UserID == user.UserID && c.Body == "Great read"
	})).Return(nil)

	c, err := s.Create(context.Background(), 1, user, model.CreateCommentRequest{Body: "Great read"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.Equal(t, "reader@example.com", c.UserEmail)
	assert.Equal(t, 2024, c.PostedAt.Year())
	repo.AssertExpectations(t)
}

func TestCreate_Rejections(t *testing.T) {
	user := &auth.Principal{UserID: uuid.New()}

	t.Run("empty body", func(t *testing.T) {
		s := newTestService(new(mockRepo))
		_, err := s.Create(context.Background(), 1, user, model.CreateCommentRequest{})
		var verrs validation.Errors
		require.True(t, errors.As(err, &verrs))
		assert.Contains(t, verrs, "body")
	})

	t.Run("unknown book", func(t *testing.T) {
		s := newTestService(new(mockRepo))
		_, err := s.Create(context.Background(), 42, user, model.CreateCommentRequest{Body: "x"})
		assert.ErrorIs(t, err, model.ErrBookNotFound)
	})
}

func TestPatch(t *testing.T) {
	owner := &auth.Principal{UserID: uuid.New()}
	id := uuid.New()
	existing := &model.Comment{ID: id, Body: "old", BookID: 1, UserID: owner.UserID}

	t.Run("owner replaces body", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetByID", mock.Anything, 1, id).Return(existing, nil)
		repo.On("UpdateBody", mock.Anything, id, "new").Return(nil)

		err := newTestService(repo).Patch(context.Background(), 1, id, owner,
			[]byte(`[{"op":"replace","path":"/body","value":"new"}]`))
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("other user", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetByID", mock.Anything, 1, id).Return(existing, nil)

		err := newTestService(repo).Patch(context.Background(), 1, id, &auth.Principal{UserID: uuid.New()},
			[]byte(`[{"op":"replace","path":"/body","value":"new"}]`))
		assert.ErrorIs(t, err, model.ErrNotOwner)
		repo.AssertNotCalled(t, "UpdateBody", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("emptied body fails validation", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetByID", mock.Anything, 1, id).Return(existing, nil)

		err := newTestService(repo).Patch(context.Background(), 1, id, owner,
			[]byte(`[{"op":"replace","path":"/body","value":""}]`))
		var verrs validation.Errors
		require.True(t, errors.As(err, &verrs))
		assert.Contains(t, verrs, "body")
	})

	t.Run("removed body fails validation", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetByID", mock.Anything, 1, id).Return(existing, nil)

		err := newTestService(repo).Patch(context.Background(), 1, id, owner,
			[]byte(`[{"op":"remove","path":"/body"}]`))
		var verrs validation.Errors
		require.True(t, errors.As(err, &verrs))
		assert.Contains(t, verrs, "body")
		repo.AssertNotCalled(t, "UpdateBody", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed document", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetByID", mock.Anything, 1, id).Return(existing, nil)

		err := newTestService(repo).Patch(context.Background(), 1, id, owner, []byte(`{"op":"replace"}`))
		assert.True(t, patch.IsClientError(err))
	})
}

func TestDelete(t *testing.T) {
	owner := &auth.Principal{UserID: uuid.New()}
	id := uuid.New()

	repo := new(mockRepo)
	repo.On("GetByID", mock.Anything, 1, id).Return(&model.Comment{ID: id, BookID: 1, UserID: owner.UserID}, nil)
	repo.On("SoftDelete", mock.Anything, id).Return(nil)

	require.NoError(t, newTestService(repo).Delete(context.Background(), 1, id, owner))
	repo.AssertExpectations(t)

	missing := new(mockRepo)
	missing.On("GetByID", mock.Anything, 1, id).Return(nil, model.ErrCommentNotFound)
	err := newTestService(missing).Delete(context.Background(), 1, id, owner)
	assert.ErrorIs(t, err, model.ErrCommentNotFound)
}
