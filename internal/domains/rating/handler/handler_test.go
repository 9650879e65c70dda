package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biblioteca-api/internal/domains/rating/model"
	"biblioteca-api/internal/domains/rating/service"
	infracache "biblioteca-api/internal/infrastructure/cache"
	"biblioteca-api/internal/shared/middleware"
	"biblioteca-api/internal/shared/response"
	"biblioteca-api/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memoryRepo struct {
	books   map[int]bool
	ratings []*model.Rating
}

func (r *memoryRepo) Summary(_ context.Context, bookID int) (*model.Summary, error) {
	if !r.books[bookID] {
		return nil, model.ErrBookNotFound
	}
	return r.summarize(bookID), nil
}

func (r *memoryRepo) Find(_ context.Context, bookID int, userID uuid.UUID) (*model.Rating, error) {
	for _, rt := range r.ratings {
		if rt.BookID == bookID && rt.UserID == userID {
			return rt, nil
		}
	}
	return nil, model.ErrRatingNotFound
}

func (r *memoryRepo) Create(_ context.Context, rt *model.Rating) (*model.Summary, error) {
	rt.ID = len(r.ratings) + 1
	r.ratings = append(r.ratings, rt)
	return r.summarize(rt.BookID), nil
}

func (r *memoryRepo) UpdateScore(_ context.Context, id, bookID int, score decimal.Decimal) (*model.Summary, error) {
	for _, rt := range r.ratings {
		if rt.ID == id {
			rt.Score = score
		}
	}
	return r.summarize(bookID), nil
}

func (r *memoryRepo) Delete(_ context.Context, id, bookID int) (*model.Summary, error) {
	kept := r.ratings[:0]
	for _, rt := range r.ratings {
		if rt.ID != id {
			kept = append(kept, rt)
		}
	}
	r.ratings = kept
	return r.summarize(bookID), nil
}

func (r *memoryRepo) summarize(bookID int) *model.Summary {
	var scores []decimal.Decimal
	for _, rt := range r.ratings {
		if rt.BookID == bookID {
			scores = append(scores, rt.Score)
		}
	}
	s := model.Summarize(scores)
	return &s
}

var testJWT = jwt.NewManager("test-secret", time.Hour)

func bearer(t *testing.T) string {
	t.Helper()
	token, _, err := testJWT.GenerateToken(uuid.NewString(), "reader@example.com", nil)
	require.NoError(t, err)
	return "Bearer " + token
}

func setup() *gin.Engine {
	repo := &memoryRepo{books: map[int]bool{1: true}}
	store := infracache.NewMemoryOutputCache(infracache.DefaultMemoryConfig(time.Minute))
	h := NewRatingHandler(service.NewRatingService(repo, store))

	r := gin.New()
	r.Use(middleware.Authenticate(testJWT))
	g := r.Group("/api/ratings", middleware.RequireAuth())
	g.GET("/:bookId", h.Get)
	g.POST("", h.Create)
	g.PUT("", h.Update)
	g.DELETE("/:bookId", h.Delete)
	return r
}

func do(r *gin.Engine, method, path, body, auth string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	r.ServeHTTP(w, req)
	return w
}

func readRating(t *testing.T, r *gin.Engine, auth string) model.BookRatingResponse {
	t.Helper()
	w := do(r, http.MethodGet, "/api/ratings/1", "", auth)
	require.Equal(t, http.StatusOK, w.Code)
	var out model.BookRatingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRatings_Lifecycle(t *testing.T) {
	r := setup()
	alice, bob := bearer(t), bearer(t)

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/api/ratings?bookId=1", `{"score":3}`, alice).Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/api/ratings?bookId=1", `{"score":5}`, bob).Code)

	got := readRating(t, r, alice)
	assert.Equal(t, 4.0, got.AverageRating)
	assert.Equal(t, 2, got.TotalRatings)
	require.NotNil(t, got.UserRating)
	assert.Equal(t, 3.0, *got.UserRating)

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPut, "/api/ratings?bookId=1", `{"score":4}`, alice).Code)
	assert.Equal(t, 4.5, readRating(t, r, alice).AverageRating)

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/api/ratings/1", "", bob).Code)
	got = readRating(t, r, bob)
	assert.Equal(t, 4.0, got.AverageRating)
	assert.Equal(t, 1, got.TotalRatings)
	assert.Nil(t, got.UserRating)

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/api/ratings/1", "", alice).Code)
	got = readRating(t, r, alice)
	assert.Equal(t, 0.0, got.AverageRating)
	assert.Equal(t, 0, got.TotalRatings)
}

func TestRatings_Errors(t *testing.T) {
	r := setup()
	caller := bearer(t)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/api/ratings?bookId=1", `{"score":3}`, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/ratings/1", "", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/api/ratings?bookId=2", `{"score":3}`, caller).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPut, "/api/ratings?bookId=1", `{"score":3}`, caller).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/api/ratings/1", "", caller).Code)

	w := do(r, http.MethodPost, "/api/ratings?bookId=1", `{"score":7}`, caller)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var problem response.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Contains(t, problem.Errors, "score")

	require.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/api/ratings?bookId=1", `{"score":3}`, caller).Code)
	w = do(r, http.MethodPost, "/api/ratings?bookId=1", `{"score":4}`, caller)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Contains(t, problem.Errors, "bookId")
}
