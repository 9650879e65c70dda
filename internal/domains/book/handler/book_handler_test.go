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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biblioteca-api/internal/domains/book/model"
	"biblioteca-api/internal/domains/book/service"
	infracache "biblioteca-api/internal/infrastructure/cache"
	"biblioteca-api/internal/shared/pagination"
	"biblioteca-api/internal/shared/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memoryRepo keeps books in a map and knows a fixed set of authors
type memoryRepo struct {
	books   map[int]*model.Book
	authors map[int]model.BookAuthor
}

func (r *memoryRepo) List(context.Context, pagination.Params) ([]model.Book, int64, error) {
	out := []model.Book{}
	for _, b := range r.books {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (r *memoryRepo) GetByID(_ context.Context, id int) (*model.Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	cp := *b
	cp.Authors = nil
	for _, link := range b.Authors {
		a := r.authors[link.AuthorID]
		a.Order = link.Order
		cp.Authors = append(cp.Authors, a)
	}
	return &cp, nil
}

func (r *memoryRepo) Exists(_ context.Context, id int) (bool, error) {
	_, ok := r.books[id]
	return ok, nil
}

func (r *memoryRepo) ExistingAuthorIDs(_ context.Context, ids []int) ([]int, error) {
	out := []int{}
	for _, id := range ids {
		if _, ok := r.authors[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *memoryRepo) Create(_ context.Context, b *model.Book) error {
	b.ID = len(r.books) + 1
	cp := *b
	r.books[b.ID] = &cp
	return nil
}

func (r *memoryRepo) Update(_ context.Context, b *model.Book) error {
	cp := *b
	r.books[b.ID] = &cp
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.books[id]; !ok {
		return model.ErrBookNotFound
	}
	delete(r.books, id)
	return nil
}

func newRouter() (*gin.Engine, *memoryRepo) {
	repo := &memoryRepo{
		books: map[int]*model.Book{},
		authors: map[int]model.BookAuthor{
			1: {AuthorID: 1, FirstName: "Ana", LastName: "Pérez"},
			2: {AuthorID: 2, FirstName: "Luis", LastName: "Gómez"},
		},
	}
	store := infracache.NewMemoryOutputCache(infracache.DefaultMemoryConfig(time.Minute))
	h := NewHandler(service.NewService(repo, store))

	r := gin.New()
	r.GET("/api/books/:id", h.GetByID)
	r.POST("/api/books", h.Create)
	r.PUT("/api/books/:id", h.Update)
	r.DELETE("/api/books/:id", h.Delete)
	return r, repo
}

func postBook(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCreateBook_WithoutAuthors(t *testing.T) {
	r, _ := newRouter()

	w := postBook(r, `{"title":"T","authorsIds":[]}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var problem response.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, "validation", problem.Type)
	assert.Equal(t, []string{"A book cannot be created without authors"}, problem.Errors["authorsIds"])
}

func TestCreateBook_UnknownAuthor(t *testing.T) {
	r, _ := newRouter()

	w := postBook(r, `{"title":"T","authorsIds":[1,7]}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var problem response.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, []string{"The following authors do not exist: 7"}, problem.Errors["authorsIds"])
}

func TestCreateBook_Created(t *testing.T) {
	r, repo := newRouter()

	w := postBook(r, `{"title":"T","authorsIds":[1]}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":1,"title":"T","averageRating":0,"totalRatings":0}`, w.Body.String())
	assert.Equal(t, "http://example.com/api/books/1", w.Header().Get("Location"))
	require.Len(t, repo.books[1].Authors, 1)
	assert.Equal(t, 0, repo.books[1].Authors[0].Order)
}

func TestUpdateBook_ReordersAuthors(t *testing.T) {
	r, _ := newRouter()
	require.Equal(t, http.StatusCreated, postBook(r, `{"title":"T","authorsIds":[1,2]}`).Code)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/books/1", strings.NewReader(`{"title":"T","authorsIds":[2,1]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books/1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body model.BookWithAuthorsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Authors, 2)
	assert.Equal(t, "Luis Gómez", body.Authors[0].FullName)
	assert.Equal(t, "Ana Pérez", body.Authors[1].FullName)
}

func TestDeleteBook_NotFound(t *testing.T) {
	r, _ := newRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/books/5", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
