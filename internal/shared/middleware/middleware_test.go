package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infracache "biblioteca-api/internal/infrastructure/cache"
	"biblioteca-api/internal/shared/auth"
	"biblioteca-api/internal/shared/hateoas"
	"biblioteca-api/internal/shared/pagination"
	"biblioteca-api/internal/shared/response"
	"biblioteca-api/pkg/cache"
	"biblioteca-api/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRecorder struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeRecorder) Record(_ context.Context, message, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
	return nil
}

func tokenFor(t *testing.T, m *jwt.Manager, admin bool) string {
	t.Helper()
	claims := map[string]string{}
	if admin {
		claims[jwt.ClaimIsAdmin] = "true"
	}
	token, _, err := m.GenerateToken("7f9c2c1e-4a53-4d3f-8c1a-2b7f5f1d9e10", "user@example.com", claims)
	require.NoError(t, err)
	return token
}

func TestRequireAdmin(t *testing.T) {
	m := jwt.NewManager("secret", time.Hour)

	r := gin.New()
	r.Use(Authenticate(m))
	r.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"user", "Bearer " + tokenFor(t, m, false), http.StatusForbidden},
		{"admin", "Bearer " + tokenFor(t, m, true), http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRequireAuth_SetsPrincipal(t *testing.T) {
	m := jwt.NewManager("secret", time.Hour)

	r := gin.New()
	r.Use(Authenticate(m))
	r.GET("/me", RequireAuth(), func(c *gin.Context) {
		p := auth.FromContext(c.Request.Context())
		c.String(http.StatusOK, p.Email)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, m, false))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user@example.com", w.Body.String())
}

func TestErrorHandler_RecordsAndHidesDetails(t *testing.T) {
	rec := &fakeRecorder{}

	r := gin.New()
	r.Use(ErrorHandler(rec))
	r.GET("/boom", func(c *gin.Context) {
		response.Internal(c, errors.New("db exploded"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body response.ServerError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body.Type)
	assert.Equal(t, "An unexpected error occurred", body.Message)
	assert.NotContains(t, w.Body.String(), "db exploded")
	assert.Equal(t, []string{"db exploded"}, rec.messages)
}

func TestRecovery_RecordsPanics(t *testing.T) {
	rec := &fakeRecorder{}

	r := gin.New()
	r.Use(Recovery(rec))
	r.GET("/panic", func(c *gin.Context) { panic("nil map") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, []string{"nil map"}, rec.messages)
}

func TestOutputCache_ServesAndEvicts(t *testing.T) {
	store := infracache.NewMemoryOutputCache(infracache.DefaultMemoryConfig(time.Minute))
	calls := 0

	r := gin.New()
	r.GET("/authors", OutputCache(store, time.Minute, cache.TagAuthors), func(c *gin.Context) {
		calls++
		pagination.SetTotalHeader(c, 3)
		c.JSON(http.StatusOK, gin.H{"calls": calls})
	})

	get := func(header map[string]string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/authors?page=1", nil)
		for k, v := range header {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	first := get(nil)
	second := get(nil)
	assert.Equal(t, 1, calls)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "3", second.Header().Get(pagination.TotalCountHeader))

	// HATEOAS opt-in is a different representation
	get(map[string]string{hateoas.Header: "Y"})
	assert.Equal(t, 2, calls)

	// Authenticated callers bypass the cache
	get(map[string]string{"Authorization": "Bearer x"})
	assert.Equal(t, 3, calls)

	require.NoError(t, store.EvictByTag(context.Background(), cache.TagAuthors))
	get(nil)
	assert.Equal(t, 4, calls)
}

func TestOutputCache_SkipsErrors(t *testing.T) {
	store := infracache.NewMemoryOutputCache(infracache.DefaultMemoryConfig(time.Minute))
	calls := 0

	r := gin.New()
	r.GET("/books/:id", OutputCache(store, time.Minute, cache.TagBooks), func(c *gin.Context) {
		calls++
		response.NotFound(c, "book not found")
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books/9", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	}
	assert.Equal(t, 2, calls)
}

func TestCORS_ExposesTotalCount(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"*"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://client.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), pagination.TotalCountHeader)
}
