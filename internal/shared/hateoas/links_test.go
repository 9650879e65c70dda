package hateoas

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biblioteca-api/internal/shared/auth"
	"biblioteca-api/pkg/jwt"
)

type item struct {
	ID    int    `json:"id"`
	Links []Link `json:"links,omitempty"`
}

func descriptions(links []Link) []string {
	out := make([]string, 0, len(links))
	for _, l := range links {
		out = append(out, l.Description)
	}
	return out
}

func TestAuthorLinks(t *testing.T) {
	anon := AuthorLinks("http://h/api", 7, false)
	assert.Equal(t, []string{"self"}, descriptions(anon))
	assert.Equal(t, "http://h/api/authors/7", anon[0].Href)
	assert.Equal(t, http.MethodGet, anon[0].Method)

	admin := AuthorLinks("http://h/api", 7, true)
	assert.Equal(t, []string{"self", "author-update", "author-patch", "author-delete"}, descriptions(admin))
	assert.Equal(t, http.MethodDelete, admin[3].Method)
}

func TestAuthorListLinks(t *testing.T) {
	assert.Equal(t, []string{"self"}, descriptions(AuthorListLinks("b", false)))
	assert.Equal(t, []string{"self", "author-create", "author-create-with-photo"}, descriptions(AuthorListLinks("b", true)))
}

func TestRootLinks(t *testing.T) {
	assert.Len(t, RootLinks("b", false, false), 4)
	assert.Len(t, RootLinks("b", true, false), 6)
	assert.Len(t, RootLinks("b", true, true), 10)
}

func TestShouldApply(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newCtx := func(header string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/api/authors/1", nil)
		if header != "" {
			c.Request.Header.Set(Header, header)
		}
		return c
	}

	var nilItem *item
	tests := []struct {
		name   string
		header string
		status int
		body   interface{}
		want   bool
	}{
		{"opted in", "Y", 200, item{ID: 1}, true},
		{"lowercase y", "y", 200, item{ID: 1}, true},
		{"no header", "", 200, item{ID: 1}, false},
		{"header N", "N", 200, item{ID: 1}, false},
		{"not found", "Y", 404, item{ID: 1}, false},
		{"nil body", "Y", 200, nil, false},
		{"typed nil", "Y", 200, nilItem, false},
		{"created", "Y", 201, &item{ID: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldApply(newCtx(tt.header), tt.status, tt.body))
		})
	}
}

func TestRespond_AdminLinksOnlyForAdmins(t *testing.T) {
	gin.SetMode(gin.TestMode)

	run := func(p *auth.Principal) item {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		req := httptest.NewRequest(http.MethodGet, "/api/authors/3", nil)
		req.Header.Set(Header, "Y")
		if p != nil {
			req = req.WithContext(auth.WithPrincipal(req.Context(), p))
		}
		c.Request = req

		body := item{ID: 3}
		Respond(c, http.StatusOK, body, func(base string, isAdmin bool) interface{} {
			body.Links = AuthorLinks(base, body.ID, isAdmin)
			return body
		})

		var got item
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		return got
	}

	anon := run(nil)
	assert.Equal(t, []string{"self"}, descriptions(anon.Links))
	assert.Equal(t, "http://example.com/api/authors/3", anon.Links[0].Href)

	user := run(&auth.Principal{UserID: uuid.New(), Email: "u@x.io"})
	assert.Len(t, user.Links, 1)

	admin := run(&auth.Principal{UserID: uuid.New(), Email: "a@x.io", Claims: map[string]string{jwt.ClaimIsAdmin: "true"}})
	assert.Len(t, admin.Links, 4)
}
