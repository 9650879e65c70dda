// Package hateoas builds the hypermedia links returned when the
// caller sends "IncludeHATEOAS: Y".
package hateoas

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"

	"biblioteca-api/internal/shared/auth"
)

// Header is the opt-in request header
const Header = "IncludeHATEOAS"

// Link is one {link, description, method} triple
type Link struct {
	Href        string `json:"link"`
	Description string `json:"description"`
	Method      string `json:"method"`
}

// ResourceList wraps a collection together with its own links
type ResourceList[T any] struct {
	Values []T    `json:"values"`
	Links  []Link `json:"links"`
}

// Requested reports whether the caller opted in
func Requested(c *gin.Context) bool {
	return strings.EqualFold(c.GetHeader(Header), "Y")
}

// ShouldApply is true only for opted-in, successful, non-null responses
func ShouldApply(c *gin.Context, status int, body interface{}) bool {
	if status < 200 || status > 299 {
		return false
	}
	if isNil(body) {
		return false
	}
	return Requested(c)
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Respond writes body, or the result of decorate when links apply.
// decorate receives the API base URL and the admin policy outcome.
func Respond(c *gin.Context, status int, body interface{}, decorate func(base string, isAdmin bool) interface{}) {
	if ShouldApply(c, status, body) {
		isAdmin := auth.FromContext(c.Request.Context()).IsAdmin()
		body = decorate(BaseURL(c), isAdmin)
	}
	c.JSON(status, body)
}

// BaseURL is scheme://host/api for the current request
func BaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return fmt.Sprintf("%s://%s/api", scheme, c.Request.Host)
}

// ========================================
// AUTHORS
// ========================================

// AuthorLinks are the per-item links of an author
func AuthorLinks(base string, id int, isAdmin bool) []Link {
	self := fmt.Sprintf("%s/authors/%d", base, id)
	links := []Link{{Href: self, Description: "self", Method: http.MethodGet}}
	if isAdmin {
		links = append(links,
			Link{Href: self, Description: "author-update", Method: http.MethodPut},
			Link{Href: self, Description: "author-patch", Method: http.MethodPatch},
			Link{Href: self, Description: "author-delete", Method: http.MethodDelete},
		)
	}
	return links
}

// AuthorListLinks are the top-level links of the authors collection
func AuthorListLinks(base string, isAdmin bool) []Link {
	links := []Link{{Href: base + "/authors", Description: "self", Method: http.MethodGet}}
	if isAdmin {
		links = append(links,
			Link{Href: base + "/authors", Description: "author-create", Method: http.MethodPost},
			Link{Href: base + "/authors/with-photo", Description: "author-create-with-photo", Method: http.MethodPost},
		)
	}
	return links
}

// ========================================
// ROOT
// ========================================

// RootLinks lists the entry points available to the caller
func RootLinks(base string, authenticated, isAdmin bool) []Link {
	links := []Link{
		{Href: base + "/root", Description: "self", Method: http.MethodGet},
		{Href: base + "/authors", Description: "authors-get", Method: http.MethodGet},
		{Href: base + "/users/register", Description: "user-register", Method: http.MethodPost},
		{Href: base + "/users/login", Description: "user-login", Method: http.MethodPost},
	}

	if authenticated {
		links = append(links,
			Link{Href: base + "/users", Description: "user-update", Method: http.MethodPut},
			Link{Href: base + "/users/renew-token", Description: "token-renew", Method: http.MethodGet},
		)
	}

	if isAdmin {
		links = append(links,
			Link{Href: base + "/authors", Description: "author-create", Method: http.MethodPost},
			Link{Href: base + "/authors-collection", Description: "authors-create", Method: http.MethodPost},
			Link{Href: base + "/books", Description: "book-create", Method: http.MethodPost},
			Link{Href: base + "/users", Description: "users-get", Method: http.MethodGet},
		)
	}
	return links
}
