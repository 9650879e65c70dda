package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"biblioteca-api/internal/shared/hateoas"
	"biblioteca-api/internal/shared/rules"
)

const (
	MaxNameLength           = 150
	MaxIdentificationLength = 20
	MaxBookTitleLength      = 250
)

// ========================================
// RESPONSES
// ========================================

type AuthorResponse struct {
	ID       int            `json:"id"`
	FullName string         `json:"fullName"`
	Photo    *string        `json:"photo"`
	Links    []hateoas.Link `json:"links,omitempty"`
}

type BookSummary struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

type AuthorWithBooksResponse struct {
	AuthorResponse
	Books []BookSummary `json:"books"`
}

func (a *Author) ToResponse() AuthorResponse {
	return AuthorResponse{
		ID:       a.ID,
		FullName: a.FullName(),
		Photo:    a.Photo,
	}
}

func (a *Author) ToWithBooksResponse() AuthorWithBooksResponse {
	books := make([]BookSummary, 0, len(a.Books))
	for _, b := range a.Books {
		books = append(books, BookSummary{ID: b.BookID, Title: b.Title})
	}
	return AuthorWithBooksResponse{
		AuthorResponse: a.ToResponse(),
		Books:          books,
	}
}

func ToResponses(authors []Author) []AuthorResponse {
	out := make([]AuthorResponse, 0, len(authors))
	for i := range authors {
		out = append(out, authors[i].ToResponse())
	}
	return out
}

func ToWithBooksResponses(authors []Author) []AuthorWithBooksResponse {
	out := make([]AuthorWithBooksResponse, 0, len(authors))
	for i := range authors {
		out = append(out, authors[i].ToWithBooksResponse())
	}
	return out
}

// ========================================
// REQUESTS
// ========================================

// CreateAuthorRequest is used by POST /authors (JSON), the multipart
// endpoints (form) and POST /authors-collection
type CreateAuthorRequest struct {
	FirstName      string             `json:"firstName" form:"firstName"`
	LastName       string             `json:"lastName" form:"lastName"`
	Identification *string            `json:"identification" form:"identification"`
	Books          []CreateAuthorBook `json:"books" form:"-"`
}

// CreateAuthorBook is a book created together with its author
type CreateAuthorBook struct {
	Title string `json:"title"`
}

func (r CreateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		nameField(&r.FirstName, "firstName"),
		nameField(&r.LastName, "lastName"),
		validation.Field(&r.Identification,
			validation.RuneLength(0, MaxIdentificationLength).Error("The field identification must have 20 characters or fewer"),
		),
		validation.Field(&r.Books),
	)
}

func (b CreateAuthorBook) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Title,
			validation.Required.Error("The field title is required"),
			validation.RuneLength(0, MaxBookTitleLength).Error("The field title must have 250 characters or fewer"),
		),
	)
}

// ToAuthor maps the request onto a new entity. Nested books keep their
// array position as order.
func (r CreateAuthorRequest) ToAuthor() *Author {
	a := &Author{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Identification: emptyToNil(r.Identification),
	}
	for i, b := range r.Books {
		a.Books = append(a.Books, AuthorBook{Title: b.Title, Order: i})
	}
	return a
}

// AuthorPatch is the JSON projection a patch document is applied to
type AuthorPatch struct {
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Identification *string `json:"identification"`
}

func NewAuthorPatch(a *Author) AuthorPatch {
	return AuthorPatch{
		FirstName:      a.FirstName,
		LastName:       a.LastName,
		Identification: a.Identification,
	}
}

func (p AuthorPatch) Validate() error {
	return validation.ValidateStruct(&p,
		nameField(&p.FirstName, "firstName"),
		nameField(&p.LastName, "lastName"),
		validation.Field(&p.Identification,
			validation.RuneLength(0, MaxIdentificationLength).Error("The field identification must have 20 characters or fewer"),
		),
	)
}

// ApplyTo merges the patched projection back onto the entity
func (p AuthorPatch) ApplyTo(a *Author) {
	a.FirstName = p.FirstName
	a.LastName = p.LastName
	a.Identification = emptyToNil(p.Identification)
}

func nameField(value *string, name string) *validation.FieldRules {
	return validation.Field(value,
		validation.Required.Error("The field "+name+" is required"),
		validation.RuneLength(0, MaxNameLength).Error("The field "+name+" must have 150 characters or fewer"),
		rules.FirstLetterUppercase,
	)
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
