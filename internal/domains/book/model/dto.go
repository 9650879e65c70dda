package model

import (
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const MaxTitleLength = 250

type BookResponse struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	AverageRating float64 `json:"averageRating"`
	TotalRatings  int     `json:"totalRatings"`
}

type AuthorSummary struct {
	ID       int     `json:"id"`
	FullName string  `json:"fullName"`
	Photo    *string `json:"photo"`
}

type BookWithAuthorsResponse struct {
	BookResponse
	Authors []AuthorSummary `json:"authors"`
}

func (b *Book) ToResponse() BookResponse {
	return BookResponse{
		ID:            b.ID,
		Title:         b.Title,
		AverageRating: b.AverageRating,
		TotalRatings:  b.TotalRatings,
	}
}

func (b *Book) ToWithAuthorsResponse() BookWithAuthorsResponse {
	authors := make([]AuthorSummary, 0, len(b.Authors))
	for _, a := range b.Authors {
		authors = append(authors, AuthorSummary{ID: a.AuthorID, FullName: a.FullName(), Photo: a.Photo})
	}
	return BookWithAuthorsResponse{
		BookResponse: b.ToResponse(),
		Authors:      authors,
	}
}

func ToResponses(books []Book) []BookResponse {
	out := make([]BookResponse, 0, len(books))
	for i := range books {
		out = append(out, books[i].ToResponse())
	}
	return out
}

// CreateBookRequest is the body of POST /books and PUT /books/:id
type CreateBookRequest struct {
	Title      string `json:"title"`
	AuthorsIds []int  `json:"authorsIds"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("The field title is required"),
			validation.RuneLength(0, MaxTitleLength).Error("The field title must have 250 characters or fewer"),
		),
	)
}

// UniqueAuthorIDs drops repeated ids, keeping the first position of each
func (r CreateBookRequest) UniqueAuthorIDs() []int {
	seen := make(map[int]struct{}, len(r.AuthorsIds))
	out := make([]int, 0, len(r.AuthorsIds))
	for _, id := range r.AuthorsIds {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
