package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrBookNotFound    = errors.New("book not found")
	// ErrNotOwner is returned when a user edits or deletes someone else's comment
	ErrNotOwner = errors.New("only the author of a comment can change it")
)

// Comment is soft deleted: IsDeleted rows are never returned by reads
type Comment struct {
	ID        uuid.UUID
	Body      string
	PostedAt  time.Time
	BookID    int
	UserID    uuid.UUID
	UserEmail string
	IsDeleted bool
}

func (c *Comment) OwnedBy(userID uuid.UUID) bool {
	return c.UserID == userID
}

type CommentResponse struct {
	ID        uuid.UUID `json:"id"`
	Body      string    `json:"body"`
	PostedAt  time.Time `json:"postedAt"`
	UserID    uuid.UUID `json:"userId"`
	UserEmail string    `json:"userEmail"`
}

func (c *Comment) ToResponse() CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Body:      c.Body,
		PostedAt:  c.PostedAt,
		UserID:    c.UserID,
		UserEmail: c.UserEmail,
	}
}

func ToResponses(comments []Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, comments[i].ToResponse())
	}
	return out
}

type CreateCommentRequest struct {
	Body string `json:"body"`
}

func (r CreateCommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Body, validation.Required.Error("The field body is required")),
	)
}

// CommentPatch is the JSON projection a patch document is applied to
type CommentPatch struct {
	Body string `json:"body"`
}

func (p CommentPatch) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Body, validation.Required.Error("The field body is required")),
	)
}
