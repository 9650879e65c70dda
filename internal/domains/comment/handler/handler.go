package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"biblioteca-api/internal/domains/comment/model"
	"biblioteca-api/internal/domains/comment/service"
	"biblioteca-api/internal/shared/auth"
	"biblioteca-api/internal/shared/hateoas"
	"biblioteca-api/internal/shared/patch"
	"biblioteca-api/internal/shared/response"
)

// CommentHandler serves /api/books/:id/comments. The book id lives in
// the ":id" segment shared with the book routes.
type CommentHandler struct {
	service service.CommentService
}

func NewCommentHandler(svc service.CommentService) *CommentHandler {
	return &CommentHandler{service: svc}
}

// List - GET /api/books/:id/comments
func (h *CommentHandler) List(c *gin.Context) {
	bookID, ok := parseBookID(c)
	if !ok {
		return
	}

	comments, err := h.service.List(c.Request.Context(), bookID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, model.ToResponses(comments))
}

// Get - GET /api/books/:id/comments/:commentId
func (h *CommentHandler) Get(c *gin.Context) {
	bookID, commentID, ok := parseIDs(c)
	if !ok {
		return
	}

	comment, err := h.service.Get(c.Request.Context(), bookID, commentID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, comment.ToResponse())
}

// Create - POST /api/books/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	bookID, ok := parseBookID(c)
	if !ok {
		return
	}

	var req model.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "", "The request body is not valid JSON")
		return
	}

	user := auth.FromContext(c.Request.Context())
	comment, err := h.service.Create(c.Request.Context(), bookID, user, req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("%s/books/%d/comments/%s", hateoas.BaseURL(c), bookID, comment.ID))
	response.Success(c, http.StatusCreated, comment.ToResponse())
}

// Patch - PATCH /api/books/:id/comments/:commentId
func (h *CommentHandler) Patch(c *gin.Context) {
	bookID, commentID, ok := parseIDs(c)
	if !ok {
		return
	}

	document, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "patch", "The patch document could not be read")
		return
	}

	user := auth.FromContext(c.Request.Context())
	if err := h.service.Patch(c.Request.Context(), bookID, commentID, user, document); err != nil {
		handleError(c, err)
		return
	}
	response.NoContent(c)
}

// Delete - DELETE /api/books/:id/comments/:commentId
func (h *CommentHandler) Delete(c *gin.Context) {
	bookID, commentID, ok := parseIDs(c)
	if !ok {
		return
	}

	user := auth.FromContext(c.Request.Context())
	if err := h.service.Delete(c.Request.Context(), bookID, commentID, user); err != nil {
		handleError(c, err)
		return
	}
	response.NoContent(c)
}

func parseBookID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.NotFound(c, model.ErrBookNotFound.Error())
		return 0, false
	}
	return id, true
}

func parseIDs(c *gin.Context) (int, uuid.UUID, bool) {
	bookID, ok := parseBookID(c)
	if !ok {
		return 0, uuid.Nil, false
	}
	commentID, err := uuid.Parse(c.Param("commentId"))
	if err != nil {
		response.NotFound(c, model.ErrCommentNotFound.Error())
		return 0, uuid.Nil, false
	}
	return bookID, commentID, true
}

func handleError(c *gin.Context, err error) {
	switch {
	case response.Validation(c, err):
	case patch.IsClientError(err):
		response.BadRequest(c, "patch", err.Error())
	case errors.Is(err, model.ErrNotOwner):
		response.Forbidden(c, err.Error())
	case errors.Is(err, model.ErrBookNotFound), errors.Is(err, model.ErrCommentNotFound):
		response.NotFound(c, err.Error())
	default:
		response.Internal(c, err)
	}
}
