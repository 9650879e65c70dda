package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"biblioteca-api/internal/domains/rating/model"
	"biblioteca-api/internal/domains/rating/service"
	"biblioteca-api/internal/shared/auth"
	"biblioteca-api/internal/shared/response"
)

type RatingHandler struct {
	service service.RatingService
}

func NewRatingHandler(svc service.RatingService) *RatingHandler {
	return &RatingHandler{service: svc}
}

// Get - GET /api/ratings/:bookId
func (h *RatingHandler) Get(c *gin.Context) {
	bookID, err := strconv.Atoi(c.Param("bookId"))
	if err != nil {
		response.NotFound(c, model.ErrBookNotFound.Error())
		return
	}

	rating, err := h.service.Get(c.Request.Context(), bookID, auth.FromContext(c.Request.Context()))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rating.ToResponse())
}

// Create - POST /api/ratings?bookId=
func (h *RatingHandler) Create(c *gin.Context) {
	bookID, req, ok := bindScore(c)
	if !ok {
		return
	}

	if err := h.service.Create(c.Request.Context(), bookID, auth.FromContext(c.Request.Context()), req); err != nil {
		handleError(c, err)
		return
	}
	response.NoContent(c)
}

// Update - PUT /api/ratings?bookId=
func (h *RatingHandler) Update(c *gin.Context) {
	bookID, req, ok := bindScore(c)
	if !ok {
		return
	}

	if err := h.service.Update(c.Request.Context(), bookID, auth.FromContext(c.Request.Context()), req); err != nil {
		handleError(c, err)
		return
	}
	response.NoContent(c)
}

// Delete - DELETE /api/ratings/:bookId
func (h *RatingHandler) Delete(c *gin.Context) {
	bookID, err := strconv.Atoi(c.Param("bookId"))
	if err != nil {
		response.NotFound(c, model.ErrRatingNotFound.Error())
		return
	}

	if err := h.service.Delete(c.Request.Context(), bookID, auth.FromContext(c.Request.Context())); err != nil {
		handleError(c, err)
		return
	}
	response.NoContent(c)
}

func bindScore(c *gin.Context) (int, model.RatingRequest, bool) {
	var req model.RatingRequest

	bookID, err := strconv.Atoi(c.Query("bookId"))
	if err != nil {
		response.BadRequest(c, "bookId", "The bookId query parameter must be an integer")
		return 0, req, false
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "score", "The score must be a number")
		return 0, req, false
	}
	return bookID, req, true
}

func handleError(c *gin.Context, err error) {
	switch {
	case response.Validation(c, err):
	case errors.Is(err, model.ErrUnauthorized):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, model.ErrBookNotFound), errors.Is(err, model.ErrRatingNotFound):
		response.NotFound(c, err.Error())
	default:
		response.Internal(c, err)
	}
}
