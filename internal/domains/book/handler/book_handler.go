package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"biblioteca-api/internal/domains/book/model"
	"biblioteca-api/internal/domains/book/service"
	"biblioteca-api/internal/shared/hateoas"
	"biblioteca-api/internal/shared/pagination"
	"biblioteca-api/internal/shared/response"
)

type Handler struct {
	service service.ServiceInterface
}

func NewHandler(svc service.ServiceInterface) *Handler {
	return &Handler{service: svc}
}

// List - GET /api/books
func (h *Handler) List(c *gin.Context) {
	books, total, err := h.service.List(c.Request.Context(), pagination.FromQuery(c))
	if err != nil {
		response.Internal(c, err)
		return
	}

	pagination.SetTotalHeader(c, total)
	response.Success(c, http.StatusOK, model.ToResponses(books))
}

// GetByID - GET /api/books/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b.ToWithAuthorsResponse())
}

// Create - POST /api/books
func (h *Handler) Create(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "", "The submitted model is not valid")
		return
	}

	b, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("%s/books/%d", hateoas.BaseURL(c), b.ID))
	response.Success(c, http.StatusCreated, b.ToResponse())
}

// Update - PUT /api/books/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "", "The submitted model is not valid")
		return
	}

	if err := h.service.Update(c.Request.Context(), id, req); err != nil {
		handleError(c, err)
		return
	}
	response.NoContent(c)
}

// Delete - DELETE /api/books/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	response.NoContent(c)
}

func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.NotFound(c, model.ErrBookNotFound.Error())
		return 0, false
	}
	return id, true
}

func handleError(c *gin.Context, err error) {
	switch {
	case response.Validation(c, err):
	case errors.Is(err, model.ErrBookNotFound):
		response.NotFound(c, err.Error())
	default:
		response.Internal(c, err)
	}
}
