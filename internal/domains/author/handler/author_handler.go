package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"biblioteca-api/internal/domains/author/model"
	"biblioteca-api/internal/domains/author/service"
	"biblioteca-api/internal/infrastructure/storage"
	"biblioteca-api/internal/shared/hateoas"
	"biblioteca-api/internal/shared/pagination"
	"biblioteca-api/internal/shared/patch"
	"biblioteca-api/internal/shared/response"
)

type AuthorHandler struct {
	service service.ServiceInterface
}

func NewAuthorHandler(svc service.ServiceInterface) *AuthorHandler {
	return &AuthorHandler{service: svc}
}

// ════════════════════════════════════════════════════════════════
// READ
// ════════════════════════════════════════════════════════════════

// List - GET /api/authors?page=&recordsPerPage=
func (h *AuthorHandler) List(c *gin.Context) {
	authors, total, err := h.service.List(c.Request.Context(), pagination.FromQuery(c))
	if err != nil {
		response.Internal(c, err)
		return
	}

	pagination.SetTotalHeader(c, total)

	body := model.ToResponses(authors)
	hateoas.Respond(c, http.StatusOK, body, func(base string, isAdmin bool) interface{} {
		for i := range body {
			body[i].Links = hateoas.AuthorLinks(base, body[i].ID, isAdmin)
		}
		return hateoas.ResourceList[model.AuthorResponse]{
			Values: body,
			Links:  hateoas.AuthorListLinks(base, isAdmin),
		}
	})
}

// GetByID - GET /api/authors/:id
func (h *AuthorHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	a, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	body := a.ToWithBooksResponse()
	hateoas.Respond(c, http.StatusOK, &body, func(base string, isAdmin bool) interface{} {
		body.Links = hateoas.AuthorLinks(base, body.ID, isAdmin)
		return &body
	})
}

// Filter - GET /api/authors/filter
func (h *AuthorHandler) Filter(c *gin.Context) {
	var filter model.AuthorFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "", err.Error())
		return
	}

	authors, err := h.service.Filter(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err)
		return
	}

	if filter.IncludeBooks {
		response.Success(c, http.StatusOK, model.ToWithBooksResponses(authors))
		return
	}
	response.Success(c, http.StatusOK, model.ToResponses(authors))
}

// GetCollection - GET /api/authors-collection/:ids
func (h *AuthorHandler) GetCollection(c *gin.Context) {
	authors, err := h.service.GetByIDs(c.Request.Context(), c.Param("ids"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, model.ToWithBooksResponses(authors))
}

// ════════════════════════════════════════════════════════════════
// WRITE
// ════════════════════════════════════════════════════════════════

// Create - POST /api/authors
func (h *AuthorHandler) Create(c *gin.Context) {
	var req model.CreateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "", "The request body is not valid JSON")
		return
	}

	a, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}

	h.created(c, a)
}

// CreateWithPhoto - POST /api/authors/with-photo (multipart/form-data)
func (h *AuthorHandler) CreateWithPhoto(c *gin.Context) {
	var req model.CreateAuthorRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "", err.Error())
		return
	}

	photo, err := readPhoto(c)
	if err != nil {
		response.BadRequest(c, "photo", err.Error())
		return
	}

	a, err := h.service.CreateWithPhoto(c.Request.Context(), req, photo)
	if err != nil {
		handleError(c, err)
		return
	}

	h.created(c, a)
}

// CreateCollection - POST /api/authors-collection
func (h *AuthorHandler) CreateCollection(c *gin.Context) {
	var reqs []model.CreateAuthorRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		response.BadRequest(c, "", "The request body is not valid JSON")
		return
	}

	authors, err := h.service.CreateMany(c.Request.Context(), reqs)
	if err != nil {
		handleError(c, err)
		return
	}

	ids := make([]string, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, strconv.Itoa(a.ID))
	}
	c.Header("Location", fmt.Sprintf("%s/authors-collection/%s", hateoas.BaseURL(c), strings.Join(ids, ",")))
	response.Success(c, http.StatusCreated, model.ToResponses(authors))
}

// Update - PUT /api/authors/:id (multipart/form-data)
func (h *AuthorHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.CreateAuthorRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "", err.Error())
		return
	}

	photo, err := readPhoto(c)
	if err != nil {
		response.BadRequest(c, "photo", err.Error())
		return
	}

	if err := h.service.Update(c.Request.Context(), id, req, photo); err != nil {
		handleError(c, err)
		return
	}
	response.NoContent(c)
}

// Patch - PATCH /api/authors/:id (JSON patch)
func (h *AuthorHandler) Patch(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	document, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "patch", "The patch document could not be read")
		return
	}

	if err := h.service.Patch(c.Request.Context(), id, document); err != nil {
		handleError(c, err)
		return
	}
	response.NoContent(c)
}

// Delete - DELETE /api/authors/:id
func (h *AuthorHandler) Delete(c *gin.Context) {
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

// ════════════════════════════════════════════════════════════════
// HELPERS
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) created(c *gin.Context, a *model.Author) {
	c.Header("Location", fmt.Sprintf("%s/authors/%d", hateoas.BaseURL(c), a.ID))
	response.Success(c, http.StatusCreated, a.ToResponse())
}

// parseID answers 404 for non-numeric ids, as an unmatched route would
func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.NotFound(c, model.ErrAuthorNotFound.Error())
		return 0, false
	}
	return id, true
}

// readPhoto returns nil when the form carries no "photo" part
func readPhoto(c *gin.Context) (*storage.File, error) {
	header, err := c.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return &storage.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func handleError(c *gin.Context, err error) {
	switch {
	case response.Validation(c, err):
	case patch.IsClientError(err):
		response.BadRequest(c, "patch", err.Error())
	case errors.Is(err, model.ErrAuthorNotFound), errors.Is(err, model.ErrAuthorsMissing):
		response.NotFound(c, err.Error())
	default:
		response.Internal(c, err)
	}
}
