package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"biblioteca-api/internal/domains/user/model"
	"biblioteca-api/internal/domains/user/service"
	"biblioteca-api/internal/shared/auth"
	"biblioteca-api/internal/shared/pagination"
	"biblioteca-api/internal/shared/response"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// ========================================
// PUBLIC
// ========================================

// Register - POST /api/users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req model.CredentialsRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// Login - POST /api/users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req model.CredentialsRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// ========================================
// AUTHENTICATED
// ========================================

// Me - GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.service.Me(c.Request.Context(), auth.FromContext(c.Request.Context()))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u.ToResponse())
}

// Update - PUT /api/users
func (h *UserHandler) Update(c *gin.Context) {
	var req model.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.Update(c.Request.Context(), auth.FromContext(c.Request.Context()), req); err != nil {
		handleError(c, err)
		return
	}
	response.NoContent(c)
}

// RenewToken - GET /api/users/renew-token
func (h *UserHandler) RenewToken(c *gin.Context) {
	resp, err := h.service.RenewToken(c.Request.Context(), auth.FromContext(c.Request.Context()))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// ========================================
// ADMIN
// ========================================

// List - GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, total, err := h.service.List(c.Request.Context(), pagination.FromQuery(c))
	if err != nil {
		response.Internal(c, err)
		return
	}

	pagination.SetTotalHeader(c, total)
	response.Success(c, http.StatusOK, model.ToResponses(users))
}

// MakeAdmin - POST /api/users/make-admin
func (h *UserHandler) MakeAdmin(c *gin.Context) {
	var req model.EditClaimRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.MakeAdmin(c.Request.Context(), req); err != nil {
		handleError(c, err)
		return
	}
	response.NoContent(c)
}

// RemoveAdmin - POST /api/users/remove-admin
func (h *UserHandler) RemoveAdmin(c *gin.Context) {
	var req model.EditClaimRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.RemoveAdmin(c.Request.Context(), req); err != nil {
		handleError(c, err)
		return
	}
	response.NoContent(c)
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.BadRequest(c, "", err.Error())
		return false
	}
	return true
}

func handleError(c *gin.Context, err error) {
	switch {
	case response.Validation(c, err):
	case errors.Is(err, model.ErrUserNotFound):
		response.NotFound(c, err.Error())
	default:
		response.Internal(c, err)
	}
}
