package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tmeduca/investigacion-portal/internal/api/http/response"
	"github.com/tmeduca/investigacion-portal/internal/logger"
	"github.com/tmeduca/investigacion-portal/internal/model"
)

// UserService defines the administrative user management operations.
type UserService interface {
	List(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, email string, role model.Role) (model.User, error)
	Update(ctx context.Context, email string, update model.UserUpdate) (model.User, error)
	ResetPassword(ctx context.Context, email string) error
	Delete(ctx context.Context, email string) error
}

// Users handles the HTTP endpoints for user administration.
type Users struct {
	service UserService
	logger  *logger.Logger
}

// NewUsers creates a new Users handler.
func NewUsers(service UserService, logger *logger.Logger) *Users {
	return &Users{service: service, logger: logger}
}

// List returns all users without password hashes.
func (h *Users) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, http.StatusOK, users)
}

type createUserRequest struct {
	Email string `json:"email" binding:"required"`
	Role  string `json:"role" binding:"required"`
}

// Create provisions a user with the default password.
func (h *Users) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "email and role are required")
		return
	}

	user, err := h.service.Create(c.Request.Context(), req.Email, model.Role(req.Role))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OKMessage(c, http.StatusCreated, user, "user created")
}

type updateUserRequest struct {
	FirstLogin       *bool `json:"firstLogin"`
	ProfileCompleted *bool `json:"profileCompleted"`
}

// Update applies a whitelisted partial update to a user record. Fields
// absent from the body are left unchanged.
func (h *Users) Update(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.service.Update(c.Request.Context(), c.Param("email"), model.UserUpdate{
		FirstLogin:       req.FirstLogin,
		ProfileCompleted: req.ProfileCompleted,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	response.OKMessage(c, http.StatusOK, user, "user updated")
}

// ResetPassword puts the user back on the default password.
func (h *Users) ResetPassword(c *gin.Context) {
	if err := h.service.ResetPassword(c.Request.Context(), c.Param("email")); err != nil {
		handleError(c, err)
		return
	}

	response.OKMessage(c, http.StatusOK, nil, "password reset")
}

// Delete removes a user record.
func (h *Users) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("email")); err != nil {
		handleError(c, err)
		return
	}

	response.OKMessage(c, http.StatusOK, nil, "user deleted")
}
