package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tmeduca/investigacion-portal/internal/api/http/middleware"
	"github.com/tmeduca/investigacion-portal/internal/api/http/response"
	"github.com/tmeduca/investigacion-portal/internal/logger"
	"github.com/tmeduca/investigacion-portal/internal/model"
	"github.com/tmeduca/investigacion-portal/internal/service"
)

// AuthService defines the token lifecycle operations behind the auth
// endpoints.
type AuthService interface {
	Login(ctx context.Context, email, password string) (service.LoginResult, error)
	Logout(ctx context.Context, token string) error
	Refresh(ctx context.Context, token string) (string, error)
	ChangePassword(ctx context.Context, token, currentPassword, newPassword string) error
}

// Auth handles the HTTP endpoints for authentication.
type Auth struct {
	service AuthService
	logger  *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(service AuthService, logger *logger.Logger) *Auth {
	return &Auth{service: service, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Login authenticates credentials and returns a fresh token.
func (h *Auth) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "email and password are required")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, http.StatusOK, loginResponse{Token: result.Token, User: result.User})
}

// Logout revokes the presented token.
func (h *Auth) Logout(c *gin.Context) {
	token, ok := middleware.TokenFrom(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "missing authorization token")
		return
	}

	if err := h.service.Logout(c.Request.Context(), token); err != nil {
		handleError(c, err)
		return
	}

	response.OKMessage(c, http.StatusOK, nil, "session closed")
}

type verifyResponse struct {
	Claims model.Claims `json:"claims"`
	User   model.User   `json:"user"`
}

// Verify echoes the claims and user behind an accepted token. The
// middleware already did the verification.
func (h *Auth) Verify(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "missing authorization token")
		return
	}
	user, _ := middleware.UserFrom(c)

	response.OK(c, http.StatusOK, verifyResponse{Claims: claims, User: user})
}

type refreshResponse struct {
	Token string `json:"token"`
}

// Refresh exchanges a valid token for a fresh one and revokes the old.
func (h *Auth) Refresh(c *gin.Context) {
	token, ok := middleware.TokenFrom(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "missing authorization token")
		return
	}

	newToken, err := h.service.Refresh(c.Request.Context(), token)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, http.StatusOK, refreshResponse{Token: newToken})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// ChangePassword replaces the caller's password.
func (h *Auth) ChangePassword(c *gin.Context) {
	token, ok := middleware.TokenFrom(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "missing authorization token")
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "currentPassword and newPassword are required")
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), token, req.CurrentPassword, req.NewPassword); err != nil {
		handleError(c, err)
		return
	}

	response.OKMessage(c, http.StatusOK, nil, "password updated")
}
