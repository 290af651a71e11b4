package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tmeduca/investigacion-portal/internal/api/http/middleware"
	"github.com/tmeduca/investigacion-portal/internal/api/http/response"
	"github.com/tmeduca/investigacion-portal/internal/logger"
	"github.com/tmeduca/investigacion-portal/internal/model"
	"github.com/tmeduca/investigacion-portal/internal/service"
)

// RequestService defines the account-request intake and processing
// operations.
type RequestService interface {
	Submit(ctx context.Context, in service.SubmitInput) (model.AccountRequest, error)
	List(ctx context.Context) ([]model.AccountRequest, error)
	Approve(ctx context.Context, id, adminEmail, comments string) (model.AccountRequest, error)
	Reject(ctx context.Context, id, adminEmail, comments string) (model.AccountRequest, error)
}

// Requests handles the HTTP endpoints for account requests.
type Requests struct {
	service RequestService
	logger  *logger.Logger
}

// NewRequests creates a new Requests handler.
func NewRequests(service RequestService, logger *logger.Logger) *Requests {
	return &Requests{service: service, logger: logger}
}

type submitRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	RUT       string `json:"rut" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Career    string `json:"career" binding:"required"`
	Role      string `json:"role" binding:"required"`
	Phone     string `json:"phone"`
	Comments  string `json:"comments"`
}

// Submit receives a public account request.
func (h *Requests) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "missing required fields")
		return
	}

	request, err := h.service.Submit(c.Request.Context(), service.SubmitInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RUT:       req.RUT,
		Email:     req.Email,
		Career:    req.Career,
		Role:      model.Role(req.Role),
		Phone:     req.Phone,
		Comments:  req.Comments,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	response.OKMessage(c, http.StatusCreated, request, "request received")
}

// List returns every account request, newest first.
func (h *Requests) List(c *gin.Context) {
	requests, err := h.service.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, http.StatusOK, requests)
}

type processRequest struct {
	Comments string `json:"comments"`
}

// bindProcessBody parses the optional approve/reject body. An absent
// body means no comments; a body that is present but unparseable is a
// client error.
func bindProcessBody(c *gin.Context) (processRequest, bool) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Fail(c, http.StatusBadRequest, "invalid request body")
		return processRequest{}, false
	}
	return req, true
}

// Approve creates the requested account and marks the request approved.
func (h *Requests) Approve(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "missing authorization token")
		return
	}

	req, ok := bindProcessBody(c)
	if !ok {
		return
	}

	request, err := h.service.Approve(c.Request.Context(), c.Param("id"), claims.Email, req.Comments)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OKMessage(c, http.StatusOK, request, "request approved")
}

// Reject marks the request rejected.
func (h *Requests) Reject(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "missing authorization token")
		return
	}

	req, ok := bindProcessBody(c)
	if !ok {
		return
	}

	request, err := h.service.Reject(c.Request.Context(), c.Param("id"), claims.Email, req.Comments)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OKMessage(c, http.StatusOK, request, "request rejected")
}
