package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tmeduca/investigacion-portal/internal/api/http/response"
	"github.com/tmeduca/investigacion-portal/internal/logger"
	"github.com/tmeduca/investigacion-portal/internal/model"
)

// ProfileService lists published researcher profiles.
type ProfileService interface {
	List(ctx context.Context) ([]model.Profile, error)
}

// Profiles handles the public researcher directory endpoint.
type Profiles struct {
	service ProfileService
	logger  *logger.Logger
}

// NewProfiles creates a new Profiles handler.
func NewProfiles(service ProfileService, logger *logger.Logger) *Profiles {
	return &Profiles{service: service, logger: logger}
}

// List returns published profiles sorted by display name.
func (h *Profiles) List(c *gin.Context) {
	profiles, err := h.service.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, http.StatusOK, profiles)
}
