package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tmeduca/investigacion-portal/internal/api/http/response"
	"github.com/tmeduca/investigacion-portal/internal/model"
)

// handleError maps service errors onto HTTP statuses and writes the
// failure envelope. Internal errors never leak their message.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		response.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrUnauthorized):
		response.Fail(c, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, model.ErrNotFound):
		response.Fail(c, http.StatusNotFound, "not found")
	case errors.Is(err, model.ErrAlreadyExists):
		response.Fail(c, http.StatusConflict, err.Error())
	default:
		response.Fail(c, http.StatusInternalServerError, "internal server error")
	}
}
