package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tmeduca/investigacion-portal/internal/api/http/response"
)

// Health answers liveness probes.
func Health(appName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		response.OK(c, http.StatusOK, gin.H{"service": appName, "status": "ok"})
	}
}
