package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tmeduca/investigacion-portal/internal/logger"
)

// Logging logs each HTTP request with method, path, status and duration.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Handle times the request and logs its outcome.
func (l *Logging) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}

		if status >= 500 {
			l.logger.Error("HTTP request failed", fields...)
			return
		}
		l.logger.Info("HTTP request completed", fields...)
	}
}
