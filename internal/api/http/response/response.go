// Package response renders the portal's JSON response envelope. Every
// endpoint, success or failure, answers with the same shape so browser
// clients can unwrap uniformly.
package response

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Envelope is the wire shape of every API response.
type Envelope struct {
	Success   bool   `json:"success"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Message   string `json:"message,omitempty"`
}

// OK writes a success envelope with the given payload.
func OK(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{
		Success:   true,
		Timestamp: time.Now().Format(time.RFC3339),
		Data:      data,
	})
}

// OKMessage writes a success envelope with a payload and a human
// readable message.
func OKMessage(c *gin.Context, status int, data any, message string) {
	c.JSON(status, Envelope{
		Success:   true,
		Timestamp: time.Now().Format(time.RFC3339),
		Data:      data,
		Message:   message,
	})
}

// Fail writes a failure envelope and aborts the request.
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{
		Success:   false,
		Timestamp: time.Now().Format(time.RFC3339),
		Error:     message,
	})
}
