package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tmeduca/investigacion-portal/internal/api/http/response"
	"github.com/tmeduca/investigacion-portal/internal/logger"
	"github.com/tmeduca/investigacion-portal/internal/model"
	"github.com/tmeduca/investigacion-portal/internal/service"
)

// Context keys set by the authenticate middleware and read by handlers.
const (
	KeyToken  = "token"
	KeyClaims = "claims"
	KeyUser   = "user"
)

// AuthService verifies bearer tokens for the middleware.
type AuthService interface {
	Verify(ctx context.Context, token string) (service.VerifyResult, error)
}

// Authenticate gates routes behind a valid bearer token.
type Authenticate struct {
	auth   AuthService
	logger *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(auth AuthService, logger *logger.Logger) *Authenticate {
	return &Authenticate{auth: auth, logger: logger}
}

// RequireAuth extracts the Authorization bearer token, verifies it and
// stores the raw token, claims and user on the request context.
func (m *Authenticate) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			response.Fail(c, http.StatusUnauthorized, "missing authorization token")
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		result, err := m.auth.Verify(c.Request.Context(), token)
		if err != nil {
			m.logger.Debug("HTTP middleware: token rejected", "path", c.FullPath())
			response.Fail(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		c.Set(KeyToken, token)
		c.Set(KeyClaims, result.Claims)
		c.Set(KeyUser, result.User)
		c.Next()
	}
}

// RequireAdmin rejects authenticated requests whose token does not carry
// the admin role. It must run after RequireAuth.
func (m *Authenticate) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok || claims.Role != model.RoleAdmin {
			response.Fail(c, http.StatusForbidden, "admin role required")
			return
		}
		c.Next()
	}
}

// TokenFrom returns the raw bearer token stored by RequireAuth.
func TokenFrom(c *gin.Context) (string, bool) {
	token, ok := c.Get(KeyToken)
	if !ok {
		return "", false
	}
	s, ok := token.(string)
	return s, ok
}

// ClaimsFrom returns the verified claims stored by RequireAuth.
func ClaimsFrom(c *gin.Context) (model.Claims, bool) {
	v, ok := c.Get(KeyClaims)
	if !ok {
		return model.Claims{}, false
	}
	claims, ok := v.(model.Claims)
	return claims, ok
}

// UserFrom returns the authenticated user stored by RequireAuth.
func UserFrom(c *gin.Context) (model.User, bool) {
	v, ok := c.Get(KeyUser)
	if !ok {
		return model.User{}, false
	}
	user, ok := v.(model.User)
	return user, ok
}
