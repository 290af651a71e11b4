// Package router assembles the gin engine: middleware chain, CORS
// policy and route table.
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tmeduca/investigacion-portal/internal/api/http/handler"
	"github.com/tmeduca/investigacion-portal/internal/api/http/middleware"
	"github.com/tmeduca/investigacion-portal/internal/api/http/response"
	"github.com/tmeduca/investigacion-portal/internal/logger"
	"github.com/tmeduca/investigacion-portal/internal/service"
)

// Router wires services onto HTTP routes.
type Router struct {
	authService    *service.Auth
	userService    *service.Users
	requestService *service.Requests
	profileService *service.Profiles
	appName        string
	allowedOrigins []string
	logger         *logger.Logger
}

// New creates a new Router instance.
func New(
	authService *service.Auth,
	userService *service.Users,
	requestService *service.Requests,
	profileService *service.Profiles,
	appName string,
	allowedOrigins []string,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		userService:    userService,
		requestService: requestService,
		profileService: profileService,
		appName:        appName,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

// Register builds the gin engine with middleware and all routes.
func (r *Router) Register() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.NewLogging(r.logger).Handle())
	engine.Use(cors.New(r.corsConfig()))

	engine.HandleMethodNotAllowed = true
	engine.NoMethod(func(c *gin.Context) {
		response.Fail(c, http.StatusMethodNotAllowed, "method not allowed")
	})
	engine.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, "not found")
	})

	authenticate := middleware.NewAuthenticate(r.authService, r.logger)
	authHandler := handler.NewAuth(r.authService, r.logger)
	userHandler := handler.NewUsers(r.userService, r.logger)
	requestHandler := handler.NewRequests(r.requestService, r.logger)
	profileHandler := handler.NewProfiles(r.profileService, r.logger)

	api := engine.Group("/api")
	api.GET("/health", handler.Health(r.appName))
	api.GET("/profiles", profileHandler.List)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authenticate.RequireAuth(), authHandler.Logout)
	auth.GET("/verify", authenticate.RequireAuth(), authHandler.Verify)
	auth.POST("/refresh", authenticate.RequireAuth(), authHandler.Refresh)
	auth.POST("/change-password", authenticate.RequireAuth(), authHandler.ChangePassword)

	requests := api.Group("/account-requests")
	requests.POST("", requestHandler.Submit)
	requests.GET("", authenticate.RequireAuth(), authenticate.RequireAdmin(), requestHandler.List)
	requests.POST("/:id/approve", authenticate.RequireAuth(), authenticate.RequireAdmin(), requestHandler.Approve)
	requests.POST("/:id/reject", authenticate.RequireAuth(), authenticate.RequireAdmin(), requestHandler.Reject)

	users := api.Group("/users", authenticate.RequireAuth(), authenticate.RequireAdmin())
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.PUT("/:email", userHandler.Update)
	users.POST("/:email/reset-password", userHandler.ResetPassword)
	users.DELETE("/:email", userHandler.Delete)

	return engine
}

func (r *Router) corsConfig() cors.Config {
	allowed := make(map[string]bool, len(r.allowedOrigins))
	for _, origin := range r.allowedOrigins {
		if origin != "" {
			allowed[origin] = true
		}
	}

	return cors.Config{
		AllowOriginFunc:  func(origin string) bool { return allowed[origin] },
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}
