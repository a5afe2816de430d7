package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/itsyosefali/saas-package-management/internal/interfaces/http/handlers"
	"github.com/itsyosefali/saas-package-management/internal/interfaces/http/middleware"
)

// RequestRouteConfig holds dependencies for subscription request routes.
type RequestRouteConfig struct {
	RequestHandler *handlers.RequestHandler
	SiteHandler    *handlers.SiteHandler
	AuthMiddleware *middleware.AuthMiddleware
	Permission     *middleware.PermissionMiddleware
	RateLimiter    *middleware.RateLimiter
}

// SetupRequestRoutes configures subscription request routes. Submission
// is public (rate limited per IP); review and approval require an
// authenticated role with request permissions.
func SetupRequestRoutes(engine *gin.Engine, cfg *RequestRouteConfig) {
	engine.POST("/requests", cfg.RateLimiter.Limit(), cfg.RequestHandler.CreateRequest)

	requests := engine.Group("/requests")
	requests.Use(cfg.AuthMiddleware.RequireAuth())
	{
		requests.GET("", cfg.Permission.Require("request", "read"), cfg.RequestHandler.ListRequests)
		requests.PATCH("/:id/status", cfg.Permission.Require("request", "update"), cfg.RequestHandler.UpdateRequestStatus)
		requests.POST("/:id/approve", cfg.Permission.Require("request", "approve"), cfg.RequestHandler.ApproveRequest)

		// Re-triggers provisioning for an approved request whose site
		// creation was deferred for lack of capacity.
		requests.POST("/:id/site", cfg.Permission.Require("request", "approve"), cfg.SiteHandler.CreateSiteForRequest)
	}
}
