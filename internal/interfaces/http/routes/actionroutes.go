package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/itsyosefali/saas-package-management/internal/interfaces/http/handlers"
	"github.com/itsyosefali/saas-package-management/internal/interfaces/http/middleware"
)

// ActionRouteConfig holds dependencies for remote action routes.
type ActionRouteConfig struct {
	ActionHandler  *handlers.ActionHandler
	AuthMiddleware *middleware.AuthMiddleware
	Permission     *middleware.PermissionMiddleware
}

// SetupActionRoutes configures action history routes. Submission lives
// under /instances/:id/actions.
func SetupActionRoutes(engine *gin.Engine, cfg *ActionRouteConfig) {
	actions := engine.Group("/actions")
	actions.Use(cfg.AuthMiddleware.RequireAuth())
	{
		actions.GET("", cfg.Permission.Require("action", "read"), cfg.ActionHandler.ListActions)
		actions.GET("/:actionId", cfg.Permission.Require("action", "read"), cfg.ActionHandler.GetAction)
	}
}
