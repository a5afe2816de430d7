package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/itsyosefali/saas-package-management/internal/interfaces/http/handlers"
	"github.com/itsyosefali/saas-package-management/internal/interfaces/http/middleware"
)

// InstanceRouteConfig holds dependencies for fleet instance routes.
type InstanceRouteConfig struct {
	InstanceHandler *handlers.InstanceHandler
	ActionHandler   *handlers.ActionHandler
	AuthMiddleware  *middleware.AuthMiddleware
	Permission      *middleware.PermissionMiddleware
}

// SetupInstanceRoutes configures fleet instance management routes.
func SetupInstanceRoutes(engine *gin.Engine, cfg *InstanceRouteConfig) {
	instances := engine.Group("/instances")
	instances.Use(cfg.AuthMiddleware.RequireAuth())
	{
		instances.POST("", cfg.Permission.Require("instance", "create"), cfg.InstanceHandler.CreateInstance)
		instances.GET("", cfg.Permission.Require("instance", "read"), cfg.InstanceHandler.ListInstances)
		instances.GET("/:id", cfg.Permission.Require("instance", "read"), cfg.InstanceHandler.GetInstance)
		instances.DELETE("/:id", cfg.Permission.Require("instance", "update"), cfg.InstanceHandler.DeactivateInstance)
		instances.POST("/:id/test-connection", cfg.Permission.Require("instance", "execute"), cfg.InstanceHandler.TestConnection)
		instances.GET("/:id/health", cfg.Permission.Require("instance", "read"), cfg.InstanceHandler.GetHealth)
		instances.POST("/:id/actions", cfg.Permission.Require("action", "create"), cfg.ActionHandler.SubmitAction)
	}

	groups := engine.Group("/instance-groups")
	groups.Use(cfg.AuthMiddleware.RequireAuth())
	{
		groups.POST("", cfg.Permission.Require("instance", "create"), cfg.InstanceHandler.CreateGroup)
		groups.GET("", cfg.Permission.Require("instance", "read"), cfg.InstanceHandler.ListGroups)
	}
}
