package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/itsyosefali/saas-package-management/internal/interfaces/http/handlers"
	"github.com/itsyosefali/saas-package-management/internal/interfaces/http/middleware"
)

// SiteRouteConfig holds dependencies for site routes.
type SiteRouteConfig struct {
	SiteHandler    *handlers.SiteHandler
	AuthMiddleware *middleware.AuthMiddleware
	Permission     *middleware.PermissionMiddleware
}

// SetupSiteRoutes configures site inspection and maintenance routes.
func SetupSiteRoutes(engine *gin.Engine, cfg *SiteRouteConfig) {
	sites := engine.Group("/sites")
	sites.Use(cfg.AuthMiddleware.RequireAuth())
	{
		sites.GET("", cfg.Permission.Require("site", "read"), cfg.SiteHandler.ListSites)
		sites.GET("/:id", cfg.Permission.Require("site", "read"), cfg.SiteHandler.GetSite)
		sites.POST("/:id/maintenance", cfg.Permission.Require("site", "update"), cfg.SiteHandler.ToggleMaintenance)
	}
}
