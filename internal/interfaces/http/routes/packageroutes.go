package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/itsyosefali/saas-package-management/internal/interfaces/http/handlers"
	"github.com/itsyosefali/saas-package-management/internal/interfaces/http/middleware"
)

// PackageRouteConfig holds dependencies for package catalog routes.
type PackageRouteConfig struct {
	PackageHandler *handlers.PackageHandler
	AuthMiddleware *middleware.AuthMiddleware
	Permission     *middleware.PermissionMiddleware
}

// SetupPackageRoutes configures the package catalog routes. Listing is
// public so prospective customers can browse the catalog; management
// requires an authenticated role with package permissions.
func SetupPackageRoutes(engine *gin.Engine, cfg *PackageRouteConfig) {
	engine.GET("/packages", cfg.PackageHandler.ListPackages)

	packages := engine.Group("/packages")
	packages.Use(cfg.AuthMiddleware.RequireAuth())
	{
		packages.POST("", cfg.Permission.Require("package", "create"), cfg.PackageHandler.CreatePackage)
		packages.PATCH("/:id", cfg.Permission.Require("package", "update"), cfg.PackageHandler.UpdatePackage)
	}
}
