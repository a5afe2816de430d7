package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/itsyosefali/saas-package-management/internal/interfaces/http/middleware"
	"github.com/itsyosefali/saas-package-management/internal/interfaces/http/routes"
)

// requestRateWindow bounds public request submission per client IP.
const requestRateWindow = time.Minute

// SetupRoutes configures the middleware chain and registers all route
// groups on the engine.
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.Recovery())
	c.engine.Use(middleware.Logger(c.log))
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	c.engine.Use(middleware.SecurityHeaders())

	c.engine.GET("/health", func(ctx *gin.Context) {
		sqlDB, err := c.db.DB()
		if err != nil || sqlDB.PingContext(ctx.Request.Context()) != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.SetupPackageRoutes(c.engine, &routes.PackageRouteConfig{
		PackageHandler: c.packageHandler,
		AuthMiddleware: c.authMiddleware,
		Permission:     c.permissionMiddleware,
	})

	routes.SetupRequestRoutes(c.engine, &routes.RequestRouteConfig{
		RequestHandler: c.requestHandler,
		SiteHandler:    c.siteHandler,
		AuthMiddleware: c.authMiddleware,
		Permission:     c.permissionMiddleware,
		RateLimiter:    c.rateLimiter,
	})

	routes.SetupSiteRoutes(c.engine, &routes.SiteRouteConfig{
		SiteHandler:    c.siteHandler,
		AuthMiddleware: c.authMiddleware,
		Permission:     c.permissionMiddleware,
	})

	routes.SetupInstanceRoutes(c.engine, &routes.InstanceRouteConfig{
		InstanceHandler: c.instanceHandler,
		ActionHandler:   c.actionHandler,
		AuthMiddleware:  c.authMiddleware,
		Permission:      c.permissionMiddleware,
	})

	routes.SetupActionRoutes(c.engine, &routes.ActionRouteConfig{
		ActionHandler:  c.actionHandler,
		AuthMiddleware: c.authMiddleware,
		Permission:     c.permissionMiddleware,
	})
}

// GetEngine returns the underlying gin engine.
func (c *Container) GetEngine() *gin.Engine {
	return c.engine
}
