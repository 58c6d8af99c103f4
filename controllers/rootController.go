package controllers

import (
	"CareClinic/handlers"

	"github.com/gin-gonic/gin"
)

// SetupRootRoutes registers the role router, the staff surfaces and the
// health checks. Staff pages only need a session since admins may have no
// profile.
func SetupRootRoutes(router *gin.Engine, dashboards *handlers.DashboardHandler, settings *handlers.SettingsHandler, health *handlers.HealthHandler, healthAuth gin.HandlerFunc, signedIn ...gin.HandlerFunc) {
	router.GET("/health", health.Live)
	router.GET("/health/details", healthAuth, health.Details)

	root := router.Group("/", signedIn...)
	{
		root.GET("/", dashboards.Route)
		root.GET("/dashboard/", dashboards.Route)
		root.GET("/admin/", settings.Admin)
		root.GET("/settings/system/", settings.SystemSettings)
		root.POST("/settings/system/", settings.UpdateSystemSettings)
	}
}
