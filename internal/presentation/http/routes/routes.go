// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/anishwij/beacon-go/internal/application/container"
	"github.com/anishwij/beacon-go/internal/presentation/http/handlers"
	"github.com/anishwij/beacon-go/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// The attribution interceptor runs on every request; its exclusion
	// pattern keeps it off the API, metrics, and asset paths.
	r.Use(middleware.AttributionMiddleware(container.AttributionService, container.ExclusionPattern, container.Metrics))

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger, container.PerfTracker)
	sessionHandlers := handlers.NewSessionHandlers(container.AttributionService, container.Logger, container.PerfTracker)
	campaignHandlers := handlers.NewCampaignHandlers(container.CampaignService, container.Logger, container.PerfTracker)
	pageHandlers := handlers.NewPageHandlers(container.CampaignService, container.Logger)
	healthHandlers := handlers.NewHealthHandlers(container.AttributionStore)

	// Landing and developer pages (intercepted)
	r.GET("/", pageHandlers.GetHome)
	r.GET("/about", pageHandlers.GetAbout)
	r.GET("/campaigns", pageHandlers.GetCampaignsPage)

	// Operational endpoints (excluded from interception)
	r.GET("/api/health", healthHandlers.GetHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := r.Group("/api/v1")
	{
		api.POST("/auth/login", authHandlers.PostLogin)

		api.GET("/sessions/me", sessionHandlers.GetOwnSession)
		api.GET("/sessions/:id", authHandlers.AuthMiddleware(), sessionHandlers.GetSession)

		campaigns := api.Group("/campaigns")
		{
			campaigns.GET("", campaignHandlers.GetCampaigns)
			campaigns.GET("/:id", campaignHandlers.GetCampaign)
			campaigns.GET("/:id/url", campaignHandlers.GetCampaignURL)
			campaigns.POST("", authHandlers.AuthMiddleware(), campaignHandlers.PostCampaign)
		}
	}

	return r
}
