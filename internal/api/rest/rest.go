package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/shopkit/commerce-gateway/internal/adapter"
	"github.com/shopkit/commerce-gateway/internal/api/middleware"
	"github.com/shopkit/commerce-gateway/internal/auth"
	"github.com/shopkit/commerce-gateway/internal/metrics"
	"github.com/shopkit/commerce-gateway/internal/ratelimit"
	"github.com/shopkit/commerce-gateway/internal/usage"
)

// RouteConfig holds the middleware dependencies of the route groups
type RouteConfig struct {
	Resolver        auth.Resolver
	Limiter         ratelimit.Limiter
	Usage           usage.Recorder
	Clock           adapter.Clock
	Metrics         *metrics.Metrics
	ConsoleVerifier *auth.ConsoleVerifier
	ConsoleOrigins  []string
}

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, cfg RouteConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	// Public API: API key authentication, rate limiting and usage logging
	v1 := router.Group("/api/v1",
		middleware.PublicCORS(),
		middleware.Metrics(cfg.Metrics),
		middleware.Gateway(cfg.Resolver, cfg.Limiter, cfg.Usage, cfg.Clock),
	)
	{
		// PublicCORS answers preflights; the route only has to exist
		v1.OPTIONS("/*path", func(c *gin.Context) {})

		registerWebhookRoutes(v1, handler)
	}

	// Admin console: RS256 bearer tokens, not rate limited
	console := router.Group("/console/v1",
		middleware.ConsoleCORS(cfg.ConsoleOrigins),
		middleware.ConsoleAuth(cfg.ConsoleVerifier),
	)
	{
		console.OPTIONS("/*path", func(c *gin.Context) {})

		registerWebhookRoutes(console, handler)

		console.GET("/api-keys", handler.ListAPIKeys)
		console.POST("/api-keys", handler.CreateAPIKey)
		console.DELETE("/api-keys/:id", handler.RevokeAPIKey)
	}
}

func registerWebhookRoutes(group *gin.RouterGroup, handler Handler) {
	group.GET("/webhooks/event-types", handler.ListEventTypes)
	group.GET("/webhooks", handler.ListWebhooks)
	group.POST("/webhooks", handler.CreateWebhook)
	group.GET("/webhooks/:id", handler.GetWebhook)
	group.PUT("/webhooks/:id", handler.UpdateWebhook)
	group.DELETE("/webhooks/:id", handler.DeleteWebhook)
	group.POST("/webhooks/:id/rotate-secret", handler.RotateWebhookSecret)
	group.POST("/webhooks/:id/test", handler.SendTestWebhook)
	group.GET("/webhooks/:id/attempts", handler.ListDeliveryAttempts)
	group.POST("/deliveries/:id/replay", handler.ReplayDeliveryAttempt)
}
