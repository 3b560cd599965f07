package api

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/killallgit/transcribe-relay/api/health"
	"github.com/killallgit/transcribe-relay/api/transcribe"
	"github.com/killallgit/transcribe-relay/api/types"
	"github.com/killallgit/transcribe-relay/api/version"
	_ "github.com/killallgit/transcribe-relay/docs/swagger"
	"github.com/killallgit/transcribe-relay/pkg/config"
	apperrors "github.com/killallgit/transcribe-relay/pkg/errors"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, cfg *config.Config, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	if deps == nil {
		return fmt.Errorf("dependencies are nil")
	}
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	// Register public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	// Register Swagger documentation route
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Setup 404 handler
	engine.NoRoute(NotFoundHandler())

	if deps.JobService == nil || deps.Intake == nil {
		return fmt.Errorf("transcription dependencies are not configured")
	}

	submitLimit := passThrough
	readLimit := passThrough
	if cfg.RateLimiting.Enabled {
		// Uploads are expensive for the provider, polling is not
		submitLimit = PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, cfg.RateLimiting.SubmitRPS, cfg.RateLimiting.SubmitBurst)
		readLimit = PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, cfg.RateLimiting.ReadRPS, cfg.RateLimiting.ReadBurst)
	}

	transcribeGroup := engine.Group("/api/transcribe")
	transcribe.RegisterRoutes(transcribeGroup, deps, submitLimit, readLimit)

	return nil
}

func passThrough(c *gin.Context) {
	c.Next()
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := types.NewErrorResponse(apperrors.New(apperrors.ErrCodeNotFound, "the requested endpoint was not found"))
		resp.Details = map[string]interface{}{"path": c.Request.URL.Path}
		c.JSON(http.StatusNotFound, resp)
	}
}
