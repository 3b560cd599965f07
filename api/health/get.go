package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/transcribe-relay/api/types"
)

// Get handles health check requests
// @Summary      Health check
// @Description  Reports database reachability and persistence failures that were logged instead of returned.
// @Tags         health
// @Produce      json
// @Success      200 {object} types.HealthResponse
// @Failure      503 {object} types.HealthResponse "Database unreachable"
// @Router       /health [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := types.HealthResponse{
			Status:    types.StatusOK,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Database:  getDatabaseStatus(deps),
		}

		if deps != nil && deps.Reporter != nil {
			stats := deps.Reporter.Stats()
			response.Persistence = types.PersistenceSummary{
				Failures:    stats.Failures,
				LastError:   stats.LastError,
				LastJobID:   stats.LastJobID,
				LastFailure: stats.LastFailure,
			}
		}

		code := http.StatusOK
		if response.Database.Status == "unhealthy" {
			response.Status = "degraded"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, response)
	}
}

// getDatabaseStatus returns the database connection status
func getDatabaseStatus(deps *types.Dependencies) types.DependencyStatus {
	if deps == nil || deps.DB == nil || deps.DB.DB == nil {
		return types.DependencyStatus{Status: "not configured"}
	}

	if err := deps.DB.HealthCheck(); err != nil {
		return types.DependencyStatus{Status: "unhealthy", Error: err.Error()}
	}

	return types.DependencyStatus{Status: "healthy"}
}
