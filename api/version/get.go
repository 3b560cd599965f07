package version

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/transcribe-relay/api/types"
)

const (
	serviceName        = "Transcribe Relay API"
	serviceDescription = "Relays audio uploads to AssemblyAI and records finished transcripts"
)

// Get handles version requests
// @Summary      Service version
// @Tags         version
// @Produce      json
// @Success      200 {object} types.VersionResponse
// @Router       /version [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := types.VersionResponse{
			Name:        serviceName,
			Description: serviceDescription,
		}
		if deps != nil {
			response.BuildInfo = deps.Build
		}
		if response.Version == "" {
			response.Version = "dev"
		}

		c.JSON(http.StatusOK, response)
	}
}
