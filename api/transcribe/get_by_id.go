package transcribe

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/transcribe-relay/api/types"
)

// GetByID returns the provider's current view of a transcription job
// @Summary      Get transcription status
// @Description  Queries the provider for the job and returns its JSON response unchanged.
// @Description  A completed transcript is also stored locally; a storage failure does not affect this response.
// @Tags         transcribe
// @Produce      json
// @Param        id path string true "Transcript ID returned by POST /api/transcribe"
// @Success      200 {object} map[string]interface{} "Provider transcript (status is queued, processing, completed or error)"
// @Failure      400 {object} types.ErrorResponse "Empty transcript ID"
// @Failure      502 {object} types.ErrorResponse "Provider status query failed or returned an invalid response"
// @Router       /api/transcribe/{id} [get]
func GetByID(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps == nil || deps.JobService == nil {
			types.SendInternalError(c, "transcription service not available")
			return
		}

		view, err := deps.JobService.GetJobStatus(c.Request.Context(), c.Param("id"))
		if err != nil {
			types.SendError(c, err)
			return
		}

		c.Data(http.StatusOK, "application/json; charset=utf-8", view.Raw)
	}
}
