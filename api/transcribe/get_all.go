package transcribe

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/transcribe-relay/api/types"
)

// GetAll lists every stored transcription job
// @Summary      List stored transcriptions
// @Description  Returns all locally stored jobs, oldest first. The provider is not contacted.
// @Tags         transcribe
// @Produce      json
// @Success      200 {array} types.TranscriptRecord
// @Failure      503 {object} types.ErrorResponse "Store unavailable"
// @Router       /api/transcribe [get]
func GetAll(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps == nil || deps.JobService == nil {
			types.SendInternalError(c, "transcription service not available")
			return
		}

		jobs, err := deps.JobService.ListJobs(c.Request.Context())
		if err != nil {
			types.SendError(c, err)
			return
		}

		types.SendSuccess(c, types.ToTranscriptRecords(jobs))
	}
}
