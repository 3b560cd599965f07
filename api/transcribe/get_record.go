package transcribe

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/transcribe-relay/api/types"
	apperrors "github.com/killallgit/transcribe-relay/pkg/errors"
	"github.com/killallgit/transcribe-relay/pkg/transcript"
)

// GetRecord returns the locally stored record of a transcription job
// @Summary      Get stored transcription record
// @Description  Reads the local record without contacting the provider.
// @Description  With format=srt, vtt or text the completed transcript is rendered as captions instead of JSON.
// @Tags         transcribe
// @Produce      json
// @Produce      text/vtt
// @Produce      application/x-subrip
// @Produce      plain
// @Param        id path string true "Transcript ID"
// @Param        format query string false "Output format" Enums(json, srt, vtt, text)
// @Success      200 {object} types.TranscriptRecord
// @Failure      400 {object} types.ErrorResponse "Unsupported format"
// @Failure      404 {object} types.ErrorResponse "No record, or no completed result for caption formats"
// @Failure      503 {object} types.ErrorResponse "Store unavailable"
// @Router       /api/transcribe/{id}/record [get]
func GetRecord(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps == nil || deps.JobService == nil {
			types.SendInternalError(c, "transcription service not available")
			return
		}

		var format transcript.TranscriptFormat
		if name := c.Query("format"); name != "" && name != "json" {
			f, err := transcript.ParseFormat(name)
			if err != nil {
				types.SendError(c, apperrors.InvalidInput("format", "expected json, srt, vtt or text"))
				return
			}
			format = f
		}

		job, err := deps.JobService.FindJob(c.Request.Context(), c.Param("id"))
		if err != nil {
			types.SendError(c, err)
			return
		}

		if format == "" {
			types.SendSuccess(c, types.ToTranscriptRecord(*job))
			return
		}

		captions, err := types.ToCaptions(*job)
		if err != nil {
			types.SendError(c, err)
			return
		}

		body, err := captions.Render(format)
		if err != nil {
			types.SendError(c, err)
			return
		}

		c.Data(http.StatusOK, format.ContentType(), []byte(body))
	}
}
