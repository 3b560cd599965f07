package transcribe

import (
	stderrors "errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/transcribe-relay/api/types"
	"github.com/killallgit/transcribe-relay/internal/services/uploads"
	apperrors "github.com/killallgit/transcribe-relay/pkg/errors"
)

// Post accepts an audio upload and submits it for transcription
// @Summary      Submit audio for transcription
// @Description  Uploads a single audio file to the transcription provider and records the returned job.
// @Description  Poll GET /api/transcribe/{id} with the returned transcript_id until the status is completed or error.
// @Tags         transcribe
// @Accept       multipart/form-data
// @Produce      json
// @Param        audio formData file true "Audio file"
// @Success      200 {object} types.SubmitResponse "Job accepted by the provider"
// @Failure      400 {object} types.ErrorResponse "No audio supplied or unsupported content type"
// @Failure      413 {object} types.ErrorResponse "Audio exceeds the upload limit"
// @Failure      502 {object} types.ErrorResponse "Provider upload or job creation failed"
// @Failure      503 {object} types.ErrorResponse "Job created but could not be recorded; transcript_id is included"
// @Router       /api/transcribe [post]
func Post(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps == nil || deps.JobService == nil || deps.Intake == nil {
			types.SendInternalError(c, "transcription service not available")
			return
		}

		ctx := c.Request.Context()

		form, err := c.MultipartForm()
		if err != nil {
			types.SendError(c, formError(err, deps.Intake))
			return
		}
		defer func() { _ = form.RemoveAll() }()

		fh, err := deps.Intake.SelectFile(form)
		if err != nil {
			types.SendError(c, err)
			return
		}

		staged, err := deps.Intake.StageFile(ctx, fh)
		if err != nil {
			types.SendError(c, err)
			return
		}
		defer deps.Intake.Remove(ctx, staged)

		audio, err := deps.Intake.Open(ctx, staged)
		if err != nil {
			types.SendError(c, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to open staged upload"))
			return
		}
		defer audio.Close()

		jobID, err := deps.JobService.SubmitJob(ctx, audio)
		if err != nil {
			resp := types.NewErrorResponse(err)
			// The provider has the job even though it was not recorded; let the client poll it
			if jobID != "" {
				resp.TranscriptID = jobID
			}
			c.JSON(apperrors.GetHTTPCode(err), resp)
			return
		}

		log.Printf("[INFO] Accepted %s (%d bytes) as transcript %s", staged.Filename, staged.Size, jobID)
		c.JSON(http.StatusOK, types.SubmitResponse{TranscriptID: jobID})
	}
}

// formError classifies a multipart parsing failure
func formError(err error, intake *uploads.Intake) error {
	var maxErr *http.MaxBytesError
	switch {
	case stderrors.As(err, &maxErr):
		return uploads.TooLarge(intake.MaxSize())
	case stderrors.Is(err, http.ErrNotMultipart), stderrors.Is(err, http.ErrMissingBoundary):
		return apperrors.MissingInput(intake.FormField())
	default:
		return apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, "malformed multipart form")
	}
}
