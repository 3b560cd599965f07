package types

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/killallgit/transcribe-relay/pkg/errors"
)

// Handler utility functions to reduce duplication across handlers

// SendError writes err as an ErrorResponse with the status mapped from its code
func SendError(c *gin.Context, err error) {
	c.JSON(apperrors.GetHTTPCode(err), NewErrorResponse(err))
}

// NewErrorResponse builds the JSON error body for err
func NewErrorResponse(err error) ErrorResponse {
	appErr, ok := apperrors.As(err)
	if !ok {
		log.Printf("[ERROR] Unclassified error: %v", err)
		return ErrorResponse{
			Status:  StatusError,
			Code:    string(apperrors.ErrCodeInternal),
			Message: "internal server error",
		}
	}

	return ErrorResponse{
		Status:  StatusError,
		Code:    string(appErr.Code),
		Message: appErr.Message,
		Details: appErr.Details,
	}
}

// SendInternalError sends a standardized internal server error response
func SendInternalError(c *gin.Context, message string) {
	SendError(c, apperrors.New(apperrors.ErrCodeInternal, message))
}

// SendSuccess sends a standardized success response with data
func SendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}
