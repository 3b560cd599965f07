package transcribe

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/transcribe-relay/api/types"
)

// RegisterRoutes registers all transcription job routes.
// submit guards the upload route; read guards the polling and listing routes.
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies, submit, read gin.HandlerFunc) {
	router.POST("", submit, Post(deps))
	router.GET("", read, GetAll(deps))
	router.GET("/:id", read, GetByID(deps))
	router.GET("/:id/record", read, GetRecord(deps))
}
