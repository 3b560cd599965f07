package types

import (
	"time"

	"github.com/killallgit/transcribe-relay/internal/models"
)

// Status constants for API responses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Status       string                 `json:"status"`
	Code         string                 `json:"code"`
	Message      string                 `json:"message"`
	Details      map[string]interface{} `json:"details,omitempty"`
	TranscriptID string                 `json:"transcript_id,omitempty"`
}

// SubmitResponse is returned once the provider accepted the audio
type SubmitResponse struct {
	TranscriptID string `json:"transcript_id" example:"5551722-f677-48a6-9287-39c0aafd9ac1"`
}

// TranscriptRecord is the stored view of a transcription job
type TranscriptRecord struct {
	TranscriptID string            `json:"transcript_id"`
	Text         *string           `json:"text,omitempty"`
	Confidence   *float64          `json:"confidence,omitempty"`
	Words        []models.WordSpan `json:"words,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
	LastStatus   *string           `json:"last_status,omitempty"`
	LastPolledAt *time.Time        `json:"last_polled_at,omitempty"`
}

// HealthResponse reports service and dependency health
type HealthResponse struct {
	Status      string             `json:"status"`
	Timestamp   string             `json:"timestamp"`
	Database    DependencyStatus   `json:"database"`
	Persistence PersistenceSummary `json:"persistence"`
}

// DependencyStatus describes one backing service
type DependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// PersistenceSummary counts store failures that were reported instead of returned
type PersistenceSummary struct {
	Failures    int64      `json:"failures"`
	LastError   string     `json:"last_error,omitempty"`
	LastJobID   string     `json:"last_job_id,omitempty"`
	LastFailure *time.Time `json:"last_failure,omitempty"`
}

// VersionResponse describes the running build
type VersionResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	BuildInfo
}
