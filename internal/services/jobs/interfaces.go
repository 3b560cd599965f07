package jobs

import (
	"context"
	"io"

	"github.com/killallgit/transcribe-relay/internal/models"
	"github.com/killallgit/transcribe-relay/internal/services/assemblyai"
)

// Service defines the job lifecycle operations exposed to transports
type Service interface {
	// SubmitJob sends audio to the provider and records the returned job ID
	SubmitJob(ctx context.Context, audio io.Reader) (string, error)

	// GetJobStatus fetches provider status and stores the result once completed
	GetJobStatus(ctx context.Context, jobID string) (*assemblyai.StatusView, error)

	// Local record access
	FindJob(ctx context.Context, jobID string) (*models.TranscriptionJob, error)
	ListJobs(ctx context.Context) ([]models.TranscriptionJob, error)
	PendingJobs(ctx context.Context, limit int) ([]models.TranscriptionJob, error)

	// RecordPoll notes a background poll of jobID. An empty status means the fetch failed.
	// GetJobStatus never calls it, so client polls leave the bookkeeping alone.
	RecordPoll(ctx context.Context, jobID string, status assemblyai.Status) error
}

// Gateway is the remote transcription provider
type Gateway interface {
	Submit(ctx context.Context, audio io.Reader, opts assemblyai.SubmitOptions) (string, error)
	FetchStatus(ctx context.Context, jobID string) (*assemblyai.StatusView, error)
}

// Store is the durable job record store
type Store interface {
	InsertIfAbsent(ctx context.Context, jobID string) (bool, error)
	UpdateResultIfPresent(ctx context.Context, jobID string, result models.TranscriptResult) (bool, error)
	FindByJobID(ctx context.Context, jobID string) (*models.TranscriptionJob, error)
	ListAll(ctx context.Context) ([]models.TranscriptionJob, error)
	ListIncomplete(ctx context.Context, limit int) ([]models.TranscriptionJob, error)
	MarkPolled(ctx context.Context, jobID, status string) (bool, error)
}

// ErrorReporter receives store failures that are not returned to the caller
type ErrorReporter interface {
	ReportPersistenceFailure(ctx context.Context, operation, jobID string, err error)
}

// Config holds the transcription settings fixed for a deployment
type Config struct {
	LanguageCode  string
	SpeakerLabels bool
}
