package transcripts

import (
	"context"

	"github.com/killallgit/transcribe-relay/internal/models"
)

// Repository defines the durable job record store.
// All operations are individually atomic; callers need no external locking.
type Repository interface {
	// InsertIfAbsent creates a record holding only the job ID and creation time.
	// A record that already exists is left untouched and reported as inserted=false.
	InsertIfAbsent(ctx context.Context, jobID string) (inserted bool, err error)

	// UpdateResultIfPresent stores the completed transcript on an existing record.
	// A missing record is reported as updated=false, not as an error.
	UpdateResultIfPresent(ctx context.Context, jobID string, result models.TranscriptResult) (updated bool, err error)

	// FindByJobID returns the record for jobID, or nil when none exists
	FindByJobID(ctx context.Context, jobID string) (*models.TranscriptionJob, error)

	// ListAll returns every record in creation order
	ListAll(ctx context.Context) ([]models.TranscriptionJob, error)

	// ListIncomplete returns up to limit records that are neither completed nor failed.
	// Records never polled come first, then the least recently polled.
	ListIncomplete(ctx context.Context, limit int) ([]models.TranscriptionJob, error)

	// MarkPolled stamps the poll time and, when status is non-empty, the last seen status
	MarkPolled(ctx context.Context, jobID, status string) (updated bool, err error)
}
