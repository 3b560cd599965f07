package jobs

import (
	"bufio"
	"context"
	"io"
	"log"
	"strings"

	"github.com/killallgit/transcribe-relay/internal/models"
	"github.com/killallgit/transcribe-relay/internal/services/assemblyai"
	"github.com/killallgit/transcribe-relay/pkg/errors"
	"github.com/killallgit/transcribe-relay/pkg/logging"
)

type service struct {
	gateway  Gateway
	store    Store
	reporter ErrorReporter
	cfg      Config
}

// NewService creates the job lifecycle coordinator.
// A nil reporter falls back to a LogReporter.
func NewService(gateway Gateway, store Store, reporter ErrorReporter, cfg Config) Service {
	if reporter == nil {
		reporter = NewLogReporter()
	}

	return &service{
		gateway:  gateway,
		store:    store,
		reporter: reporter,
		cfg:      cfg,
	}
}

func (s *service) SubmitJob(ctx context.Context, audio io.Reader) (string, error) {
	if audio == nil {
		return "", errors.MissingInput("audio")
	}

	// Reject empty payloads before anything reaches the provider
	buffered := bufio.NewReader(audio)
	if _, err := buffered.Peek(1); err != nil {
		if err == io.EOF {
			return "", errors.MissingInput("audio")
		}
		return "", errors.Wrap(err, errors.ErrCodeInvalidInput, "failed to read audio")
	}

	jobID, err := s.gateway.Submit(ctx, buffered, assemblyai.SubmitOptions{
		LanguageCode:  s.cfg.LanguageCode,
		SpeakerLabels: s.cfg.SpeakerLabels,
	})
	if err != nil {
		log.Printf("[ERROR] Submitting audio failed: %v", err)
		return "", err
	}

	inserted, err := s.store.InsertIfAbsent(ctx, jobID)
	if err != nil {
		s.reporter.ReportPersistenceFailure(ctx, "insert", jobID, err)
		return jobID, persistenceFailure("insert", jobID, err)
	}

	if inserted {
		log.Printf("[INFO] Submitted transcription job %s", jobID)
	} else {
		log.Printf("[INFO] Transcription job %s already recorded, skipping insert", jobID)
	}

	return jobID, nil
}

func (s *service) GetJobStatus(ctx context.Context, jobID string) (*assemblyai.StatusView, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, errors.InvalidInput("job_id", "must not be empty")
	}

	view, err := s.gateway.FetchStatus(ctx, jobID)
	if err != nil {
		log.Printf("[ERROR] Fetching status for job %s failed: %v", jobID, err)
		return nil, err
	}

	if view.IsCompleted() {
		s.persistResult(ctx, jobID, view)
	}

	return view, nil
}

// persistResult stores a completed transcript. Failures are reported, never returned,
// so a completed transcript always reaches the caller.
func (s *service) persistResult(ctx context.Context, jobID string, view *assemblyai.StatusView) {
	updated, err := s.store.UpdateResultIfPresent(ctx, jobID, view.Result())
	if err != nil {
		s.reporter.ReportPersistenceFailure(ctx, "update", jobID, err)
		return
	}

	if !updated {
		logging.Debugf("No local record for completed job %s, result not stored", jobID)
		return
	}

	logging.Debugf("Stored result for job %s (%d words)", jobID, len(view.Words))
}

func (s *service) FindJob(ctx context.Context, jobID string) (*models.TranscriptionJob, error) {
	record, err := s.store.FindByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errors.NotFound("transcription job", jobID)
	}
	return record, nil
}

func (s *service) ListJobs(ctx context.Context) ([]models.TranscriptionJob, error) {
	return s.store.ListAll(ctx)
}

func (s *service) PendingJobs(ctx context.Context, limit int) ([]models.TranscriptionJob, error) {
	return s.store.ListIncomplete(ctx, limit)
}

func (s *service) RecordPoll(ctx context.Context, jobID string, status assemblyai.Status) error {
	if _, err := s.store.MarkPolled(ctx, jobID, string(status)); err != nil {
		return persistenceFailure("mark polled", jobID, err)
	}
	return nil
}

// persistenceFailure keeps store errors classified as PERSISTENCE_UNAVAILABLE with the job ID attached
func persistenceFailure(operation, jobID string, err error) error {
	if appErr, ok := errors.As(err); ok && appErr.Code == errors.ErrCodePersistenceUnavailable {
		return appErr.WithDetail("job_id", jobID)
	}
	return errors.PersistenceError(operation, err).WithDetail("job_id", jobID)
}
