package transcripts

import (
	"context"
	"errors"
	"time"

	"github.com/killallgit/transcribe-relay/internal/models"
	apperrors "github.com/killallgit/transcribe-relay/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// repository implements the Repository interface using GORM
type repository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRepository creates a new transcript job repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{
		db: db,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// InsertIfAbsent relies on the primary key on job_id, so concurrent inserts
// for the same ID resolve to one row and the losers see zero affected rows
func (r *repository) InsertIfAbsent(ctx context.Context, jobID string) (bool, error) {
	if jobID == "" {
		return false, apperrors.InvalidInput("job_id", "must not be empty")
	}

	record := &models.TranscriptionJob{
		JobID:     jobID,
		CreatedAt: r.now(),
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "job_id"}},
			DoNothing: true,
		}).
		Create(record)
	if result.Error != nil {
		return false, apperrors.PersistenceError("insert", result.Error).WithDetail("job_id", jobID)
	}

	return result.RowsAffected > 0, nil
}

// UpdateResultIfPresent writes the result fields. completed_at keeps its first value,
// so repeating the update with the same result leaves the record unchanged.
func (r *repository) UpdateResultIfPresent(ctx context.Context, jobID string, res models.TranscriptResult) (bool, error) {
	updates := map[string]interface{}{
		"text":         res.Text,
		"confidence":   res.Confidence,
		"words":        datatypes.JSONSlice[models.WordSpan](res.Words),
		"completed_at": gorm.Expr("COALESCE(completed_at, ?)", r.now()),
	}

	result := r.db.WithContext(ctx).
		Model(&models.TranscriptionJob{}).
		Where("job_id = ?", jobID).
		Updates(updates)
	if result.Error != nil {
		return false, apperrors.PersistenceError("update", result.Error).WithDetail("job_id", jobID)
	}

	return result.RowsAffected > 0, nil
}

// FindByJobID retrieves a record by provider job ID
func (r *repository) FindByJobID(ctx context.Context, jobID string) (*models.TranscriptionJob, error) {
	var record models.TranscriptionJob

	err := r.db.WithContext(ctx).Where("job_id = ?", jobID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.PersistenceError("find", err).WithDetail("job_id", jobID)
	}

	return &record, nil
}

// ListAll retrieves all records ordered by creation time
func (r *repository) ListAll(ctx context.Context) ([]models.TranscriptionJob, error) {
	records := make([]models.TranscriptionJob, 0)

	err := r.db.WithContext(ctx).
		Order("created_at ASC, job_id ASC").
		Find(&records).Error
	if err != nil {
		return nil, apperrors.PersistenceError("list", err)
	}

	return records, nil
}

// ListIncomplete retrieves records that may still complete, least recently polled first
func (r *repository) ListIncomplete(ctx context.Context, limit int) ([]models.TranscriptionJob, error) {
	records := make([]models.TranscriptionJob, 0)

	query := r.db.WithContext(ctx).
		Where("completed_at IS NULL").
		Where("(last_status IS NULL OR last_status <> ?)", models.StatusError).
		Order("last_polled_at IS NOT NULL, last_polled_at ASC, created_at ASC, job_id ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&records).Error; err != nil {
		return nil, apperrors.PersistenceError("list incomplete", err)
	}

	return records, nil
}

// MarkPolled records that the provider was asked about jobID
func (r *repository) MarkPolled(ctx context.Context, jobID, status string) (bool, error) {
	updates := map[string]interface{}{
		"last_polled_at": r.now(),
	}
	if status != "" {
		updates["last_status"] = status
	}

	result := r.db.WithContext(ctx).
		Model(&models.TranscriptionJob{}).
		Where("job_id = ?", jobID).
		Updates(updates)
	if result.Error != nil {
		return false, apperrors.PersistenceError("mark polled", result.Error).WithDetail("job_id", jobID)
	}

	return result.RowsAffected > 0, nil
}
