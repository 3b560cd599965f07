package models

import (
	"time"

	"gorm.io/datatypes"
)

// StatusError is the provider status for a job that will never complete
const StatusError = "error"

// WordSpan is one recognized word with its timing and speaker
type WordSpan struct {
	Text       string  `json:"text"`
	StartMs    int64   `json:"startMs"`
	EndMs      int64   `json:"endMs"`
	Confidence float64 `json:"confidence"`
	Speaker    *string `json:"speaker,omitempty"`
}

// TranscriptionJob is the local record of a job submitted to the transcription provider.
// Result fields stay nil until the provider reports the job as completed.
type TranscriptionJob struct {
	JobID       string                        `gorm:"column:job_id;primaryKey;size:128" json:"jobId"`
	Text        *string                       `gorm:"type:text" json:"text,omitempty"`
	Confidence  *float64                      `json:"confidence,omitempty"`
	Words       datatypes.JSONSlice[WordSpan] `json:"words,omitempty"`
	CreatedAt   time.Time                     `gorm:"autoCreateTime;index" json:"createdAt"`
	CompletedAt *time.Time                    `gorm:"index" json:"completedAt,omitempty"`

	// Background polling bookkeeping, written only by the reconciler
	LastStatus   *string    `gorm:"size:32" json:"lastStatus,omitempty"`
	LastPolledAt *time.Time `gorm:"index" json:"lastPolledAt,omitempty"`
}

// TableName specifies the table name for TranscriptionJob
func (TranscriptionJob) TableName() string {
	return "transcription_jobs"
}

// HasResult reports whether the completed transcript has been stored
func (j *TranscriptionJob) HasResult() bool {
	return j.CompletedAt != nil
}

// Failed reports whether a poll saw the provider give up on the job
func (j *TranscriptionJob) Failed() bool {
	return j.LastStatus != nil && *j.LastStatus == StatusError
}

// TranscriptResult holds the fields written once a job completes.
// A nil Confidence is stored as NULL.
type TranscriptResult struct {
	Text       string     `json:"text"`
	Confidence *float64   `json:"confidence,omitempty"`
	Words      []WordSpan `json:"words"`
}
