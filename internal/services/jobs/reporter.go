package jobs

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// ReporterStats summarizes persistence failures seen since startup
type ReporterStats struct {
	Failures    int64      `json:"failures"`
	LastError   string     `json:"last_error,omitempty"`
	LastJobID   string     `json:"last_job_id,omitempty"`
	LastFailure *time.Time `json:"last_failure,omitempty"`
}

// LogReporter logs persistence failures and keeps counters for health reporting
type LogReporter struct {
	failures atomic.Int64

	mu        sync.Mutex
	lastError string
	lastJobID string
	lastAt    time.Time
}

// NewLogReporter creates a reporter with zeroed counters
func NewLogReporter() *LogReporter {
	return &LogReporter{}
}

// ReportPersistenceFailure implements ErrorReporter
func (r *LogReporter) ReportPersistenceFailure(ctx context.Context, operation, jobID string, err error) {
	r.failures.Add(1)

	r.mu.Lock()
	r.lastError = err.Error()
	r.lastJobID = jobID
	r.lastAt = time.Now().UTC()
	r.mu.Unlock()

	log.Printf("[ERROR] Persistence %s failed for job %s: %v", operation, jobID, err)
}

// Stats returns a snapshot of the reported failures
func (r *LogReporter) Stats() ReporterStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := ReporterStats{
		Failures:  r.failures.Load(),
		LastError: r.lastError,
		LastJobID: r.lastJobID,
	}
	if !r.lastAt.IsZero() {
		at := r.lastAt
		stats.LastFailure = &at
	}
	return stats
}
