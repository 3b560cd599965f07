package workers

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/killallgit/transcribe-relay/internal/services/assemblyai"
	"github.com/killallgit/transcribe-relay/internal/services/jobs"
)

// Reconciler periodically polls the provider for jobs that have no stored result.
// It goes through the coordinator, so completed transcripts are persisted the
// same way a client poll would persist them.
type Reconciler struct {
	id         string
	jobService jobs.Service
	interval   time.Duration
	batchSize  int
	stopChan   chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
	mu         sync.Mutex
	started    bool
}

// NewReconciler creates a new reconciler instance
func NewReconciler(id string, jobService jobs.Service, interval time.Duration, batchSize int) *Reconciler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 20
	}

	return &Reconciler{
		id:         id,
		jobService: jobService,
		interval:   interval,
		batchSize:  batchSize,
		stopChan:   make(chan struct{}),
	}
}

// Start starts the reconciler in a goroutine
func (r *Reconciler) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return fmt.Errorf("reconciler %s already started", r.id)
	}
	r.started = true

	r.wg.Add(1)
	go r.run(ctx)
	return nil
}

// Stop stops the reconciler gracefully
func (r *Reconciler) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopChan)
	})
	r.wg.Wait()
}

// run is the main reconciler loop
func (r *Reconciler) run(ctx context.Context) {
	defer r.wg.Done()

	log.Printf("[INFO] Reconciler %s starting (interval: %v, batch: %d)", r.id, r.interval, r.batchSize)
	defer log.Printf("[INFO] Reconciler %s stopped", r.id)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopChan:
			return
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil {
				log.Printf("[ERROR] Reconciler %s: %v", r.id, err)
			}
		}
	}
}

// RunOnce polls one batch of incomplete jobs and returns how many completed
func (r *Reconciler) RunOnce(ctx context.Context) (int, error) {
	pending, err := r.jobService.PendingJobs(ctx, r.batchSize)
	if err != nil {
		return 0, fmt.Errorf("listing pending jobs: %w", err)
	}

	completed := 0
	for _, job := range pending {
		if ctx.Err() != nil {
			return completed, ctx.Err()
		}

		var status assemblyai.Status
		view, err := r.jobService.GetJobStatus(ctx, job.JobID)
		if err != nil {
			log.Printf("[WARN] Reconciler %s: status for job %s failed: %v", r.id, job.JobID, err)
		} else {
			status = view.Status
			if view.IsCompleted() {
				completed++
			}
			if status == assemblyai.StatusError {
				log.Printf("[INFO] Reconciler %s: job %s failed at the provider, no longer polling", r.id, job.JobID)
			}
		}

		// Failed jobs drop out of the pending list and unreachable ones move to the back
		if err := r.jobService.RecordPoll(ctx, job.JobID, status); err != nil {
			log.Printf("[WARN] Reconciler %s: recording poll for job %s failed: %v", r.id, job.JobID, err)
		}
	}

	if len(pending) > 0 {
		log.Printf("[INFO] Reconciler %s checked %d job(s), %d completed", r.id, len(pending), completed)
	}

	return completed, nil
}
