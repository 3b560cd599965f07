package cleanup

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/killallgit/transcribe-relay/pkg/logging"
)

// stagedPrefix matches files written by the upload intake
const stagedPrefix = "upload_"

// DefaultMaxAge is how long a staged upload may sit before it counts as orphaned
const DefaultMaxAge = 24 * time.Hour

// Service removes staged uploads left behind by interrupted requests
type Service struct {
	uploadDir       string
	maxAge          time.Duration
	cleanupInterval time.Duration
	cancel          context.CancelFunc
	wg              sync.WaitGroup
	now             func() time.Time
}

// NewService creates a new cleanup service
func NewService(uploadDir string, maxAge, cleanupInterval time.Duration) *Service {
	if cleanupInterval <= 0 {
		cleanupInterval = time.Hour
	}
	// A zero age would remove uploads that are still being sent to the provider
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}

	return &Service{
		uploadDir:       uploadDir,
		maxAge:          maxAge,
		cleanupInterval: cleanupInterval,
		now:             time.Now,
	}
}

// Start runs one sweep immediately and then one per interval until stopped
func (s *Service) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	// Run initial cleanup
	s.Sweep()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-ctx.Done():
				log.Println("[INFO] Cleanup service stopped")
				return
			}
		}
	}()

	log.Printf("[INFO] Cleanup service started (dir: %s, interval: %v, max age: %v)", s.uploadDir, s.cleanupInterval, s.maxAge)
}

// Stop stops the cleanup service
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// Sweep removes staged uploads older than the max age and returns how many were removed
func (s *Service) Sweep() int {
	// Check if upload directory exists
	if _, err := os.Stat(s.uploadDir); os.IsNotExist(err) {
		return 0
	}

	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		log.Printf("[ERROR] Cleanup read error: %v", err)
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), stagedPrefix) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue // Skip files with errors
		}

		if s.now().Sub(info.ModTime()) <= s.maxAge {
			continue
		}

		path := filepath.Join(s.uploadDir, entry.Name())
		logging.Debugf("Removing stale staged upload: %s", path)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("[WARN] Failed to remove staged upload %s: %v", path, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		log.Printf("[INFO] Cleanup removed %d stale staged upload(s)", removed)
	}
	return removed
}
