package cmd

import (
	"fmt"

	"github.com/killallgit/transcribe-relay/internal/database"
	"github.com/killallgit/transcribe-relay/internal/services/assemblyai"
	"github.com/killallgit/transcribe-relay/internal/services/jobs"
	"github.com/killallgit/transcribe-relay/internal/services/transcripts"
	"github.com/killallgit/transcribe-relay/internal/services/uploads"
	"github.com/killallgit/transcribe-relay/pkg/config"
)

// appServices bundles the components shared by serve and the transcript commands
type appServices struct {
	db       *database.DB
	jobs     jobs.Service
	intake   *uploads.Intake
	reporter *jobs.LogReporter
}

// newAppServices opens the store, migrates it and wires the job coordinator
func newAppServices(cfg *config.Config) (*appServices, error) {
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	intake, err := uploads.NewIntake(uploads.Config{
		Dir:          cfg.Uploads.Dir,
		MaxSize:      cfg.Uploads.MaxSize,
		AllowedTypes: cfg.Uploads.AllowedTypes,
		FormField:    cfg.Uploads.FormField,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize upload intake: %w", err)
	}

	gateway := assemblyai.NewClient(assemblyai.Config{
		APIKey:    cfg.AssemblyAI.APIKey,
		BaseURL:   cfg.AssemblyAI.BaseURL,
		UserAgent: fmt.Sprintf("TranscribeRelay/%s", Version),
		Timeout:   cfg.AssemblyAI.Timeout,
	})

	reporter := jobs.NewLogReporter()
	service := jobs.NewService(gateway, transcripts.NewRepository(db.DB), reporter, jobs.Config{
		LanguageCode:  cfg.AssemblyAI.LanguageCode,
		SpeakerLabels: cfg.AssemblyAI.SpeakerLabels,
	})

	return &appServices{
		db:       db,
		jobs:     service,
		intake:   intake,
		reporter: reporter,
	}, nil
}

// Close releases the database connection
func (s *appServices) Close() error {
	return s.db.Close()
}
