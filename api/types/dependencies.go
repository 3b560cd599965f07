package types

import (
	"github.com/killallgit/transcribe-relay/internal/database"
	"github.com/killallgit/transcribe-relay/internal/services/jobs"
	"github.com/killallgit/transcribe-relay/internal/services/uploads"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB         *database.DB
	JobService jobs.Service
	Intake     *uploads.Intake
	Reporter   *jobs.LogReporter
	Build      BuildInfo
}

// BuildInfo identifies the running binary
type BuildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
}
