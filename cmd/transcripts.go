package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/killallgit/transcribe-relay/api/types"
	"github.com/killallgit/transcribe-relay/internal/models"
	"github.com/killallgit/transcribe-relay/pkg/transcript"
	"github.com/spf13/cobra"
)

// transcriptsCmd groups operator commands that use the same coordinator as the HTTP API
var transcriptsCmd = &cobra.Command{
	Use:   "transcripts",
	Short: "Submit and inspect transcription jobs",
	Long: `Submit audio and inspect transcription jobs without the HTTP server.

These commands use the configured provider credentials and database,
so jobs submitted here are visible through the API and vice versa.`,
}

var transcriptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded transcription jobs",
	Long: `List every transcription job recorded in the local database,
oldest first. Jobs without a completion time have not been seen
completed yet.`,
	Args: cobra.NoArgs,
	RunE: runTranscriptsList,
}

var transcriptsSubmitCmd = &cobra.Command{
	Use:   "submit <audio-file>",
	Short: "Submit an audio file for transcription",
	Long: `Upload an audio file to the provider and record the job.

The file goes through the same size and content type checks as an
HTTP upload. The transcript id is printed on success.`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscriptsSubmit,
}

var transcriptsStatusCmd = &cobra.Command{
	Use:   "status <transcript-id>",
	Short: "Show the provider status of a job",
	Long: `Fetch the job from the provider and print its JSON response.

A completed transcript is stored locally as a side effect.`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscriptsStatus,
}

var transcriptsExportCmd = &cobra.Command{
	Use:   "export <transcript-id>",
	Short: "Export a stored transcript as captions",
	Long: `Render a completed transcript from the local database as SRT,
WebVTT or plain text. The provider is not contacted; run
"transcripts status" first if the job has not been seen completed.`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscriptsExport,
}

func init() {
	rootCmd.AddCommand(transcriptsCmd)
	transcriptsCmd.AddCommand(transcriptsListCmd)
	transcriptsCmd.AddCommand(transcriptsSubmitCmd)
	transcriptsCmd.AddCommand(transcriptsStatusCmd)
	transcriptsCmd.AddCommand(transcriptsExportCmd)

	transcriptsListCmd.Flags().Bool("pending", false, "only show jobs without a stored result")
	transcriptsListCmd.Flags().Int("limit", 50, "maximum number of pending jobs to show")
	transcriptsExportCmd.Flags().StringP("format", "f", "srt", "caption format (srt, vtt, text)")
}

func runTranscriptsList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	services, err := newAppServices(cfg)
	if err != nil {
		return err
	}
	defer services.Close()

	ctx := cmd.Context()
	pending, _ := cmd.Flags().GetBool("pending")

	var records []models.TranscriptionJob
	if pending {
		limit, _ := cmd.Flags().GetInt("limit")
		records, err = services.jobs.PendingJobs(ctx, limit)
	} else {
		records, err = services.jobs.ListJobs(ctx)
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRANSCRIPT ID\tCREATED\tCOMPLETED\tWORDS")
	for _, r := range records {
		completed := "-"
		if r.CompletedAt != nil {
			completed = r.CompletedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", r.JobID, r.CreatedAt.Format(time.RFC3339), completed, len(r.Words))
	}
	return w.Flush()
}

func runTranscriptsSubmit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	services, err := newAppServices(cfg)
	if err != nil {
		return err
	}
	defer services.Close()

	ctx := cmd.Context()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	staged, err := services.intake.Stage(ctx, f, filepath.Base(args[0]), "")
	if err != nil {
		return err
	}
	defer services.intake.Remove(ctx, staged)

	audio, err := services.intake.Open(ctx, staged)
	if err != nil {
		return err
	}
	defer audio.Close()

	jobID, err := services.jobs.SubmitJob(ctx, audio)
	if jobID != "" {
		fmt.Fprintln(cmd.OutOrStdout(), jobID)
	}
	return err
}

func runTranscriptsStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	services, err := newAppServices(cfg)
	if err != nil {
		return err
	}
	defer services.Close()

	view, err := services.jobs.GetJobStatus(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, view.Raw, "", "  "); err != nil {
		return fmt.Errorf("failed to format provider response: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), pretty.String())
	return nil
}

func runTranscriptsExport(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("format")
	format, err := transcript.ParseFormat(name)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	services, err := newAppServices(cfg)
	if err != nil {
		return err
	}
	defer services.Close()

	job, err := services.jobs.FindJob(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	captions, err := types.ToCaptions(*job)
	if err != nil {
		return err
	}

	body, err := captions.Render(format)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), body)
	return nil
}
