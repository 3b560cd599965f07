package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/transcribe-relay/api"
	"github.com/killallgit/transcribe-relay/api/types"
	"github.com/killallgit/transcribe-relay/internal/services/cleanup"
	"github.com/killallgit/transcribe-relay/internal/services/workers"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the Transcribe Relay API server with the configured settings.

The server accepts audio uploads on POST /api/transcribe and proxies
status queries on GET /api/transcribe/{id}.

Example:
  transcribe-relay serve
  transcribe-relay serve --port 9090
  transcribe-relay serve --host 0.0.0.0 --port 8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server flags
	serveCmd.Flags().String("host", "", "server host (overrides config)")
	serveCmd.Flags().Int("port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Use config values if flags not provided
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Server.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}

	if cfg.Environment == "production" || cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	services, err := newAppServices(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := services.Close(); err != nil {
			log.Printf("[WARN] Failed to close database: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Remove staged uploads orphaned by crashes or interrupted requests
	cleaner := cleanup.NewService(cfg.Uploads.Dir, cfg.Cleanup.MaxAge, cfg.Cleanup.Interval)
	cleaner.Start(ctx)
	defer cleaner.Stop()

	if cfg.Reconcile.Enabled {
		reconciler := workers.NewReconciler("reconciler-1", services.jobs, cfg.Reconcile.Interval, cfg.Reconcile.BatchSize)
		if err := reconciler.Start(ctx); err != nil {
			return fmt.Errorf("failed to start reconciler: %w", err)
		}
		defer reconciler.Stop()
	}

	server := api.NewServer(cfg)
	server.SetDependencies(&types.Dependencies{
		DB:         services.db,
		JobService: services.jobs,
		Intake:     services.intake,
		Reporter:   services.reporter,
		Build:      buildInfo(),
	})
	if err := server.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	// Channel to receive server errors
	serverErr := make(chan error, 1)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	log.Printf("[INFO] Transcribe Relay listening on %s", server.Addr())

	var runErr error
	select {
	case <-ctx.Done():
		log.Println("[INFO] Shutting down server...")
	case runErr = <-serverErr:
		log.Printf("[ERROR] %v", runErr)
	}

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("[INFO] Server gracefully stopped")
	return runErr
}
