package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/killallgit/transcribe-relay/pkg/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// clearEnv unsets keys for the duration of the test
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, dir string) (configPath, envPath string)
		wantErr bool
		check   func(t *testing.T)
	}{
		{
			name: "load from settings.yaml",
			setup: func(t *testing.T, dir string) (string, string) {
				cfg := writeFile(t, dir, "settings.yaml", `
server:
  host: "127.0.0.1"
  port: 8080
assemblyai:
  api_key: "file-key"
  language_code: "en"
`)
				return cfg, filepath.Join(dir, ".env")
			},
			check: func(t *testing.T) {
				assert.Equal(t, 8080, GetInt("server.port"))
				assert.Equal(t, "en", GetString("assemblyai.language_code"))
				assert.True(t, GetBool("assemblyai.speaker_labels"))
			},
		},
		{
			name: "environment variable override",
			setup: func(t *testing.T, dir string) (string, string) {
				cfg := writeFile(t, dir, "settings.yaml", "server:\n  port: 8080\n")
				t.Setenv("TRANSCRIBE_SERVER_PORT", "9090")
				return cfg, filepath.Join(dir, ".env")
			},
			check: func(t *testing.T) {
				assert.Equal(t, 9090, GetInt("server.port"))
			},
		},
		{
			name: "legacy env names from .env file",
			setup: func(t *testing.T, dir string) (string, string) {
				env := writeFile(t, dir, ".env", "ASSEMBLYAI_API_KEY=dotenv-key\nPORT=5050\n")
				t.Cleanup(func() {
					os.Unsetenv("ASSEMBLYAI_API_KEY")
					os.Unsetenv("PORT")
				})
				return filepath.Join(dir, "missing.yaml"), env
			},
			check: func(t *testing.T) {
				assert.Equal(t, 5050, GetInt("server.port"))

				cfg, err := GetConfig()
				require.NoError(t, err)
				assert.Equal(t, "dotenv-key", cfg.AssemblyAI.APIKey)
			},
		},
		{
			name: "missing config file with defaults",
			setup: func(t *testing.T, dir string) (string, string) {
				return filepath.Join(dir, "missing.yaml"), filepath.Join(dir, ".env")
			},
			check: func(t *testing.T) {
				assert.Equal(t, 4000, GetInt("server.port"))
				assert.Equal(t, "sqlite", GetString("database.driver"))
				assert.Equal(t, "ko", GetString("assemblyai.language_code"))
				assert.Equal(t, 60*time.Second, GetDuration("assemblyai.timeout"))
			},
		},
		{
			name: "zero cleanup age falls back to the default",
			setup: func(t *testing.T, dir string) (string, string) {
				cfg := writeFile(t, dir, "settings.yaml", "cleanup:\n  max_age: 0s\n  interval: -1m\n")
				return cfg, filepath.Join(dir, ".env")
			},
			check: func(t *testing.T) {
				assert.Equal(t, 24*time.Hour, GetDuration("cleanup.max_age"))
				assert.Equal(t, time.Hour, GetDuration("cleanup.interval"))
			},
		},
		{
			name: "postgres without dsn",
			setup: func(t *testing.T, dir string) (string, string) {
				cfg := writeFile(t, dir, "settings.yaml", "database:\n  driver: postgres\n")
				return cfg, filepath.Join(dir, ".env")
			},
			wantErr: true,
		},
		{
			name: "placeholder key in production",
			setup: func(t *testing.T, dir string) (string, string) {
				cfg := writeFile(t, dir, "settings.yaml", "environment: production\nassemblyai:\n  api_key: changeme\n")
				return cfg, filepath.Join(dir, ".env")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)
			clearEnv(t, "PORT", "ASSEMBLYAI_API_KEY", "DATABASE_URL", "TRANSCRIBE_SERVER_PORT")

			configPath, envPath := tt.setup(t, t.TempDir())

			err := load(configPath, envPath)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			if tt.check != nil {
				tt.check(t)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		check   func(t *testing.T, c *Config)
	}{
		{
			name: "valid config fills defaults",
			config: &Config{
				Server: ServerConfig{Host: "localhost", Port: 8080},
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "sqlite", c.Database.Driver)
				assert.Equal(t, int64(defaultMaxUpload), c.Uploads.MaxSize)
				assert.Equal(t, "audio", c.Uploads.FormField)
				assert.Equal(t, 20, c.Reconcile.BatchSize)
				assert.Equal(t, defaultCleanupMaxAge, c.Cleanup.MaxAge)
				assert.Equal(t, defaultCleanupInterval, c.Cleanup.Interval)
			},
		},
		{
			name: "non-positive cleanup age is reset",
			config: &Config{
				Server:  ServerConfig{Port: 8080},
				Cleanup: CleanupConfig{MaxAge: -time.Minute, Interval: 5 * time.Minute},
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, defaultCleanupMaxAge, c.Cleanup.MaxAge)
				assert.Equal(t, 5*time.Minute, c.Cleanup.Interval)
			},
		},
		{
			name:    "invalid port",
			config:  &Config{Server: ServerConfig{Port: 0}},
			wantErr: true,
		},
		{
			name: "unknown driver",
			config: &Config{
				Server:   ServerConfig{Port: 8080},
				Database: DatabaseConfig{Driver: "mongo"},
			},
			wantErr: true,
		},
		{
			name: "postgres with dsn",
			config: &Config{
				Server:   ServerConfig{Port: 8080},
				Database: DatabaseConfig{Driver: "postgres", DSN: "postgres://localhost/transcripts"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.True(t, apperrors.Is(err, apperrors.ErrCodeConfigInvalid), "got %v", err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, tt.config)
			}
		})
	}
}
