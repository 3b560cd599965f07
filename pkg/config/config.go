package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	apperrors "github.com/killallgit/transcribe-relay/pkg/errors"
	"github.com/spf13/viper"
)

const (
	envPrefix         = "TRANSCRIBE"
	defaultConfigPath = "./config/settings.yaml"
	defaultMaxUpload  = 100 << 20

	defaultCleanupMaxAge   = 24 * time.Hour
	defaultCleanupInterval = time.Hour
)

var (
	once    sync.Once
	initErr error
)

// Init initializes the configuration system
// This should be called once at application startup
func Init() error {
	once.Do(func() {
		initErr = load(defaultConfigPath, ".env")
	})

	return initErr
}

// load reads .env, defaults, the config file and environment overrides into viper
func load(configPath, envFile string) error {
	// Values already present in the environment win over .env entries
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error reading env file %s: %w", envFile, err)
	}

	setDefaults()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	bindLegacyEnv()

	configPath = filepath.Clean(configPath)
	viper.SetConfigFile(configPath)

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults and env vars apply
		if !os.IsNotExist(err) && !errors.As(err, new(viper.ConfigFileNotFoundError)) {
			return fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
	}

	if err := validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

// bindLegacyEnv maps the unprefixed variable names used by earlier deployments
func bindLegacyEnv() {
	_ = viper.BindEnv("assemblyai.api_key", envPrefix+"_ASSEMBLYAI_API_KEY", "ASSEMBLYAI_API_KEY")
	_ = viper.BindEnv("server.port", envPrefix+"_SERVER_PORT", "PORT")
	_ = viper.BindEnv("database.dsn", envPrefix+"_DATABASE_DSN", "DATABASE_URL")
}

// Load initializes configuration and returns it as a validated struct
func Load() (*Config, error) {
	if err := Init(); err != nil {
		return nil, err
	}

	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// GetConfig returns the current configuration as a struct
// Init() must be called before using this
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	config.AssemblyAI.APIKey = strings.TrimSpace(config.AssemblyAI.APIKey)
	return &config, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	switch driver := viper.GetString("database.driver"); driver {
	case "sqlite":
		if viper.GetString("database.path") == "" {
			return fmt.Errorf("database.path is required for the sqlite driver")
		}
	case "postgres":
		if viper.GetString("database.dsn") == "" {
			return fmt.Errorf("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported database driver: %q", driver)
	}

	if err := validateAPIKey(); err != nil {
		return err
	}

	// Auto-correct invalid upload limit
	if viper.GetInt64("uploads.max_size") <= 0 {
		viper.Set("uploads.max_size", defaultMaxUpload)
	}

	if viper.GetInt("reconcile.batch_size") <= 0 {
		viper.Set("reconcile.batch_size", 20)
	}

	if viper.GetDuration("cleanup.max_age") <= 0 {
		viper.Set("cleanup.max_age", defaultCleanupMaxAge)
	}
	if viper.GetDuration("cleanup.interval") <= 0 {
		viper.Set("cleanup.interval", defaultCleanupInterval)
	}

	return nil
}

// validateAPIKey rejects placeholder provider credentials in production
func validateAPIKey() error {
	env := viper.GetString("environment")
	isProduction := env == "production" || env == "prod"

	placeholders := []string{
		"YOUR_KEY_HERE",
		"YOUR_API_KEY",
		"changeme",
		"CHANGEME",
		"",
	}

	apiKey := strings.TrimSpace(viper.GetString("assemblyai.api_key"))
	for _, placeholder := range placeholders {
		if apiKey == placeholder {
			if isProduction {
				return fmt.Errorf("invalid AssemblyAI API key: cannot use placeholder values in production")
			}
			fmt.Println("Warning: AssemblyAI API key is missing or a placeholder value")
			break
		}
	}

	return nil
}

// Validate validates a Config struct
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return apperrors.ConfigError("server.port", fmt.Sprintf("%d is outside 1-65535", c.Server.Port))
	}

	switch c.Database.Driver {
	case "sqlite", "":
		c.Database.Driver = "sqlite"
	case "postgres":
		if c.Database.DSN == "" {
			return apperrors.ConfigError("database.dsn", "required for the postgres driver")
		}
	default:
		return apperrors.ConfigError("database.driver", fmt.Sprintf("unsupported driver %q", c.Database.Driver))
	}

	if c.Uploads.MaxSize <= 0 {
		c.Uploads.MaxSize = defaultMaxUpload
	}

	if c.Uploads.FormField == "" {
		c.Uploads.FormField = "audio"
	}

	if c.Reconcile.BatchSize <= 0 {
		c.Reconcile.BatchSize = 20
	}

	if c.Cleanup.MaxAge <= 0 {
		c.Cleanup.MaxAge = defaultCleanupMaxAge
	}
	if c.Cleanup.Interval <= 0 {
		c.Cleanup.Interval = defaultCleanupInterval
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 4000)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 60*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)

	// Database defaults
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.path", "./data/transcripts.db")
	viper.SetDefault("database.dsn", "")
	viper.SetDefault("database.max_connections", 10)
	viper.SetDefault("database.max_idle_connections", 5)
	viper.SetDefault("database.connection_max_lifetime", 30*time.Minute)
	viper.SetDefault("database.log_queries", false)

	// AssemblyAI defaults
	viper.SetDefault("assemblyai.api_key", "")
	viper.SetDefault("assemblyai.base_url", "https://api.assemblyai.com/v2")
	viper.SetDefault("assemblyai.language_code", "ko")
	viper.SetDefault("assemblyai.speaker_labels", true)
	viper.SetDefault("assemblyai.timeout", 60*time.Second)

	// Upload intake defaults
	viper.SetDefault("uploads.dir", "./tmp/uploads")
	viper.SetDefault("uploads.max_size", defaultMaxUpload)
	viper.SetDefault("uploads.allowed_types", []string{"audio/*", "video/*", "application/octet-stream"})
	viper.SetDefault("uploads.form_field", "audio")

	// Cleanup defaults
	viper.SetDefault("cleanup.max_age", defaultCleanupMaxAge)
	viper.SetDefault("cleanup.interval", defaultCleanupInterval)

	// Reconciler defaults
	viper.SetDefault("reconcile.enabled", false)
	viper.SetDefault("reconcile.interval", 30*time.Second)
	viper.SetDefault("reconcile.batch_size", 20)

	// Rate limiting defaults
	viper.SetDefault("rate_limiting.enabled", true)
	viper.SetDefault("rate_limiting.submit_rps", 1)
	viper.SetDefault("rate_limiting.submit_burst", 5)
	viper.SetDefault("rate_limiting.read_rps", 10)
	viper.SetDefault("rate_limiting.read_burst", 20)

	// Security defaults
	viper.SetDefault("security.cors_origins", []string{"*"})

	// Logging defaults
	viper.SetDefault("logging.level", "info")
}
