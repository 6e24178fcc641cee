package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/paypulse/paypulse/pkg/observability"
	"github.com/paypulse/paypulse/pkg/storage"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Storage configuration
	Storage storage.Config

	// Billing configuration
	Billing BillingConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	// Health/metrics server (separate port for k8s probes)
	HealthPort string
}

// BillingConfig holds billing scheduler configuration
type BillingConfig struct {
	// SweepSchedule is a cron expression for the automatic payment sweep.
	// A sweep also runs once immediately at startup.
	SweepSchedule string

	// SeedDemo seeds new users with the starter membership set.
	SeedDemo bool
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Storage:       loadStorageConfig(),
		Billing:       loadBillingConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig loads server configuration from environment
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("PAYPULSE_HOST", "0.0.0.0"),
		Port:            getEnv("PAYPULSE_PORT", "3001"),
		ReadTimeout:     getEnvDuration("PAYPULSE_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("PAYPULSE_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("PAYPULSE_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("PAYPULSE_SHUTDOWN_TIMEOUT", 30*time.Second),
		CORSOrigins:     strings.Split(getEnv("PAYPULSE_CORS_ORIGINS", "*"), ","),
		HealthPort:      getEnv("PAYPULSE_HEALTH_PORT", "9090"),
	}
}

// loadStorageConfig loads storage configuration from environment
func loadStorageConfig() storage.Config {
	cfg := storage.DefaultConfig()
	if dataDir := getEnv("PAYPULSE_DATA_DIR", ""); dataDir != "" {
		cfg.DataDir = dataDir
	}
	return cfg
}

// loadBillingConfig loads billing configuration from environment
func loadBillingConfig() BillingConfig {
	return BillingConfig{
		SweepSchedule: getEnv("PAYPULSE_SWEEP_SCHEDULE", "@hourly"),
		SeedDemo:      getEnvBool("PAYPULSE_SEED_DEMO", false),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       parseLogLevel(getEnv("PAYPULSE_LOG_LEVEL", "info")),
		MetricsEnabled: getEnvBool("PAYPULSE_METRICS_ENABLED", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}
	if c.Storage.DataDir == "" {
		return fmt.Errorf("data directory is required")
	}
	if c.Billing.SweepSchedule == "" {
		return fmt.Errorf("sweep schedule is required")
	}
	return nil
}

// parseLogLevel parses a log level string
func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
