package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the complete governance engine configuration
type Config struct {
	Environment   string
	RunsDir       string // root directory holding one subdirectory per run
	PipelineFile  string // optional YAML pipeline catalog override
	SealSecret    string // optional HMAC secret for signed seal markers
	Server        ServerConfig
	RunIndex      *RunIndexConfig // optional: Postgres index of sealed runs
	Observability ObservabilityConfig
}

// ServerConfig holds the run-inspector HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// RunIndexConfig holds the optional sealed-run index database configuration.
// When ConnectionString is empty the index is disabled and sealing stays
// purely file-backed.
type RunIndexConfig struct {
	ConnectionString string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or console
}

// New creates a Config by loading environment variables. A .env file in the
// working directory is honored when present.
func New() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment:  getEnv("ENVIRONMENT", "development"),
		RunsDir:      getEnv("ACE_RUNS_DIR", "runs"),
		PipelineFile: getEnv("ACE_PIPELINE_FILE", ""),
		SealSecret:   getEnv("ACE_SEAL_SECRET", ""),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8460),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		RunIndex: loadRunIndexConfig(),
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks that required configuration fields are set
func (c *Config) Validate() error {
	if c.RunsDir == "" {
		return fmt.Errorf("runs directory is required")
	}
	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}
	if c.IsProduction() && c.SealSecret == "" {
		return fmt.Errorf("seal signing secret is required in production")
	}
	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// Address returns the inspector server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// loadRunIndexConfig reads RUN_INDEX_URL; nil disables the index
func loadRunIndexConfig() *RunIndexConfig {
	dbURL := getEnv("RUN_INDEX_URL", "")
	if dbURL == "" {
		return nil
	}
	return &RunIndexConfig{
		ConnectionString: dbURL,
		MaxOpenConns:     getEnvAsInt("RUN_INDEX_MAX_OPEN_CONNS", 10),
		MaxIdleConns:     getEnvAsInt("RUN_INDEX_MAX_IDLE_CONNS", 2),
		ConnMaxLifetime:  getEnvAsDuration("RUN_INDEX_CONN_MAX_LIFETIME", 5*time.Minute),
	}
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
