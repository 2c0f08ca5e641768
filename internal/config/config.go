package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Store     StoreConfig     `mapstructure:"store" validate:"required"`
	Worker    WorkerConfig    `mapstructure:"worker" validate:"required"`
	Extractor ExtractorConfig `mapstructure:"extractor" validate:"required"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// Mode switches dev-only behavior such as the identity fallback.
	Mode        string   `mapstructure:"mode" validate:"required,oneof=development production"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// IsDevelopment reports whether the server runs in development mode.
func (c ServerConfig) IsDevelopment() bool {
	return c.Mode == "development"
}

// StoreConfig contains persistence settings.
type StoreConfig struct {
	// DataDir is the directory holding the JSON document file.
	DataDir string `mapstructure:"data_dir" validate:"required"`
}

// WorkerConfig contains job queue and worker loop settings.
type WorkerConfig struct {
	Interval    time.Duration `mapstructure:"interval" validate:"required,gt=0"`
	MaxJobs     int           `mapstructure:"max_jobs" validate:"required,gt=0"`
	MaxAttempts int           `mapstructure:"max_attempts" validate:"required,gt=0"`
	// LockTTL is how long a processing job may hold its lock before it
	// is considered abandoned and eligible for reclaim. Zero disables
	// reclaim.
	LockTTL time.Duration `mapstructure:"lock_ttl" validate:"gte=0"`
}

// ExtractorConfig contains extraction provider settings.
type ExtractorConfig struct {
	Provider     string `mapstructure:"provider" validate:"required,oneof=rules gemini"`
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required_if=Provider gemini"`
	GeminiModel  string `mapstructure:"gemini_model"`
}
