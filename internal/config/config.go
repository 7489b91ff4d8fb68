package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Review   ReviewConfig   `mapstructure:"review"   validate:"required"`
	Quiz     QuizConfig     `mapstructure:"quiz"     validate:"required"`
	Notifier NotifierConfig `mapstructure:"notifier" validate:"required"`
	Badges   BadgesConfig   `mapstructure:"badges"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// AllowedOrigins is passed to the CORS middleware. Empty disables cross-origin access.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig selects and addresses the user store backend.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite memory"`
	// URL is a postgres connection string or a sqlite file path / DSN.
	// Not used by the memory driver.
	URL string `mapstructure:"url" validate:"required_unless=Driver memory"`
}

// AuthConfig contains all authentication settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// ReviewConfig controls the periodic due-card sweep and the scheduler bounds.
type ReviewConfig struct {
	SweepIntervalMinutes int `mapstructure:"sweep_interval_minutes" validate:"required,gt=0"`
	ReremindHours        int `mapstructure:"reremind_hours"         validate:"required,gt=0"`
	// Concurrency bounds how many users are swept in parallel.
	Concurrency     int `mapstructure:"concurrency"       validate:"required,gt=0,lte=64"`
	MaxIntervalDays int `mapstructure:"max_interval_days" validate:"required,gte=1,lte=365"`
}

// SweepInterval returns the sweep period as a duration.
func (c ReviewConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMinutes) * time.Minute
}

// ReremindAfter returns how long a flagged card waits before it is reminded again.
func (c ReviewConfig) ReremindAfter() time.Duration {
	return time.Duration(c.ReremindHours) * time.Hour
}

// QuizConfig controls interactive quiz sessions.
type QuizConfig struct {
	PromptTimeoutSeconds int `mapstructure:"prompt_timeout_seconds" validate:"required,gt=0"`
	DefaultCards         int `mapstructure:"default_cards"          validate:"required,gt=0,lte=100"`
}

// PromptTimeout returns the per-prompt wait as a duration.
func (c QuizConfig) PromptTimeout() time.Duration {
	return time.Duration(c.PromptTimeoutSeconds) * time.Second
}

// NotifierConfig selects how reminder batches leave the process.
type NotifierConfig struct {
	Kind       string  `mapstructure:"kind"        validate:"required,oneof=log webhook"`
	WebhookURL string  `mapstructure:"webhook_url" validate:"required_if=Kind webhook,omitempty,url"`
	RatePerSec float64 `mapstructure:"rate_per_sec" validate:"gte=0"`
	QueueSize  int     `mapstructure:"queue_size"  validate:"required,gt=0"`
	Workers    int     `mapstructure:"workers"     validate:"required,gt=0"`
}

// BadgesConfig points at the badge definition file. Empty means no badges.
type BadgesConfig struct {
	File string `mapstructure:"file"`
}
