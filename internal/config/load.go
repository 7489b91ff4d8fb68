package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every configuration key when read from the environment,
// e.g. VOCAB_SERVER_PORT or VOCAB_DATABASE_URL.
const EnvPrefix = "VOCAB"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// A .env file in the working directory is loaded first if present; it never
// overrides variables that are already set.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom behaves like Load but reads the given config file instead of
// searching for config.yaml in the working directory.
func LoadFrom(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("review.sweep_interval_minutes", 30)
	v.SetDefault("review.reremind_hours", 24)
	v.SetDefault("review.concurrency", 4)
	v.SetDefault("review.max_interval_days", 30)
	v.SetDefault("quiz.prompt_timeout_seconds", 60)
	v.SetDefault("quiz.default_cards", 10)
	v.SetDefault("notifier.kind", "log")
	v.SetDefault("notifier.rate_per_sec", 5)
	v.SetDefault("notifier.queue_size", 256)
	v.SetDefault("notifier.workers", 2)
}

// bindEnvs registers keys that have no default so AutomaticEnv can find them
// during Unmarshal.
func bindEnvs(v *viper.Viper) {
	for _, key := range []string{
		"database.url",
		"auth.jwt_secret",
		"notifier.webhook_url",
		"badges.file",
		"server.allowed_origins",
	} {
		_ = v.BindEnv(key)
	}
}
