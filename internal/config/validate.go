package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/JohnBasrai/aws-lambda-action-filter/pkg/models"
)

// ValidateConfig checks the entire configuration for logical consistency and
// required fields. It is called on initial load and again on every reload,
// so a bad edit to the config file never replaces a good running config.
func ValidateConfig(cfg *models.Config) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}

	if err := validateApplicationSettings(&cfg.Application); err != nil {
		return fmt.Errorf("invalid application settings: %w", err)
	}

	if err := validateFilterSettings(&cfg.Filter); err != nil {
		return fmt.Errorf("invalid filter settings: %w", err)
	}

	return nil
}

func validateApplicationSettings(app *models.ApplicationSettings) error {
	if app.LogLevel != "" {
		level := strings.ToLower(app.LogLevel)
		if level != "debug" && level != "info" && level != "warn" && level != "error" {
			return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", app.LogLevel)
		}
	}
	if app.LogFormat != "" {
		format := strings.ToLower(app.LogFormat)
		if format != "text" && format != "json" {
			return fmt.Errorf("invalid log_format: %s (must be text or json)", app.LogFormat)
		}
	}
	if app.ListenAddress != "" {
		if _, _, err := net.SplitHostPort(app.ListenAddress); err != nil {
			return fmt.Errorf("invalid listen_address '%s': %w", app.ListenAddress, err)
		}
	}
	if app.RateLimit != nil && *app.RateLimit <= 0 {
		return fmt.Errorf("rate_limit must be positive if set")
	}
	if app.Burst != nil && *app.Burst <= 0 {
		return fmt.Errorf("burst must be positive if set")
	}
	if app.RateLimit == nil && app.Burst != nil {
		return fmt.Errorf("burst cannot be set without rate_limit")
	}
	if app.MaxBodyBytes < 0 {
		return fmt.Errorf("max_body_bytes cannot be negative: %d", app.MaxBodyBytes)
	}
	if app.ShutdownTimeout.Duration < 0 {
		return fmt.Errorf("shutdown_timeout cannot be negative: %s", app.ShutdownTimeout.Duration)
	}
	// PIDFilePath validity depends on runtime permissions; leave it to the
	// daemon to report a useful error when it tries to write the file.
	return nil
}

func validateFilterSettings(filter *models.FilterSettings) error {
	// Zero means "use the built-in default"; only explicit negatives are
	// configuration mistakes.
	if filter.HorizonDays < 0 {
		return fmt.Errorf("horizon_days cannot be negative: %d", filter.HorizonDays)
	}
	if filter.CooldownDays < 0 {
		return fmt.Errorf("cooldown_days cannot be negative: %d", filter.CooldownDays)
	}
	return nil
}
