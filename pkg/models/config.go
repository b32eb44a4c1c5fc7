package models

import "time"

// Config is the root configuration structure for the action filter service.
type Config struct {
	Application ApplicationSettings `yaml:"application"`
	Filter      FilterSettings      `yaml:"filter"`
}

// ApplicationSettings holds global configuration for the process: logging,
// the HTTP listener, and daemon bookkeeping.
type ApplicationSettings struct {
	LogLevel        string   `yaml:"log_level"`        // e.g., "debug", "info", "warn", "error"
	LogFormat       string   `yaml:"log_format"`       // e.g., "text", "json"
	ListenAddress   string   `yaml:"listen_address"`   // Address for the HTTP server (e.g., ":8080")
	AuthToken       string   `yaml:"auth_token"`       // Optional bearer token required on filter/reload endpoints
	RateLimit       *float64 `yaml:"rate_limit"`       // Optional requests per second limit on the filter endpoint
	Burst           *int     `yaml:"burst"`            // Optional burst size for rate limiting (token bucket capacity)
	MaxBodyBytes    int64    `yaml:"max_body_bytes"`   // Cap on request body size; 0 uses the default
	ShutdownTimeout Duration `yaml:"shutdown_timeout"` // How long graceful shutdown may take (e.g., "30s")
	PIDFilePath     string   `yaml:"pid_file_path"`    // Path to store the process ID
}

// FilterSettings holds the business-rule windows evaluated against the
// reference time. Zero values fall back to the documented defaults
// (90-day horizon, 7-day cooldown); negative values are rejected by
// validation rather than interpreted.
type FilterSettings struct {
	HorizonDays  int `yaml:"horizon_days"`  // Keep records due within now+horizon (inclusive)
	CooldownDays int `yaml:"cooldown_days"` // Keep records last acted on strictly before now-cooldown
}

// Duration is a wrapper around time.Duration to allow parsing from YAML
// strings like "10s", "5m", "1h".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	var err error
	d.Duration, err = time.ParseDuration(s)
	return err
}
