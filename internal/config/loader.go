package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/JohnBasrai/aws-lambda-action-filter/pkg/models"
)

// LoadConfig reads a YAML configuration file from the given path,
// unmarshals it into a models.Config struct, validates it, and returns it.
func LoadConfig(configPath string) (*models.Config, error) {
	// Read the configuration file content
	yamlFile, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	// Unmarshal the YAML content into the struct
	var config models.Config
	if err := yaml.Unmarshal(yamlFile, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file '%s': %w", configPath, err)
	}

	// Validate the loaded configuration
	if err := ValidateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// Default returns the configuration used when no config file is given:
// info-level text logging and the built-in filter windows. Zero-valued
// filter day counts are resolved to the defaults by the pipeline itself.
func Default() *models.Config {
	return &models.Config{
		Application: models.ApplicationSettings{
			LogLevel:      "info",
			LogFormat:     "text",
			ListenAddress: ":8080",
			MaxBodyBytes:  1 << 20,
		},
	}
}
