// Package config provides configuration management for the observability engine.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load reads configuration from the specified YAML file and environment
// variables. Environment variables take precedence over file values.
// Environment variable format: OBS_<SECTION>_<KEY>
// (e.g., OBS_BACKENDS_ALERTMANAGER_ENDPOINT)
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults first
	setDefaults(v)

	// Configure environment variable binding
	v.SetEnvPrefix("OBS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath == "" {
		return nil, fmt.Errorf("config file path is required")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values for all configuration options.
func setDefaults(v *viper.Viper) {
	// Backend defaults. No endpoints by default: an unconfigured backend is
	// a valid steady state, not an error.
	v.SetDefault("backends.alertmanager.timeout", 10*time.Second)
	v.SetDefault("backends.prometheus.timeout", 10*time.Second)
	v.SetDefault("backends.loki.timeout", 10*time.Second)

	// Silence defaults
	v.SetDefault("silence.created_by", "obs-engine")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// HTTP retry defaults
	v.SetDefault("http.retry.max_retries", 3)
	v.SetDefault("http.retry.base_delay", 1*time.Second)

	// Server defaults
	v.SetDefault("server.addr", ":8080")

	// Report defaults
	v.SetDefault("report.output_dir", "./reports")
}
