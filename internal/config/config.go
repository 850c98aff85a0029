// Package config provides configuration management for the observability engine.
package config

import "time"

// Config is the root configuration structure for the engine.
type Config struct {
	Backends BackendsConfig `mapstructure:"backends"`
	Silence  SilenceConfig  `mapstructure:"silence"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Server   ServerConfig   `mapstructure:"server"`
	Report   ReportConfig   `mapstructure:"report"`
}

// BackendsConfig holds the three monitoring backend endpoints. Any backend
// may be left unconfigured; consumers treat that as a silent no-op input,
// not an error.
type BackendsConfig struct {
	Alertmanager BackendConfig `mapstructure:"alertmanager"`
	Prometheus   BackendConfig `mapstructure:"prometheus"`
	Loki         BackendConfig `mapstructure:"loki"`
}

// BackendConfig contains connection settings for a single backend.
// Authentication is either basic (username+password) or a bearer token.
type BackendConfig struct {
	Endpoint    string        `mapstructure:"endpoint" validate:"omitempty,url"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
	BearerToken string        `mapstructure:"bearer_token"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// Configured reports whether the backend has an endpoint set.
func (b *BackendConfig) Configured() bool {
	return b.Endpoint != ""
}

// SilenceConfig contains settings for the silence-creation workflow.
type SilenceConfig struct {
	CreatedBy string `mapstructure:"created_by"` // Author recorded on posted silences
}

// LoggingConfig contains configurations for logging.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// HTTPConfig contains HTTP client configurations including retry settings.
type HTTPConfig struct {
	Retry RetryConfig `mapstructure:"retry"`
}

// RetryConfig defines retry behavior for HTTP requests. Retries apply to
// idempotent reads only; silence creation is never retried.
type RetryConfig struct {
	MaxRetries int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	BaseDelay  time.Duration `mapstructure:"base_delay"`
}

// ServerConfig contains settings for the HTTP API server.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// ReportConfig contains settings for snapshot report export.
type ReportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}
