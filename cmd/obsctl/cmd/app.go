// Package cmd provides CLI commands for the observability engine.
package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"obs-engine/internal/client/alertmanager"
	"obs-engine/internal/client/loki"
	"obs-engine/internal/client/prometheus"
	"obs-engine/internal/config"
	"obs-engine/internal/service"
)

// engine bundles the configured services for a command invocation.
// Unconfigured backends leave their clients nil; every service treats that
// as a valid, silent no-op input.
type engine struct {
	cfg      *config.Config
	alerts   *service.AlertService
	summary  *service.SummaryService
	contexts *service.ContextBuilder
	silencer *service.Silencer
	logs     *service.LogService
	logger   zerolog.Logger
}

// newEngine loads configuration, sets up logging, and wires the backend
// clients into services. gaugesPath optionally overrides the built-in
// summary gauge queries.
func newEngine(gaugesPath string) (*engine, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Command line --log-level overrides config file setting
	level := cfg.Logging.Level
	if logLevel != "info" {
		level = logLevel
	}
	logger := setupLogger(level, cfg.Logging.Format)

	gauges, err := config.LoadGaugeQueries(gaugesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load gauge queries: %w", err)
	}

	retry := &cfg.HTTP.Retry

	var amClient *alertmanager.Client
	if cfg.Backends.Alertmanager.Configured() {
		amClient = alertmanager.NewClient(&cfg.Backends.Alertmanager, retry, logger)
	}

	var promClient *prometheus.Client
	if cfg.Backends.Prometheus.Configured() {
		promClient = prometheus.NewClient(&cfg.Backends.Prometheus, retry, logger)
	}

	var lokiClient *loki.Client
	if cfg.Backends.Loki.Configured() {
		lokiClient = loki.NewClient(&cfg.Backends.Loki, retry, logger)
	}

	alerts := service.NewAlertService(amClient, logger)

	return &engine{
		cfg:      cfg,
		alerts:   alerts,
		summary:  service.NewSummaryService(alerts, promClient, gauges, logger),
		contexts: service.NewContextBuilder(alerts, lokiClient, logger),
		silencer: service.NewSilencer(amClient, cfg.Silence.CreatedBy, logger),
		logs:     service.NewLogService(lokiClient, logger),
		logger:   logger,
	}, nil
}

// setupLogger creates a zerolog logger with the specified level and format.
func setupLogger(level string, format string) zerolog.Logger {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	// Select output format based on configuration
	var output io.Writer
	if format == "json" {
		// JSON format - structured logging for log aggregation systems
		output = os.Stderr
	} else {
		// Console format - human-readable output for development
		output = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05",
			NoColor:    false,
		}
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// fatal prints an error to stderr and exits.
func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

// gaugeString renders an optional gauge for terminal output.
func gaugeString(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}

// commandTimeout bounds a whole CLI invocation; individual requests carry
// their own shorter timeouts.
const commandTimeout = 60 * time.Second
