// Package config provides configuration management for the observability engine.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GaugeQueries holds the three instant PromQL queries evaluated during a
// health summary. Each one yields a single scalar sample; an empty or failed
// result leaves the corresponding summary field unset rather than zero.
type GaugeQueries struct {
	StorageBytes  string `yaml:"storage_bytes"`
	IngestionRate string `yaml:"ingestion_rate"`
	ActiveSeries  string `yaml:"active_series"`
}

// DefaultGaugeQueries returns the built-in gauge queries, targeting the
// metrics backend's own TSDB metrics.
func DefaultGaugeQueries() *GaugeQueries {
	return &GaugeQueries{
		StorageBytes:  "prometheus_tsdb_storage_blocks_bytes",
		IngestionRate: "rate(prometheus_tsdb_head_samples_appended_total[5m])",
		ActiveSeries:  "prometheus_tsdb_head_series",
	}
}

// LoadGaugeQueries reads gauge query definitions from the specified YAML
// file. An empty path returns the defaults; fields left empty in the file
// fall back to their default query.
func LoadGaugeQueries(path string) (*GaugeQueries, error) {
	if path == "" {
		return DefaultGaugeQueries(), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("gauge queries file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read gauge queries file: %w", err)
	}

	var queries GaugeQueries
	if err := yaml.Unmarshal(data, &queries); err != nil {
		return nil, fmt.Errorf("failed to parse gauge queries file: %w", err)
	}

	defaults := DefaultGaugeQueries()
	if queries.StorageBytes == "" {
		queries.StorageBytes = defaults.StorageBytes
	}
	if queries.IngestionRate == "" {
		queries.IngestionRate = defaults.IngestionRate
	}
	if queries.ActiveSeries == "" {
		queries.ActiveSeries = defaults.ActiveSeries
	}

	return &queries, nil
}
