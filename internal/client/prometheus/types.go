// Package prometheus provides a client for the metrics backend API.
package prometheus

import (
	"fmt"
	"strconv"
	"time"

	"obs-engine/internal/model"
)

// QueryResponse represents the API response from the instant-query endpoint.
// This structure follows the Prometheus HTTP API specification.
type QueryResponse struct {
	Status    string    `json:"status"`    // success or error
	Data      QueryData `json:"data"`      // Query result data
	ErrorType string    `json:"errorType"` // Only present when status=error
	Error     string    `json:"error"`     // Only present when status=error
	Warnings  []string  `json:"warnings"`  // Optional warnings
}

// IsSuccess returns true if the query was successful.
func (r *QueryResponse) IsSuccess() bool {
	return r.Status == "success"
}

// QueryData contains the result data from a query.
type QueryData struct {
	ResultType string   `json:"resultType"` // vector, matrix, scalar, string
	Result     []Sample `json:"result"`     // Result samples
}

// Sample represents a single sample in an instant query result.
type Sample struct {
	Metric map[string]string `json:"metric"` // Series labels
	Value  SampleValue       `json:"value"`  // [timestamp, value]
}

// SampleValue represents a single [timestamp, value] pair. In the
// Prometheus API this is a two-element array: [unix_ts_float, "value_string"].
type SampleValue [2]interface{}

// Value returns the sample value as float64.
func (v SampleValue) Value() (float64, error) {
	if len(v) < 2 || v[1] == nil {
		return 0, fmt.Errorf("invalid sample value")
	}

	switch val := v[1].(type) {
	case string:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse value %q: %w", val, err)
		}
		return f, nil
	case float64:
		return val, nil
	default:
		return 0, fmt.Errorf("unexpected value type: %T", v[1])
	}
}

// FirstSampleValue extracts the first sample's value from a query response.
// Returns nil when the result set is empty or the value cannot be parsed,
// keeping "no data" distinguishable from a measured zero.
func FirstSampleValue(resp *QueryResponse) *float64 {
	if resp == nil || !resp.IsSuccess() || len(resp.Data.Result) == 0 {
		return nil
	}

	value, err := resp.Data.Result[0].Value.Value()
	if err != nil {
		return nil
	}
	return &value
}

// TargetsResponse represents the API response from the targets endpoint.
type TargetsResponse struct {
	Status string      `json:"status"`
	Data   TargetsData `json:"data"`
}

// TargetsData contains the active scrape targets.
type TargetsData struct {
	ActiveTargets []ActiveTarget `json:"activeTargets"`
}

// ActiveTarget represents a single scrape target as returned by the
// metrics backend.
type ActiveTarget struct {
	Labels     map[string]string `json:"labels"`
	Health     string            `json:"health"`
	LastScrape time.Time         `json:"lastScrape"`
	LastError  string            `json:"lastError"`
}

// ToScrapeTarget converts the raw target record to the ScrapeTarget model.
func (t *ActiveTarget) ToScrapeTarget() model.ScrapeTarget {
	return model.ScrapeTarget{
		Job:        t.Labels[model.LabelJob],
		Instance:   t.Labels["instance"],
		Health:     model.ParseTargetHealth(t.Health),
		LastScrape: t.LastScrape,
		LastError:  t.LastError,
	}
}
