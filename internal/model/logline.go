// Package model provides data models for the observability engine.
package model

import "time"

// LogTimestampFormat is the fixed-width UTC timestamp layout applied to
// every log line. Fixed width keeps lexicographic string comparison
// equivalent to chronological comparison, which the log tail sort relies on.
const LogTimestampFormat = "2006-01-02T15:04:05.000000000Z"

// LogLine is a single parsed log entry from the log backend. Produced per
// query call and never cached.
type LogLine struct {
	Timestamp string   `json:"timestamp"` // Fixed-width UTC (LogTimestampFormat)
	Service   string   `json:"service,omitempty"`
	Level     string   `json:"level,omitempty"`
	Message   string   `json:"message"`
	Labels    LabelSet `json:"labels,omitempty"` // Raw stream labels
}

// FormatLogTimestamp renders t in the fixed-width UTC layout.
func FormatLogTimestamp(t time.Time) string {
	return t.UTC().Format(LogTimestampFormat)
}
