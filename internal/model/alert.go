// Package model provides data models for the observability engine.
package model

import (
	"fmt"
	"time"
)

// Severity represents the severity level of an alert.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
	SeverityUnknown  Severity = "unknown"
)

// ParseSeverity folds a raw severity label value into a known Severity.
// Anything unrecognized (including absence) maps to SeverityUnknown.
func ParseSeverity(raw string) Severity {
	switch Severity(raw) {
	case SeverityCritical, SeverityWarning, SeverityInfo:
		return Severity(raw)
	}
	return SeverityUnknown
}

// AlertState represents the lifecycle state of an alert as reported
// by the alert backend.
type AlertState string

const (
	StateActive     AlertState = "active"
	StateSilenced   AlertState = "silenced"
	StateSuppressed AlertState = "suppressed"
)

// ParseState folds a raw status state into a known AlertState.
// An absent or unrecognized state defaults to StateActive.
func ParseState(raw string) AlertState {
	switch AlertState(raw) {
	case StateSilenced, StateSuppressed:
		return AlertState(raw)
	}
	return StateActive
}

// Alert is the normalized view of a backend alert. It is constructed fresh
// on every normalization call and never mutated in place; the fingerprint is
// the backend-assigned identity key.
type Alert struct {
	Fingerprint  string     `json:"fingerprint"`
	Name         string     `json:"name"`
	Severity     Severity   `json:"severity"`
	State        AlertState `json:"state"`
	Summary      string     `json:"summary,omitempty"`
	Description  string     `json:"description,omitempty"`
	Labels       LabelSet   `json:"labels,omitempty"`
	StartsAt     time.Time  `json:"starts_at"`
	Duration     string     `json:"duration"` // Recomputed on every read, never stored
	GeneratorURL string     `json:"generator_url,omitempty"`
	SilencedBy   []string   `json:"silenced_by,omitempty"`
}

// IsActive reports whether the alert is currently firing (not silenced
// or suppressed).
func (a *Alert) IsActive() bool {
	return a.State == StateActive
}

// LogScope returns the label value used to scope log correlation queries,
// preferring service over job. The second return is the label name used,
// empty when the alert carries neither.
func (a *Alert) LogScope() (value, label string) {
	if a.Labels.Has(LabelService) {
		return a.Labels.Get(LabelService), LabelService
	}
	if a.Labels.Has(LabelJob) {
		return a.Labels.Get(LabelJob), LabelJob
	}
	return "", ""
}

// HumanDuration renders the elapsed time between startsAt and now as a
// compact human-readable string. All components truncate (floor), never
// round: under a minute "just now", under an hour "{m}m", under a day "{h}h"
// with a "{m}m" remainder when non-zero, otherwise "{d}d {h}h".
func HumanDuration(startsAt, now time.Time) string {
	elapsed := now.Sub(startsAt)
	if elapsed < time.Minute {
		return "just now"
	}

	minutes := int(elapsed.Minutes())
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}

	hours := minutes / 60
	if hours < 24 {
		if rem := minutes % 60; rem > 0 {
			return fmt.Sprintf("%dh %dm", hours, rem)
		}
		return fmt.Sprintf("%dh", hours)
	}

	days := hours / 24
	return fmt.Sprintf("%dd %dh", days, hours%24)
}
