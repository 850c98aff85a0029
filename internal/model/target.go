// Package model provides data models for the observability engine.
package model

import "time"

// TargetHealth represents the scrape health of a metrics target.
type TargetHealth string

const (
	TargetUp      TargetHealth = "up"
	TargetDown    TargetHealth = "down"
	TargetUnknown TargetHealth = "unknown"
)

// ParseTargetHealth folds a raw health value into a known TargetHealth.
func ParseTargetHealth(raw string) TargetHealth {
	switch TargetHealth(raw) {
	case TargetUp, TargetDown:
		return TargetHealth(raw)
	}
	return TargetUnknown
}

// ScrapeTarget is an endpoint the metrics backend polls for samples.
// Transient: fetched fresh on every summary call, never cached here.
type ScrapeTarget struct {
	Job        string       `json:"job"`
	Instance   string       `json:"instance"`
	Health     TargetHealth `json:"health"`
	LastScrape time.Time    `json:"last_scrape"`
	LastError  string       `json:"last_error,omitempty"`
}

// IsHealthy reports whether the target's last scrape succeeded.
func (t *ScrapeTarget) IsHealthy() bool {
	return t.Health == TargetUp
}
