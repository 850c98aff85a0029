// Package model provides data models for the observability engine.
package model

// HealthSummary is the consolidated cross-backend health view. The three
// gauge fields are pointers so that "no data" (backend down, empty result)
// stays distinguishable from a measured zero.
type HealthSummary struct {
	AlertCount     int `json:"alert_count"`     // Active alerts
	CriticalCount  int `json:"critical_count"`  // Active alerts with critical severity
	WarningCount   int `json:"warning_count"`   // Active alerts with warning severity
	HealthyTargets int `json:"healthy_targets"` // Targets with health == up
	TotalTargets   int `json:"total_targets"`

	AllHealthy bool `json:"all_healthy"`

	StorageBytes  *float64 `json:"storage_bytes,omitempty"`
	IngestionRate *float64 `json:"ingestion_rate,omitempty"`
	ActiveSeries  *float64 `json:"active_series,omitempty"`
}

// ComputeAllHealthy derives the AllHealthy flag: every known target up and no
// critical alerts firing. Zero targets is never considered healthy.
func (s *HealthSummary) ComputeAllHealthy() {
	s.AllHealthy = s.TotalTargets > 0 &&
		s.HealthyTargets == s.TotalTargets &&
		s.CriticalCount == 0
}
