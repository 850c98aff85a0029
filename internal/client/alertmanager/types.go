// Package alertmanager provides a client for the alert backend API.
package alertmanager

import (
	"time"

	"obs-engine/internal/model"
)

// AlertStatus is the status block of a backend alert.
type AlertStatus struct {
	State      string   `json:"state"`      // active, silenced, suppressed
	SilencedBy []string `json:"silencedBy"` // IDs of silences covering this alert
}

// GettableAlert represents a raw alert record as returned by the alert
// backend's active-alerts endpoint.
type GettableAlert struct {
	Fingerprint  string            `json:"fingerprint"`
	Labels       map[string]string `json:"labels"`
	Annotations  map[string]string `json:"annotations"`
	StartsAt     time.Time         `json:"startsAt"`
	GeneratorURL string            `json:"generatorURL"`
	Status       AlertStatus       `json:"status"`
}

// ToAlert normalizes the raw backend record into the canonical Alert model.
// Severity and name come from the label map, state from the status block
// (defaulting to active), and the duration is recomputed against now.
func (a *GettableAlert) ToAlert(now time.Time) *model.Alert {
	labels := model.LabelSet(a.Labels)

	return &model.Alert{
		Fingerprint:  a.Fingerprint,
		Name:         labels.Get(model.LabelAlertName),
		Severity:     model.ParseSeverity(labels.Get(model.LabelSeverity)),
		State:        model.ParseState(a.Status.State),
		Summary:      a.Annotations["summary"],
		Description:  a.Annotations["description"],
		Labels:       labels,
		StartsAt:     a.StartsAt,
		Duration:     model.HumanDuration(a.StartsAt, now),
		GeneratorURL: a.GeneratorURL,
		SilencedBy:   a.Status.SilencedBy,
	}
}

// SilenceResponse is the response body of a successful silence creation.
type SilenceResponse struct {
	SilenceID string `json:"silenceID"`
}
