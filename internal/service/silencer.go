package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"obs-engine/internal/client/alertmanager"
	"obs-engine/internal/model"
)

// SilenceRequest describes a silence-creation action.
type SilenceRequest struct {
	AlertName       string `json:"alert_name"`
	LabelsJSON      string `json:"labels,omitempty"` // Optional JSON label object scoping the silence
	DurationMinutes int    `json:"duration_minutes"`
	Comment         string `json:"comment,omitempty"`
}

// SilenceResult is the structured outcome of a silence action. Failures are
// reported here, never raised past the boundary.
type SilenceResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Silencer creates silences on the alert backend.
//
// Silence creation is not idempotent: there is no deduplication guard, so a
// retried request creates a second, overlapping silence. Known risk; the
// response message carries the backend silence ID so callers can track
// duplicates.
type Silencer struct {
	client    *alertmanager.Client // nil when the alert backend is unconfigured
	createdBy string
	logger    zerolog.Logger
}

// NewSilencer creates a new Silencer recording createdBy as the author on
// every posted silence.
func NewSilencer(client *alertmanager.Client, createdBy string, logger zerolog.Logger) *Silencer {
	return &Silencer{
		client:    client,
		createdBy: createdBy,
		logger:    logger.With().Str("component", "silencer").Logger(),
	}
}

// Silence builds matchers from the request, posts the silence, and reports
// the outcome. POST failures surface the backend's status and error body
// verbatim in the result message; no retry is performed at this layer.
func (s *Silencer) Silence(ctx context.Context, req SilenceRequest) SilenceResult {
	if s.client == nil {
		return SilenceResult{Success: false, Message: "alert backend is not configured"}
	}

	if req.AlertName == "" {
		return SilenceResult{Success: false, Message: "alert name is required"}
	}

	if req.DurationMinutes < model.MinSilenceMinutes || req.DurationMinutes > model.MaxSilenceMinutes {
		return SilenceResult{
			Success: false,
			Message: fmt.Sprintf("duration must be between %d and %d minutes", model.MinSilenceMinutes, model.MaxSilenceMinutes),
		}
	}

	matchers := buildMatchers(req.AlertName, req.LabelsJSON, s.logger)

	now := time.Now()
	silence := &model.Silence{
		Matchers:  matchers,
		StartsAt:  now,
		EndsAt:    now.Add(time.Duration(req.DurationMinutes) * time.Minute),
		CreatedBy: s.createdBy,
		Comment:   req.Comment,
	}

	id, err := s.client.CreateSilence(ctx, silence)
	if err != nil {
		return SilenceResult{Success: false, Message: err.Error()}
	}

	return SilenceResult{
		Success: true,
		Message: fmt.Sprintf("silenced %s for %s (silence ID %s)",
			req.AlertName, model.HumanMinutes(req.DurationMinutes), id),
	}
}

// buildMatchers constructs the silence matchers. A valid label map yields
// one exact matcher per entry, targeting exactly the firing instance; a
// missing or unparseable map falls back to the broader single alertname
// matcher. Never regex.
func buildMatchers(alertName, labelsJSON string, logger zerolog.Logger) []model.Matcher {
	if labelsJSON != "" {
		labels, err := model.ParseLabelJSON(labelsJSON)
		if err == nil && len(labels) > 0 {
			matchers := make([]model.Matcher, 0, len(labels))
			for _, name := range labels.SortedKeys() {
				matchers = append(matchers, model.Matcher{Name: name, Value: labels[name]})
			}
			return matchers
		}
		if err != nil {
			logger.Debug().Err(err).Msg("label map unparseable, falling back to alertname matcher")
		}
	}

	return []model.Matcher{{Name: model.LabelAlertName, Value: alertName}}
}
