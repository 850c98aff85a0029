// Package service provides the aggregation and correlation services of the
// observability engine. Every service is a stateless read/compute layer over
// the backend clients: results are a pure function of the most recent
// backend responses, and nothing is cached here.
package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"obs-engine/internal/client/alertmanager"
	"obs-engine/internal/model"
)

// AlertService fetches and normalizes alerts from the alert backend.
type AlertService struct {
	client *alertmanager.Client // nil when the alert backend is unconfigured
	logger zerolog.Logger
}

// NewAlertService creates a new AlertService. A nil client is valid and
// makes every operation a silent no-op.
func NewAlertService(client *alertmanager.Client, logger zerolog.Logger) *AlertService {
	return &AlertService{
		client: client,
		logger: logger.With().Str("component", "alert-service").Logger(),
	}
}

// Configured reports whether an alert backend client is present.
func (s *AlertService) Configured() bool {
	return s != nil && s.client != nil
}

// List fetches and normalizes the current alert set. A fetch failure is
// logged at error level and degrades to an empty list; an unconfigured
// backend returns an empty list without logging.
func (s *AlertService) List(ctx context.Context) []*model.Alert {
	if !s.Configured() {
		return nil
	}

	raw, err := s.client.FetchAlerts(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("alert list fetch failed, returning empty list")
		return nil
	}

	now := time.Now()
	alerts := make([]*model.Alert, 0, len(raw))
	for i := range raw {
		alerts = append(alerts, raw[i].ToAlert(now))
	}
	return alerts
}

// Get returns the normalized alert with the given fingerprint, or nil when
// it is absent from the current backend alert set or the fetch fails.
func (s *AlertService) Get(ctx context.Context, fingerprint string) *model.Alert {
	if !s.Configured() {
		return nil
	}

	raw, err := s.client.FetchAlerts(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("fingerprint", fingerprint).
			Msg("alert fetch failed")
		return nil
	}

	now := time.Now()
	for i := range raw {
		if raw[i].Fingerprint == fingerprint {
			return raw[i].ToAlert(now)
		}
	}
	return nil
}
