package service

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"obs-engine/internal/client/prometheus"
	"obs-engine/internal/config"
	"obs-engine/internal/model"
)

// SummaryService produces the consolidated cross-backend health summary.
type SummaryService struct {
	alerts *AlertService      // alert counts
	prom   *prometheus.Client // targets and gauges; nil when unconfigured
	gauges *config.GaugeQueries
	logger zerolog.Logger
}

// NewSummaryService creates a new SummaryService. Nil gauge queries fall
// back to the built-in defaults.
func NewSummaryService(
	alerts *AlertService,
	prom *prometheus.Client,
	gauges *config.GaugeQueries,
	logger zerolog.Logger,
) *SummaryService {
	if gauges == nil {
		gauges = config.DefaultGaugeQueries()
	}
	return &SummaryService{
		alerts: alerts,
		prom:   prom,
		gauges: gauges,
		logger: logger.With().Str("component", "summary-service").Logger(),
	}
}

// Summarize issues five concurrent requests (alert list, target list, and
// three scalar gauge queries) and reduces whatever settled successfully into
// a HealthSummary. It never returns an error: every request failure is
// logged and degrades only its own fields, so one backend's failure cannot
// blank out data available from the others. With no backend configured at
// all it returns the zero summary immediately; that is an expected steady
// state and is not logged.
func (s *SummaryService) Summarize(ctx context.Context) model.HealthSummary {
	var summary model.HealthSummary

	if !s.alerts.Configured() && s.prom == nil {
		return summary
	}

	var (
		alerts  []*model.Alert
		targets []model.ScrapeTarget
		storage *float64
		ingest  *float64
		series  *float64
	)

	// Settle-all fan-out: every task swallows its own failure and returns
	// nil, so no single failure cancels the rest of the group.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		alerts = s.alerts.List(gctx)
		return nil
	})

	g.Go(func() error {
		if s.prom == nil {
			return nil
		}
		t, err := s.prom.Targets(gctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("target list failed, omitting target counts")
			return nil
		}
		targets = t
		return nil
	})

	gaugeTasks := []struct {
		name  string
		query string
		dest  **float64
	}{
		{"storage_bytes", s.gauges.StorageBytes, &storage},
		{"ingestion_rate", s.gauges.IngestionRate, &ingest},
		{"active_series", s.gauges.ActiveSeries, &series},
	}
	for _, task := range gaugeTasks {
		task := task
		g.Go(func() error {
			if s.prom == nil {
				return nil
			}
			v, err := s.prom.QueryScalar(gctx, task.query)
			if err != nil {
				s.logger.Error().
					Err(err).
					Str("gauge", task.name).
					Msg("gauge query failed, omitting gauge")
				return nil
			}
			*task.dest = v
			return nil
		})
	}

	_ = g.Wait() // tasks never return errors

	for _, alert := range alerts {
		if !alert.IsActive() {
			continue
		}
		summary.AlertCount++
		switch alert.Severity {
		case model.SeverityCritical:
			summary.CriticalCount++
		case model.SeverityWarning:
			summary.WarningCount++
		}
	}

	summary.TotalTargets = len(targets)
	for i := range targets {
		if targets[i].IsHealthy() {
			summary.HealthyTargets++
		}
	}

	summary.StorageBytes = storage
	summary.IngestionRate = ingest
	summary.ActiveSeries = series
	summary.ComputeAllHealthy()

	s.logger.Debug().
		Int("alert_count", summary.AlertCount).
		Int("critical_count", summary.CriticalCount).
		Int("healthy_targets", summary.HealthyTargets).
		Int("total_targets", summary.TotalTargets).
		Bool("all_healthy", summary.AllHealthy).
		Msg("health summary computed")

	return summary
}
