package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"obs-engine/internal/config"
)

const targetsJSON = `{
	"status": "success",
	"data": {
		"activeTargets": [
			{"labels": {"job": "node", "instance": "host1:9100"}, "health": "up", "lastScrape": "2026-03-14T12:00:00Z", "lastError": ""},
			{"labels": {"job": "node", "instance": "host2:9100"}, "health": "up", "lastScrape": "2026-03-14T12:00:00Z", "lastError": ""},
			{"labels": {"job": "api", "instance": "host3:8080"}, "health": "down", "lastScrape": "2026-03-14T12:00:00Z", "lastError": "connection refused"}
		]
	}
}`

// promHandler serves targets and gauge queries; gauge behavior is pluggable
// so tests can fail individual requests.
func promHandler(gauges func(w http.ResponseWriter, query string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/targets":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(targetsJSON))
		case "/api/v1/query":
			gauges(w, r.URL.Query().Get("query"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func scalarResponse(value string) string {
	return `{"status": "success", "data": {"resultType": "vector", "result": [{"metric": {}, "value": [1770000000, "` + value + `"]}]}}`
}

func TestSummarizeAllBackendsHealthy(t *testing.T) {
	_, amClient := newTestAlertmanager(t, serveAlerts(alertsJSON))
	_, promClient := newTestPrometheus(t, promHandler(func(w http.ResponseWriter, query string) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(scalarResponse("42.5")))
	}))

	alerts := NewAlertService(amClient, zerolog.Nop())
	svc := NewSummaryService(alerts, promClient, nil, zerolog.Nop())

	summary := svc.Summarize(context.Background())

	// Silenced warning is excluded from active counts
	assert.Equal(t, 1, summary.AlertCount)
	assert.Equal(t, 1, summary.CriticalCount)
	assert.Equal(t, 0, summary.WarningCount)

	assert.Equal(t, 3, summary.TotalTargets)
	assert.Equal(t, 2, summary.HealthyTargets)
	assert.False(t, summary.AllHealthy)

	if assert.NotNil(t, summary.StorageBytes) {
		assert.Equal(t, 42.5, *summary.StorageBytes)
	}
	assert.NotNil(t, summary.IngestionRate)
	assert.NotNil(t, summary.ActiveSeries)
}

func TestSummarizeGaugeFailuresDoNotBlankCounts(t *testing.T) {
	_, amClient := newTestAlertmanager(t, serveAlerts(alertsJSON))
	_, promClient := newTestPrometheus(t, promHandler(func(w http.ResponseWriter, query string) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	alerts := NewAlertService(amClient, zerolog.Nop())
	svc := NewSummaryService(alerts, promClient, nil, zerolog.Nop())

	summary := svc.Summarize(context.Background())

	// Alert and target counts settle despite all three gauge queries failing
	assert.Equal(t, 1, summary.AlertCount)
	assert.Equal(t, 3, summary.TotalTargets)
	assert.Equal(t, 2, summary.HealthyTargets)

	// Failed gauges are "no data", not zero
	assert.Nil(t, summary.StorageBytes)
	assert.Nil(t, summary.IngestionRate)
	assert.Nil(t, summary.ActiveSeries)
}

func TestSummarizeSingleGaugeFails(t *testing.T) {
	queries := config.DefaultGaugeQueries()

	_, amClient := newTestAlertmanager(t, serveAlerts(`[]`))
	_, promClient := newTestPrometheus(t, promHandler(func(w http.ResponseWriter, query string) {
		if query == queries.IngestionRate {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(scalarResponse("7")))
	}))

	alerts := NewAlertService(amClient, zerolog.Nop())
	svc := NewSummaryService(alerts, promClient, queries, zerolog.Nop())

	summary := svc.Summarize(context.Background())

	assert.NotNil(t, summary.StorageBytes)
	assert.Nil(t, summary.IngestionRate)
	assert.NotNil(t, summary.ActiveSeries)
}

func TestSummarizeAlertBackendDown(t *testing.T) {
	_, amClient := newTestAlertmanager(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, promClient := newTestPrometheus(t, promHandler(func(w http.ResponseWriter, query string) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(scalarResponse("1")))
	}))

	alerts := NewAlertService(amClient, zerolog.Nop())
	svc := NewSummaryService(alerts, promClient, nil, zerolog.Nop())

	summary := svc.Summarize(context.Background())

	// Alert counts degrade to zero; target data is untouched
	assert.Equal(t, 0, summary.AlertCount)
	assert.Equal(t, 3, summary.TotalTargets)
}

func TestSummarizeNoBackends(t *testing.T) {
	alerts := NewAlertService(nil, zerolog.Nop())
	svc := NewSummaryService(alerts, nil, nil, zerolog.Nop())

	summary := svc.Summarize(context.Background())

	assert.Equal(t, 0, summary.AlertCount)
	assert.Equal(t, 0, summary.TotalTargets)
	assert.Nil(t, summary.StorageBytes)
	assert.False(t, summary.AllHealthy)
}

func TestSummarizeAllHealthy(t *testing.T) {
	allUp := `{
		"status": "success",
		"data": {
			"activeTargets": [
				{"labels": {"job": "node", "instance": "host1:9100"}, "health": "up", "lastScrape": "2026-03-14T12:00:00Z", "lastError": ""}
			]
		}
	}`

	_, amClient := newTestAlertmanager(t, serveAlerts(`[]`))
	_, promClient := newTestPrometheus(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/api/v1/targets" {
			w.Write([]byte(allUp))
			return
		}
		w.Write([]byte(scalarResponse("1")))
	})

	alerts := NewAlertService(amClient, zerolog.Nop())
	svc := NewSummaryService(alerts, promClient, nil, zerolog.Nop())

	summary := svc.Summarize(context.Background())

	assert.True(t, summary.AllHealthy)
}
