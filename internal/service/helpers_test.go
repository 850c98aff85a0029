package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"obs-engine/internal/client/alertmanager"
	"obs-engine/internal/client/loki"
	"obs-engine/internal/client/prometheus"
	"obs-engine/internal/config"
)

// testBackendConfig builds a BackendConfig pointing at a test server with
// fast retries.
func testBackendConfig(url string) (*config.BackendConfig, *config.RetryConfig) {
	cfg := &config.BackendConfig{
		Endpoint: url,
		Timeout:  5 * time.Second,
	}
	retryCfg := &config.RetryConfig{
		MaxRetries: 0,
		BaseDelay:  time.Millisecond,
	}
	return cfg, retryCfg
}

func newTestAlertmanager(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *alertmanager.Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg, retryCfg := testBackendConfig(server.URL)
	return server, alertmanager.NewClient(cfg, retryCfg, zerolog.Nop())
}

func newTestPrometheus(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *prometheus.Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg, retryCfg := testBackendConfig(server.URL)
	return server, prometheus.NewClient(cfg, retryCfg, zerolog.Nop())
}

func newTestLoki(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *loki.Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg, retryCfg := testBackendConfig(server.URL)
	return server, loki.NewClient(cfg, retryCfg, zerolog.Nop())
}

// alertsJSON is a two-alert backend response used across service tests: one
// active critical with a service label, one silenced warning.
const alertsJSON = `[
	{
		"fingerprint": "fp-critical",
		"labels": {"alertname": "HighCPU", "severity": "critical", "service": "api"},
		"annotations": {"summary": "CPU above 90%", "description": "sustained for 10 minutes"},
		"startsAt": "2026-03-14T10:00:00Z",
		"generatorURL": "http://prometheus/graph",
		"status": {"state": "active", "silencedBy": []}
	},
	{
		"fingerprint": "fp-warning",
		"labels": {"alertname": "DiskFull", "severity": "warning"},
		"annotations": {},
		"startsAt": "2026-03-14T11:00:00Z",
		"status": {"state": "silenced", "silencedBy": ["sil-1"]}
	}
]`

func serveAlerts(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}
