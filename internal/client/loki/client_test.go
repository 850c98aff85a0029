package loki

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"obs-engine/internal/config"
)

// setupTestServer creates a test server and log backend client for testing.
func setupTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	cfg := &config.BackendConfig{
		Endpoint: server.URL,
		Timeout:  5 * time.Second,
	}
	retryCfg := &config.RetryConfig{
		MaxRetries: 2,
		BaseDelay:  10 * time.Millisecond,
	}
	client := NewClient(cfg, retryCfg, zerolog.Nop())
	return server, client
}

func TestQueryRange(t *testing.T) {
	start := time.Date(2026, 3, 14, 11, 45, 0, 0, time.UTC)
	end := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	server, client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/loki/api/v1/query_range" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if got := q.Get("query"); got != `{service="api"} | level=~"error|fatal"` {
			t.Errorf("unexpected query param: %q", got)
		}
		if got := q.Get("start"); got != strconv.FormatInt(start.UnixNano(), 10) {
			t.Errorf("unexpected start param: %q", got)
		}
		if got := q.Get("end"); got != strconv.FormatInt(end.UnixNano(), 10) {
			t.Errorf("unexpected end param: %q", got)
		}
		if got := q.Get("limit"); got != "5" {
			t.Errorf("unexpected limit param: %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "success",
			"data": {
				"resultType": "streams",
				"result": [
					{
						"stream": {"service": "api", "level": "error"},
						"values": [
							["1770000000000000000", "connection reset by peer"],
							["1770000001000000000", "{\"msg\": \"request failed\", \"level\": \"error\"}"]
						]
					}
				]
			}
		}`))
	})
	defer server.Close()

	resp, err := client.QueryRange(context.Background(), `{service="api"} | level=~"error|fatal"`, start, end, 5)
	if err != nil {
		t.Fatalf("QueryRange failed: %v", err)
	}
	if len(resp.Data.Result) != 1 {
		t.Fatalf("expected 1 stream, got %d", len(resp.Data.Result))
	}

	stream := resp.Data.Result[0]
	if stream.Stream["service"] != "api" {
		t.Errorf("unexpected stream labels: %v", stream.Stream)
	}
	if len(stream.Values) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(stream.Values))
	}
	if stream.Values[0].Line() != "connection reset by peer" {
		t.Errorf("unexpected line: %q", stream.Values[0].Line())
	}
	want := time.Unix(0, 1770000000000000000)
	if !stream.Values[0].Timestamp().Equal(want) {
		t.Errorf("expected timestamp %v, got %v", want, stream.Values[0].Timestamp())
	}
}

func TestQueryRangeBackendFailure(t *testing.T) {
	server, client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "error"}`))
	})
	defer server.Close()

	_, err := client.QueryRange(context.Background(), `{service="api"}`, time.Now().Add(-time.Hour), time.Now(), 100)
	if err == nil {
		t.Fatal("expected error on status=error response")
	}
}

func TestQueryRangeServerError(t *testing.T) {
	server, client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal error"))
	})
	defer server.Close()

	_, err := client.QueryRange(context.Background(), `{service="api"}`, time.Now().Add(-time.Hour), time.Now(), 100)
	if err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestLabelValues(t *testing.T) {
	server, client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/loki/api/v1/label/service/values" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "success", "data": ["api", "worker", "gateway"]}`))
	})
	defer server.Close()

	values, err := client.LabelValues(context.Background(), "service")
	if err != nil {
		t.Fatalf("LabelValues failed: %v", err)
	}
	if len(values) != 3 {
		t.Fatalf("expected 3 values, got %d", len(values))
	}
	if values[0] != "api" {
		t.Errorf("unexpected first value: %s", values[0])
	}
}

func TestEntryMalformedTimestamp(t *testing.T) {
	entry := Entry{"not-a-number", "some line"}
	if !entry.Timestamp().IsZero() {
		t.Errorf("malformed nanosecond string should yield zero time, got %v", entry.Timestamp())
	}
}
