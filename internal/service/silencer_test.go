package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"obs-engine/internal/model"
)

func TestSilenceUnconfigured(t *testing.T) {
	silencer := NewSilencer(nil, "obs-engine", zerolog.Nop())

	result := silencer.Silence(context.Background(), SilenceRequest{
		AlertName:       "HighCPU",
		DurationMinutes: 60,
	})

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "not configured")
}

func TestSilenceValidation(t *testing.T) {
	_, client := newTestAlertmanager(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach the backend")
	})
	silencer := NewSilencer(client, "obs-engine", zerolog.Nop())

	tests := []struct {
		name string
		req  SilenceRequest
		want string
	}{
		{"missing name", SilenceRequest{DurationMinutes: 60}, "alert name is required"},
		{"zero duration", SilenceRequest{AlertName: "HighCPU"}, "duration must be between"},
		{"negative duration", SilenceRequest{AlertName: "HighCPU", DurationMinutes: -5}, "duration must be between"},
		{"over one week", SilenceRequest{AlertName: "HighCPU", DurationMinutes: 10081}, "duration must be between"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := silencer.Silence(context.Background(), tt.req)
			assert.False(t, result.Success)
			assert.Contains(t, result.Message, tt.want)
		})
	}
}

func TestSilenceWithLabelMap(t *testing.T) {
	var posted model.Silence
	_, client := newTestAlertmanager(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"silenceID": "sil-42"}`))
	})
	silencer := NewSilencer(client, "oncall-bot", zerolog.Nop())

	result := silencer.Silence(context.Background(), SilenceRequest{
		AlertName:       "HighCPU",
		LabelsJSON:      `{"instance": "host1:9100", "alertname": "HighCPU"}`,
		DurationMinutes: 240,
		Comment:         "planned maintenance",
	})

	require.True(t, result.Success, result.Message)
	assert.Equal(t, "silenced HighCPU for 4h (silence ID sil-42)", result.Message)

	// One exact matcher per label entry, sorted by name, never regex
	require.Len(t, posted.Matchers, 2)
	assert.Equal(t, model.Matcher{Name: "alertname", Value: "HighCPU"}, posted.Matchers[0])
	assert.Equal(t, model.Matcher{Name: "instance", Value: "host1:9100"}, posted.Matchers[1])

	assert.Equal(t, "oncall-bot", posted.CreatedBy)
	assert.Equal(t, "planned maintenance", posted.Comment)
	assert.WithinDuration(t, posted.StartsAt.Add(240*time.Minute), posted.EndsAt, time.Second)
}

func TestSilenceFallbackMatcher(t *testing.T) {
	tests := []struct {
		name       string
		labelsJSON string
	}{
		{"no labels", ""},
		{"unparseable labels", `{"count": 3}`},
		{"not an object", `["a"]`},
		{"empty object", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var posted model.Silence
			_, client := newTestAlertmanager(t, func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
				w.Write([]byte(`{"silenceID": "sil-1"}`))
			})
			silencer := NewSilencer(client, "obs-engine", zerolog.Nop())

			result := silencer.Silence(context.Background(), SilenceRequest{
				AlertName:       "HighCPU",
				LabelsJSON:      tt.labelsJSON,
				DurationMinutes: 60,
			})

			require.True(t, result.Success, result.Message)
			require.Len(t, posted.Matchers, 1)
			assert.Equal(t, model.Matcher{Name: "alertname", Value: "HighCPU"}, posted.Matchers[0])
			assert.False(t, posted.Matchers[0].IsRegex)
		})
	}
}

func TestSilenceBackendRejection(t *testing.T) {
	_, client := newTestAlertmanager(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message": "invalid matcher"}`))
	})
	silencer := NewSilencer(client, "obs-engine", zerolog.Nop())

	result := silencer.Silence(context.Background(), SilenceRequest{
		AlertName:       "HighCPU",
		DurationMinutes: 60,
	})

	// Backend status and body surface verbatim in the result message
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "status 400")
	assert.Contains(t, result.Message, "invalid matcher")
}

func TestSilenceDurationMessages(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{15, "silenced HighCPU for 15m"},
		{60, "silenced HighCPU for 1h"},
		{1440, "silenced HighCPU for 1d"},
	}

	for _, tt := range tests {
		_, client := newTestAlertmanager(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"silenceID": "sil-x"}`))
		})
		silencer := NewSilencer(client, "obs-engine", zerolog.Nop())

		result := silencer.Silence(context.Background(), SilenceRequest{
			AlertName:       "HighCPU",
			DurationMinutes: tt.minutes,
		})

		require.True(t, result.Success)
		assert.Contains(t, result.Message, tt.want, "minutes=%d", tt.minutes)
	}
}
