package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHumanDuration(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    string
	}{
		{"under a minute", 30 * time.Second, "just now"},
		{"zero elapsed", 0, "just now"},
		{"five minutes", 5 * time.Minute, "5m"},
		{"fifty-nine minutes", 59 * time.Minute, "59m"},
		{"exactly one hour", time.Hour, "1h"},
		{"ninety minutes", 90 * time.Minute, "1h 30m"},
		{"two hours exactly", 120 * time.Minute, "2h"},
		{"fifty hours", 50 * time.Hour, "2d 2h"},
		{"exactly one day", 24 * time.Hour, "1d 0h"},
		{"truncates seconds", 5*time.Minute + 59*time.Second, "5m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HumanDuration(now.Add(-tt.elapsed), now))
		})
	}
}

func TestParseSeverity(t *testing.T) {
	assert.Equal(t, SeverityCritical, ParseSeverity("critical"))
	assert.Equal(t, SeverityWarning, ParseSeverity("warning"))
	assert.Equal(t, SeverityInfo, ParseSeverity("info"))
	assert.Equal(t, SeverityUnknown, ParseSeverity(""))
	assert.Equal(t, SeverityUnknown, ParseSeverity("page"))
}

func TestParseState(t *testing.T) {
	assert.Equal(t, StateSilenced, ParseState("silenced"))
	assert.Equal(t, StateSuppressed, ParseState("suppressed"))
	assert.Equal(t, StateActive, ParseState("active"))

	// Absent or unrecognized state defaults to active
	assert.Equal(t, StateActive, ParseState(""))
	assert.Equal(t, StateActive, ParseState("firing"))
}

func TestAlertLogScope(t *testing.T) {
	tests := []struct {
		name      string
		labels    LabelSet
		wantValue string
		wantLabel string
	}{
		{"service preferred over job", LabelSet{"service": "api", "job": "node"}, "api", "service"},
		{"job as fallback", LabelSet{"job": "node"}, "node", "job"},
		{"neither present", LabelSet{"instance": "host:9100"}, "", ""},
		{"empty service ignored", LabelSet{"service": "", "job": "node"}, "node", "job"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alert := &Alert{Labels: tt.labels}
			value, label := alert.LogScope()
			assert.Equal(t, tt.wantValue, value)
			assert.Equal(t, tt.wantLabel, label)
		})
	}
}

func TestHumanMinutes(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{15, "15m"},
		{59, "59m"},
		{60, "1h"},
		{240, "4h"},
		{90, "2h"}, // Rounds, unlike HumanDuration
		{1440, "1d"},
		{4320, "3d"},
		{2160, "2d"}, // 1.5 days rounds up
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HumanMinutes(tt.minutes), "minutes=%d", tt.minutes)
	}
}
