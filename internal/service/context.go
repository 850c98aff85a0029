package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"obs-engine/internal/client/loki"
	"obs-engine/internal/model"
)

// ErrAlertNotFound is returned by ContextBuilder.Build when the fingerprint
// does not resolve against the current backend alert set.
var ErrAlertNotFound = errors.New("alert not found")

const (
	contextLookback  = 15 * time.Minute // Log window ending now
	contextLineLimit = 5                // Max error lines in the brief
	contextPerStream = 3                // Max lines taken per stream
	enrichTimeout    = 5 * time.Second  // Enrichment must not delay the alert view
)

// skipReason enumerates why a best-effort section of the incident brief was
// omitted. Reasons are logged at debug level; they never fail the call.
type skipReason string

const (
	skipNoLogBackend skipReason = "log backend not configured"
	skipNoScopeLabel skipReason = "alert carries no service or job label"
	skipQueryFailed  skipReason = "log query failed"
	skipNoLines      skipReason = "no matching log lines"
)

// ContextBuilder assembles an incident brief for a single alert, enriching
// the base alert fields with recent related error lines from the log
// backend. Enrichment is purely additive: any failure narrows the brief
// instead of failing the call.
type ContextBuilder struct {
	alerts *AlertService
	loki   *loki.Client // nil when the log backend is unconfigured
	logger zerolog.Logger
}

// NewContextBuilder creates a new ContextBuilder. A nil loki client is
// valid; the brief then simply has no recent-errors section.
func NewContextBuilder(alerts *AlertService, lokiClient *loki.Client, logger zerolog.Logger) *ContextBuilder {
	return &ContextBuilder{
		alerts: alerts,
		loki:   lokiClient,
		logger: logger.With().Str("component", "context-builder").Logger(),
	}
}

// Build resolves the alert and assembles its incident brief. The only error
// it returns is ErrAlertNotFound; every other internal failure degrades to a
// shorter but non-empty brief.
func (b *ContextBuilder) Build(ctx context.Context, fingerprint string) (string, error) {
	alert := b.alerts.Get(ctx, fingerprint)
	if alert == nil {
		return "", ErrAlertNotFound
	}

	var sb strings.Builder

	// Header block: always present once the alert resolved.
	fmt.Fprintf(&sb, "Alert: %s\n", alert.Name)
	fmt.Fprintf(&sb, "Severity: %s\n", alert.Severity)
	fmt.Fprintf(&sb, "State: %s\n", alert.State)
	fmt.Fprintf(&sb, "Duration: %s\n", alert.Duration)
	fmt.Fprintf(&sb, "Started: %s\n", alert.StartsAt.UTC().Format(time.RFC3339))

	// Annotations: description only when it adds something over the summary.
	if alert.Summary != "" {
		fmt.Fprintf(&sb, "\nSummary: %s\n", alert.Summary)
	}
	if alert.Description != "" && alert.Description != alert.Summary {
		fmt.Fprintf(&sb, "Description: %s\n", alert.Description)
	}

	// Non-reserved labels.
	if display := alert.Labels.DisplayLabels(); len(display) > 0 {
		sb.WriteString("\nLabels:\n")
		for _, k := range display.SortedKeys() {
			fmt.Fprintf(&sb, "  %s=%s\n", k, display[k])
		}
	}

	// Recent related errors, best effort.
	if reason := b.appendRecentErrors(ctx, alert, &sb); reason != "" {
		b.logger.Debug().
			Str("fingerprint", fingerprint).
			Str("reason", string(reason)).
			Msg("recent errors section skipped")
	}

	return sb.String(), nil
}

// appendRecentErrors queries the log backend for error lines related to the
// alert's service (or job) over the lookback window and appends them to the
// brief. Returns a non-empty skip reason when the section was omitted.
func (b *ContextBuilder) appendRecentErrors(ctx context.Context, alert *model.Alert, sb *strings.Builder) skipReason {
	if b.loki == nil {
		return skipNoLogBackend
	}

	scope, label := alert.LogScope()
	if scope == "" {
		return skipNoScopeLabel
	}

	query := fmt.Sprintf(`{%s=%q} | level=~"error|fatal"`, label, scope)
	end := time.Now()
	start := end.Add(-contextLookback)

	qctx, cancel := context.WithTimeout(ctx, enrichTimeout)
	defer cancel()

	resp, err := b.loki.QueryRange(qctx, query, start, end, contextLineLimit)
	if err != nil {
		b.logger.Debug().Err(err).Str("query", query).Msg("enrichment query failed")
		return skipQueryFailed
	}

	lines := collectRecentLines(resp)
	if len(lines) == 0 {
		return skipNoLines
	}

	fmt.Fprintf(sb, "\nRecent errors (last %dm):\n", int(contextLookback.Minutes()))
	for _, line := range lines {
		fmt.Fprintf(sb, "  %s\n", line)
	}
	return ""
}

// collectRecentLines walks result streams in backend-returned order, taking
// at most the last contextPerStream entries per stream, and stops once
// contextLineLimit lines are gathered.
func collectRecentLines(resp *loki.QueryRangeResponse) []string {
	var lines []string
	for _, stream := range resp.Data.Result {
		values := stream.Values
		if len(values) > contextPerStream {
			values = values[len(values)-contextPerStream:]
		}
		for _, entry := range values {
			lines = append(lines, extractMessage(entry.Line()))
			if len(lines) >= contextLineLimit {
				return lines
			}
		}
	}
	return lines
}

// extractMessage attempts a structured parse of a raw log line, returning
// its msg field; unparseable lines are returned verbatim.
func extractMessage(raw string) string {
	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &fields); err == nil {
		if msg, ok := fields["msg"].(string); ok && msg != "" {
			return msg
		}
	}
	return raw
}
