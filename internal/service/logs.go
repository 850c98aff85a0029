package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"obs-engine/internal/client/loki"
	"obs-engine/internal/model"
)

const (
	// MaxLogLimit caps every log tail query regardless of what was requested.
	MaxLogLimit = 500

	defaultLogLimit = 100
	defaultLogSince = time.Hour

	// FilterAll matches every service or level in a log filter.
	FilterAll = "all"
)

// LogFilter describes an ad-hoc log tail query for interactive browsing.
type LogFilter struct {
	Service string        // Service name, or FilterAll
	Level   string        // Log level, or FilterAll
	Since   time.Duration // Lookback window ending now
	Limit   int           // Requested line count, capped at MaxLogLimit
}

// LogService builds and executes filtered, time-windowed log queries.
type LogService struct {
	client *loki.Client // nil when the log backend is unconfigured
	logger zerolog.Logger
}

// NewLogService creates a new LogService. A nil client is valid and makes
// every query a silent no-op.
func NewLogService(client *loki.Client, logger zerolog.Logger) *LogService {
	return &LogService{
		client: client,
		logger: logger.With().Str("component", "log-service").Logger(),
	}
}

// Query executes a log tail query and returns parsed lines sorted newest
// first. Backends may return lines unordered across streams, so the lines
// are re-sorted client-side by their fixed-width timestamps and truncated to
// the limit only after sorting. A query failure is logged at error level and
// degrades to an empty list.
func (s *LogService) Query(ctx context.Context, filter LogFilter) []model.LogLine {
	if s.client == nil {
		return nil
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultLogLimit
	}
	if limit > MaxLogLimit {
		limit = MaxLogLimit
	}

	since := filter.Since
	if since <= 0 {
		since = defaultLogSince
	}

	query := buildLogQuery(filter.Service, filter.Level)
	end := time.Now()
	start := end.Add(-since)

	resp, err := s.client.QueryRange(ctx, query, start, end, limit)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("query", query).
			Msg("log query failed, returning empty list")
		return nil
	}

	lines := parseStreams(resp)

	// Descending sort on the fixed-width timestamp string; lexicographic
	// order matches chronological order for this layout.
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].Timestamp > lines[j].Timestamp
	})

	if len(lines) > limit {
		lines = lines[:limit]
	}
	return lines
}

// Services returns all known service names for filter dropdowns. Failures
// degrade to an empty list.
func (s *LogService) Services(ctx context.Context) []string {
	if s.client == nil {
		return nil
	}

	values, err := s.client.LabelValues(ctx, model.LabelService)
	if err != nil {
		s.logger.Error().Err(err).Msg("service label values query failed")
		return nil
	}
	return values
}

// buildLogQuery constructs the LogQL query: a stream selector matching all
// services or one exact service, plus a structured level filter only when a
// specific level was requested.
func buildLogQuery(service, level string) string {
	selector := `{service=~".+"}`
	if service != "" && service != FilterAll {
		selector = fmt.Sprintf(`{service=%q}`, service)
	}

	if level != "" && level != FilterAll {
		return fmt.Sprintf(`%s | level=%q`, selector, level)
	}
	return selector
}

// parseStreams flattens the response streams into LogLine records. Each line
// gets a structured-then-raw message parse; the level defaults to the
// stream's declared level when the line itself carries none. Malformed
// entries are skipped at per-line granularity.
func parseStreams(resp *loki.QueryRangeResponse) []model.LogLine {
	var lines []model.LogLine
	for _, stream := range resp.Data.Result {
		labels := model.LabelSet(stream.Stream)
		for _, entry := range stream.Values {
			ts := entry.Timestamp()
			if ts.IsZero() {
				continue
			}

			message, level := parseLogLine(entry.Line())
			if level == "" {
				level = labels.Get("level")
			}

			lines = append(lines, model.LogLine{
				Timestamp: model.FormatLogTimestamp(ts),
				Service:   labels.Get(model.LabelService),
				Level:     level,
				Message:   message,
				Labels:    labels,
			})
		}
	}
	return lines
}

// parseLogLine attempts a structured parse of a raw line, extracting the
// msg and level fields; unparseable lines are returned verbatim with no
// level.
func parseLogLine(raw string) (message, level string) {
	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return raw, ""
	}

	if msg, ok := fields["msg"].(string); ok && msg != "" {
		message = msg
	} else {
		message = raw
	}
	if lvl, ok := fields["level"].(string); ok {
		level = lvl
	}
	return message, level
}
