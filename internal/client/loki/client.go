// Package loki provides a client for the log backend API.
package loki

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"obs-engine/internal/config"
)

// Client is a client for the log backend (Loki HTTP API).
type Client struct {
	endpoint   string         // API endpoint
	timeout    time.Duration  // Request timeout
	httpClient *resty.Client  // HTTP client
	logger     zerolog.Logger // Logger
}

// NewClient creates a new log backend client.
func NewClient(cfg *config.BackendConfig, retryCfg *config.RetryConfig, logger zerolog.Logger) *Client {
	// Set default timeout if not specified
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	// Set default retry config if not specified
	retry := config.RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
	}
	if retryCfg != nil {
		retry = *retryCfg
	}

	httpClient := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(timeout).
		SetRetryCount(retry.MaxRetries).
		SetRetryWaitTime(retry.BaseDelay).
		SetRetryMaxWaitTime(retry.BaseDelay * 8). // Max wait time for exponential backoff
		AddRetryCondition(retryCondition)

	if cfg.Username != "" {
		httpClient.SetBasicAuth(cfg.Username, cfg.Password)
	} else if cfg.BearerToken != "" {
		httpClient.SetAuthToken(cfg.BearerToken)
	}

	return &Client{
		endpoint:   cfg.Endpoint,
		timeout:    timeout,
		httpClient: httpClient,
		logger:     logger.With().Str("component", "loki-client").Logger(),
	}
}

// retryCondition determines whether a request should be retried.
// Only retry on timeout, 5xx errors, or connection failures.
// Do not retry on 4xx errors.
func retryCondition(resp *resty.Response, err error) bool {
	// Retry on error (timeout, connection failure, etc.)
	if err != nil {
		return true
	}

	// Retry on 5xx server errors
	if resp != nil && resp.StatusCode() >= 500 {
		return true
	}

	// Do not retry on 4xx client errors
	return false
}

// QueryRange executes a time-windowed LogQL query at the range-query
// endpoint. Start and end bound the window; limit caps the number of
// returned entries.
func (c *Client) QueryRange(ctx context.Context, query string, start, end time.Time, limit int) (*QueryRangeResponse, error) {
	c.logger.Debug().
		Str("query", query).
		Time("start", start).
		Time("end", end).
		Int("limit", limit).
		Msg("executing range query")

	var result QueryRangeResponse

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query": query,
			"start": strconv.FormatInt(start.UnixNano(), 10),
			"end":   strconv.FormatInt(end.UnixNano(), 10),
			"limit": strconv.Itoa(limit),
		}).
		SetResult(&result).
		Get("/loki/api/v1/query_range")

	if err != nil {
		c.logger.Error().Err(err).Str("query", query).Msg("failed to execute range query")
		return nil, fmt.Errorf("failed to execute range query: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		c.logger.Error().
			Int("status_code", resp.StatusCode()).
			Str("body", string(resp.Body())).
			Str("query", query).
			Msg("log backend returned non-200 status")
		return nil, fmt.Errorf("log backend returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	if !result.IsSuccess() {
		return nil, fmt.Errorf("log backend query failed: %s", result.Status)
	}

	c.logger.Debug().
		Int("streams", len(result.Data.Result)).
		Msg("range query executed successfully")

	return &result, nil
}

// LabelValues retrieves all known values for a label, used to populate
// filter dropdowns.
func (c *Client) LabelValues(ctx context.Context, label string) ([]string, error) {
	c.logger.Debug().Str("label", label).Msg("fetching label values")

	var result LabelValuesResponse

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/loki/api/v1/label/" + label + "/values")

	if err != nil {
		c.logger.Error().Err(err).Str("label", label).Msg("failed to fetch label values")
		return nil, fmt.Errorf("failed to fetch label values: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		c.logger.Error().
			Int("status_code", resp.StatusCode()).
			Str("label", label).
			Str("body", string(resp.Body())).
			Msg("log backend returned non-200 status")
		return nil, fmt.Errorf("log backend returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	if result.Status != "success" {
		return nil, fmt.Errorf("log backend label query failed: %s", result.Status)
	}

	return result.Data, nil
}
