// Package prometheus provides a client for the metrics backend API.
package prometheus

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"obs-engine/internal/config"
	"obs-engine/internal/model"
)

// Client is a client for the metrics backend (Prometheus HTTP API).
type Client struct {
	endpoint   string         // API endpoint
	timeout    time.Duration  // Request timeout
	httpClient *resty.Client  // HTTP client
	logger     zerolog.Logger // Logger
}

// NewClient creates a new metrics backend client.
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
		logger:     logger.With().Str("component", "prometheus-client").Logger(),
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

// Query executes an instant query at the /api/v1/query endpoint.
func (c *Client) Query(ctx context.Context, query string) (*QueryResponse, error) {
	c.logger.Debug().Str("query", query).Msg("executing instant query")

	var result QueryResponse

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("query", query).
		SetResult(&result).
		Get("/api/v1/query")

	if err != nil {
		c.logger.Error().Err(err).Str("query", query).Msg("failed to execute query")
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		c.logger.Error().
			Int("status_code", resp.StatusCode()).
			Str("body", string(resp.Body())).
			Str("query", query).
			Msg("metrics backend returned non-200 status")
		return nil, fmt.Errorf("metrics backend returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	if !result.IsSuccess() {
		c.logger.Error().
			Str("error_type", result.ErrorType).
			Str("error", result.Error).
			Str("query", query).
			Msg("metrics backend returned error")
		return nil, fmt.Errorf("metrics backend error [%s]: %s", result.ErrorType, result.Error)
	}

	if len(result.Warnings) > 0 {
		c.logger.Warn().
			Strs("warnings", result.Warnings).
			Str("query", query).
			Msg("metrics backend returned warnings")
	}

	return &result, nil
}

// QueryScalar executes an instant query and extracts the first sample's
// value. Returns nil (without error) when the result set is empty.
func (c *Client) QueryScalar(ctx context.Context, query string) (*float64, error) {
	resp, err := c.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	return FirstSampleValue(resp), nil
}

// Targets retrieves all active scrape targets from the metrics backend.
func (c *Client) Targets(ctx context.Context) ([]model.ScrapeTarget, error) {
	c.logger.Debug().Msg("fetching scrape targets")

	var result TargetsResponse

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("state", "active").
		SetResult(&result).
		Get("/api/v1/targets")

	if err != nil {
		c.logger.Error().Err(err).Msg("failed to fetch targets")
		return nil, fmt.Errorf("failed to fetch targets: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		c.logger.Error().
			Int("status_code", resp.StatusCode()).
			Str("body", string(resp.Body())).
			Msg("metrics backend returned non-200 status")
		return nil, fmt.Errorf("metrics backend returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	if result.Status != "success" {
		return nil, fmt.Errorf("metrics backend targets query failed: %s", result.Status)
	}

	targets := make([]model.ScrapeTarget, 0, len(result.Data.ActiveTargets))
	for _, t := range result.Data.ActiveTargets {
		targets = append(targets, t.ToScrapeTarget())
	}

	c.logger.Debug().Int("count", len(targets)).Msg("fetched scrape targets successfully")
	return targets, nil
}
