// Package alertmanager provides a client for the alert backend API.
package alertmanager

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

// Client is a client for the alert backend (Alertmanager v2 API).
// Reads retry on transport/5xx errors; silence creation never retries.
type Client struct {
	endpoint   string         // API endpoint
	timeout    time.Duration  // Request timeout
	httpClient *resty.Client  // Retrying client for idempotent reads
	postClient *resty.Client  // Non-retrying client for mutations
	logger     zerolog.Logger // Logger
}

// NewClient creates a new alert backend client.
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

	// Retrying client for reads
	httpClient := newBaseClient(cfg, timeout).
		SetRetryCount(retry.MaxRetries).
		SetRetryWaitTime(retry.BaseDelay).
		SetRetryMaxWaitTime(retry.BaseDelay * 8). // Max wait time for exponential backoff
		AddRetryCondition(retryCondition)

	// Mutation client: a retried silence POST would create duplicate silences
	postClient := newBaseClient(cfg, timeout)

	return &Client{
		endpoint:   cfg.Endpoint,
		timeout:    timeout,
		httpClient: httpClient,
		postClient: postClient,
		logger:     logger.With().Str("component", "alertmanager-client").Logger(),
	}
}

// newBaseClient creates a resty client with endpoint, timeout, and auth applied.
func newBaseClient(cfg *config.BackendConfig, timeout time.Duration) *resty.Client {
	c := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	if cfg.Username != "" {
		c.SetBasicAuth(cfg.Username, cfg.Password)
	} else if cfg.BearerToken != "" {
		c.SetAuthToken(cfg.BearerToken)
	}

	return c
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

// FetchAlerts retrieves all currently firing and silenced alerts from the
// alert backend's active-alerts endpoint.
func (c *Client) FetchAlerts(ctx context.Context) ([]GettableAlert, error) {
	c.logger.Debug().Msg("fetching alerts")

	var result []GettableAlert

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/api/v2/alerts")

	if err != nil {
		c.logger.Error().Err(err).Msg("failed to fetch alerts")
		return nil, fmt.Errorf("failed to fetch alerts: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		c.logger.Error().
			Int("status_code", resp.StatusCode()).
			Str("body", string(resp.Body())).
			Msg("alert backend returned non-200 status")
		return nil, fmt.Errorf("alert backend returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	c.logger.Debug().Int("count", len(result)).Msg("fetched alerts successfully")
	return result, nil
}

// CreateSilence posts a silence to the alert backend and returns the
// backend-assigned silence ID. The request is never retried; on a non-2xx
// response the backend's status and body are surfaced verbatim in the error.
func (c *Client) CreateSilence(ctx context.Context, silence *model.Silence) (string, error) {
	c.logger.Debug().
		Int("matchers", len(silence.Matchers)).
		Time("ends_at", silence.EndsAt).
		Msg("creating silence")

	var result SilenceResponse

	resp, err := c.postClient.R().
		SetContext(ctx).
		SetBody(silence).
		SetResult(&result).
		Post("/api/v2/silences")

	if err != nil {
		c.logger.Error().Err(err).Msg("failed to create silence")
		return "", fmt.Errorf("failed to create silence: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		c.logger.Error().
			Int("status_code", resp.StatusCode()).
			Str("body", string(resp.Body())).
			Msg("alert backend rejected silence")
		return "", fmt.Errorf("alert backend returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	c.logger.Info().Str("silence_id", result.SilenceID).Msg("silence created")
	return result.SilenceID, nil
}
