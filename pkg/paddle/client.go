// Package paddle provides a minimal Paddle Billing API client for the
// catalog list endpoints, with bearer authentication, cursor pagination,
// optional outbound rate limiting and Prometheus instrumentation.
package paddle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/paddle-marketplace/pkg/logging"
	"github.com/Sternrassler/paddle-marketplace/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for Paddle API requests.
var (
	paddleRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paddle_requests_total",
		Help: "Total Paddle API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	paddleRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "paddle_request_duration_seconds",
		Help:    "Paddle API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	paddleErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paddle_errors_total",
		Help: "Total Paddle API errors by class",
	}, []string{"class"})
)

const (
	// DefaultBaseURL is the Paddle production API.
	DefaultBaseURL = "https://api.paddle.com"

	// MaxPageSize is the largest per_page value Paddle accepts.
	MaxPageSize = 200

	// maxErrorBody bounds how much of an error response is kept for diagnostics.
	maxErrorBody = 64 << 10
)

// Config holds the client configuration.
type Config struct {
	// APIKey is the bearer credential (REQUIRED)
	APIKey string

	// BaseURL of the API, without trailing path
	BaseURL string

	// PageSize is sent as per_page on list requests (1..200)
	PageSize int

	// Timeout for a single HTTP request. Zero means no timeout.
	Timeout time.Duration

	// RateLimit bounds the outbound request rate
	RateLimit ratelimit.Config
}

// DefaultConfig returns the default configuration for the given API key.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:    apiKey,
		BaseURL:   DefaultBaseURL,
		PageSize:  MaxPageSize,
		Timeout:   0,
		RateLimit: ratelimit.DefaultConfig(),
	}
}

// Client talks to the Paddle API.
type Client struct {
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	baseURL    *url.URL
	config     Config
	logger     zerolog.Logger
}

// New creates a new Paddle client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url must be absolute (got %q)", cfg.BaseURL)
	}

	if cfg.PageSize < 1 || cfg.PageSize > MaxPageSize {
		return nil, fmt.Errorf("page_size must be between 1 and %d (got %d)", MaxPageSize, cfg.PageSize)
	}

	logger := logging.NewLogger(logging.ComponentPaddle)

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: ratelimit.NewLimiter(cfg.RateLimit, logger),
		baseURL: base,
		config:  cfg,
		logger:  logger,
	}, nil
}

// Do performs an authenticated request. Non-2xx responses are returned as
// *APIError with the response body captured; the response is closed.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	endpoint := req.URL.Path

	startTime := time.Now()
	defer func() {
		paddleRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("method", req.Method).
		Msg("Executing Paddle request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		paddleErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		paddleRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		return nil, fmt.Errorf("request %s: %w", endpoint, err)
	}

	paddleRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()

		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Class:      classifyStatus(resp.StatusCode),
			Endpoint:   endpoint,
			Body:       string(body),
		}
		paddleErrorsTotal.WithLabelValues(string(apiErr.Class)).Inc()

		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("error_class", string(apiErr.Class)).
			Msg("Paddle request error")

		return nil, apiErr
	}

	return resp, nil
}

// getJSON fetches rawURL and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, req.URL.Path, err)
	}

	return nil
}

// listURL builds the first-page URL of an active-only list endpoint.
func (c *Client) listURL(resource string) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + resource
	u.RawQuery = url.Values{
		"status":   []string{"active"},
		"per_page": []string{strconv.Itoa(c.config.PageSize)},
	}.Encode()
	return u.String()
}

// resolveCursor resolves a next-page URL against the base URL and refuses
// cursors on other hosts, which would otherwise receive the bearer token.
func (c *Client) resolveCursor(next string) (string, error) {
	ref, err := url.Parse(next)
	if err != nil {
		return "", fmt.Errorf("%w: parse next url: %v", ErrMalformedResponse, err)
	}

	resolved := c.baseURL.ResolveReference(ref)
	if !strings.EqualFold(resolved.Host, c.baseURL.Host) {
		return "", fmt.Errorf("%w: %s", ErrForeignCursor, resolved.Host)
	}

	return resolved.String(), nil
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
