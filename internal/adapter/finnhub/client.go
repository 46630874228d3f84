// Package finnhub talks to the Finnhub REST API for company news, symbol
// search and peer lists.
package finnhub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/jonboulle/clockwork"

	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/adapter/metrics"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/platform/breaker"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/platform/retry"
)

const (
	upstreamName          = "finnhub"
	tokenHeader           = "X-Finnhub-Token"
	requestTimeout        = 8 * time.Second
	maxErrorBody          = 512
	retryInitialBackoff   = 500 * time.Millisecond
	retryMaxBackoff       = 4 * time.Second
	retryRateLimitBackoff = 30 * time.Second
)

// APIError is a non-200 answer from Finnhub.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("finnhub returned %d: %s", e.StatusCode, e.Body)
}

type Config struct {
	BaseURL      string
	APIKey       string
	NewsLookback time.Duration
	MaxNewsItems int

	// Optional.
	HTTPClient  *http.Client
	Clock       clockwork.Clock
	RetryPolicy *retry.Policy
}

type Client struct {
	baseURL  string
	apiKey   string
	http     *http.Client
	clock    clockwork.Clock
	policy   retry.Policy
	breaker  circuitbreaker.CircuitBreaker[any]
	metrics  *metrics.UpstreamMetrics
	lookback time.Duration
	maxItems int
}

// NewClient builds a client. m may be nil.
func NewClient(cfg Config, m *metrics.UpstreamMetrics) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	policy := retry.Policy{
		MaxAttempts:      3,
		InitialBackoff:   retryInitialBackoff,
		MaxBackoff:       retryMaxBackoff,
		RateLimitBackoff: retryRateLimitBackoff,
	}
	if cfg.RetryPolicy != nil {
		policy = *cfg.RetryPolicy
	}
	policy.Clock = clock

	var listener breaker.StateListener
	if m != nil {
		listener = m.BreakerListener()
		policy.OnRetry = func(attempt int, err error, backoff time.Duration) {
			m.Retries.WithLabelValues(upstreamName).Inc()
			slog.Warn("Finnhub request failed, retrying", "attempt", attempt, "backoff_seconds", backoff.Seconds(), "error", err)
		}
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		http:     httpClient,
		clock:    clock,
		policy:   policy,
		breaker:  breaker.New(upstreamName, listener),
		metrics:  m,
		lookback: cfg.NewsLookback,
		maxItems: cfg.MaxNewsItems,
	}
}

// getJSON performs one logical GET with retries, guarded by the breaker,
// and decodes the body into T.
func getJSON[T any](ctx context.Context, c *Client, operation, path string, query url.Values) (T, error) {
	start := c.clock.Now()
	val, err := breaker.Run(c.breaker, countable, func() (T, error) {
		return retry.Do(ctx, c.policy, classify, func(ctx context.Context) (T, error) {
			return fetch[T](ctx, c, path, query)
		})
	})
	c.observe(operation, start, err)
	if err != nil {
		return val, fmt.Errorf("finnhub %s: %w", operation, err)
	}
	return val, nil
}

func fetch[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	var zero T
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return zero, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set(tokenHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return zero, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return zero, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return zero, fmt.Errorf("failed to decode response: %w", err)
	}
	return out, nil
}

func (c *Client) observe(operation string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	outcome := "ok"
	switch {
	case breaker.IsOpen(err):
		outcome = "rejected"
	case err != nil:
		outcome = "error"
	}
	c.metrics.Requests.WithLabelValues(upstreamName, operation, outcome).Inc()
	c.metrics.Duration.WithLabelValues(upstreamName, operation).Observe(c.clock.Since(start).Seconds())
}

func classify(err error) retry.Action {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return retry.Stop
	}
	apiErr, ok := errors.AsType[*APIError](err)
	if !ok {
		return retry.Retry
	}

	switch {
	case apiErr.StatusCode == http.StatusTooManyRequests:
		return retry.After
	case apiErr.StatusCode >= 500:
		return retry.Retry
	default:
		return retry.Stop
	}
}

// countable excludes client errors: Finnhub answered, the request was bad.
func countable(err error) bool {
	apiErr, ok := errors.AsType[*APIError](err)
	if !ok {
		return true
	}
	return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
}
