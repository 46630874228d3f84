package httpserver

import (
	"context"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/domain"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/platform/config"
)

type mockDirectory struct {
	lookupFn func(ctx context.Context, query string) []domain.SymbolMatch
	peersFn  func(ctx context.Context, symbol domain.Symbol) map[string]string
}

func (m *mockDirectory) Lookup(ctx context.Context, query string) []domain.SymbolMatch {
	if m.lookupFn != nil {
		return m.lookupFn(ctx, query)
	}
	return []domain.SymbolMatch{}
}

func (m *mockDirectory) Peers(ctx context.Context, symbol domain.Symbol) map[string]string {
	if m.peersFn != nil {
		return m.peersFn(ctx, symbol)
	}
	return map[string]string{}
}

type stubStream struct{}

func (stubStream) Stream(c echo.Context) error {
	return c.String(http.StatusOK, "stream:"+c.Param("symbol"))
}

type testServerOption func(*Deps, *config.Config)

func withHealthChecks(checks ...HealthCheck) testServerOption {
	return func(d *Deps, _ *config.Config) { d.HealthChecks = checks }
}

func withStream(h streamHandler) testServerOption {
	return func(d *Deps, _ *config.Config) { d.Stream = h }
}

func withSubscriptions(st subscriptionStats) testServerOption {
	return func(d *Deps, _ *config.Config) { d.Subscriptions = st }
}

func withMetricsHandler(h http.Handler) testServerOption {
	return func(d *Deps, _ *config.Config) { d.MetricsHandler = h }
}

func withAPIRate(limit float64, burst int) testServerOption {
	return func(_ *Deps, c *config.Config) {
		c.APIRateLimit = limit
		c.APIRateBurst = burst
	}
}

func newTestConfig() *config.Config {
	return &config.Config{
		AppEnv:                  "test",
		Port:                    "0",
		AppURL:                  "http://localhost:8080",
		DefaultSymbol:           "BCS",
		MaxWebSocketConnections: 100,
		MaxConnectionsPerIP:     10,
		ConnectionRate:          100,
		ConnectionBurst:         100,
		APIRateLimit:            100,
		APIRateBurst:            100,
	}
}

func newTestServer(t *testing.T, dir directoryService, opts ...testServerOption) *Server {
	t.Helper()
	cfg := newTestConfig()
	deps := Deps{Directory: dir, Stream: stubStream{}}
	for _, opt := range opts {
		opt(&deps, cfg)
	}
	return NewServer(cfg, deps)
}
