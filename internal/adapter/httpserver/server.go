package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/adapter/metrics"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/broadcast"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/domain"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/platform/config"
)

type directoryService interface {
	Lookup(ctx context.Context, query string) []domain.SymbolMatch
	Peers(ctx context.Context, symbol domain.Symbol) map[string]string
}

type streamHandler interface {
	Stream(c echo.Context) error
}

type subscriptionStats interface {
	Stats() broadcast.Stats
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	directory      directoryService
	stream         streamHandler
	subscriptions  subscriptionStats
	metricsHandler http.Handler
	httpMetrics    *metrics.HTTPMetrics

	healthChecks []HealthCheck
	startTime    time.Time
}

// Deps bundles what the server routes to. Subscriptions, HTTPMetrics and
// MetricsHandler are optional.
type Deps struct {
	Directory      directoryService
	Stream         streamHandler
	Subscriptions  subscriptionStats
	MetricsHandler http.Handler
	HTTPMetrics    *metrics.HTTPMetrics
	HealthChecks   []HealthCheck
}

func NewServer(cfg *config.Config, deps Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:           e,
		config:         cfg,
		directory:      deps.Directory,
		stream:         deps.Stream,
		subscriptions:  deps.Subscriptions,
		metricsHandler: deps.MetricsHandler,
		httpMetrics:    deps.HTTPMetrics,
		healthChecks:   deps.HealthChecks,
		startTime:      time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// ServeHTTP exposes the router, mainly for httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
