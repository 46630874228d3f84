package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/adapter/finnhub"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/adapter/httpserver"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/adapter/metrics"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/adapter/redis"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/adapter/websocket"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/adapter/yahoo"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/app"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/broadcast"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/domain"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/platform/config"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/platform/logging"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/platform/version"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/platform/workpool"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/sentiment"
)

const (
	shutdownTimeout     = 10 * time.Second
	redisConnectTimeout = 5 * time.Second
	nameEvictionPeriod  = time.Minute
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// setupRedis returns nil when REDIS_URL is unset or unreachable; the name
// cache then runs on its in-memory layer only.
func setupRedis(cfg *config.Config, m *metrics.UpstreamMetrics) *goredis.Client {
	if cfg.RedisURL == "" {
		slog.Info("REDIS_URL not set, company names cached in memory only")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
	defer cancel()

	client, err := redis.NewClient(ctx, cfg.RedisURL, m.BreakerListener())
	if err != nil {
		slog.Warn("Redis unavailable, company names cached in memory only", "error", err)
		return nil
	}
	return client
}

func runGracefulShutdown(srv *httpserver.Server, streams *websocket.Handler, stopScheduler context.CancelFunc) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		stopScheduler()
		streams.Shutdown("server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "version", version.Get().String())

	promRegistry := metrics.NewRegistry()
	m := metrics.NewSet(promRegistry)

	redisClient := setupRedis(cfg, m.Upstream)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	// Upstreams
	quotes := yahoo.NewSource(nil, clock, m.Upstream)
	news := finnhub.NewClient(finnhub.Config{
		BaseURL:      cfg.FinnhubBaseURL,
		APIKey:       cfg.FinnhubAPIKey,
		NewsLookback: cfg.NewsLookback,
		MaxNewsItems: cfg.NewsMaxItems,
		Clock:        clock,
	}, m.Upstream)

	var rdb goredis.Cmdable
	if redisClient != nil {
		rdb = redisClient
	}
	names := redis.NewNameCache(rdb, quotes, cfg.NameCacheTTL, clock, m.Cache)
	stopEviction := names.StartEvictionTimer(nameEvictionPeriod)
	defer stopEviction()

	// Core
	engine := sentiment.NewEngine(m.Sentiment)
	pool := workpool.New(cfg.FetchWorkers, cfg.FetchTimeout, m.Pool)
	feed := app.NewFeed(quotes, news, names, engine, pool, clock, m.Scheduler)
	registry := broadcast.NewRegistry(m.Registry)
	scheduler := app.NewScheduler(app.SchedulerConfig{
		Tick:          cfg.TickInterval,
		QuoteEvery:    cfg.QuoteIntervalTicks,
		NewsEvery:     cfg.NewsIntervalTicks,
		ErrorBackoff:  cfg.ErrorBackoff,
		DefaultSymbol: domain.Symbol(cfg.DefaultSymbol),
	}, registry, feed, clock, m.Scheduler)
	directory := app.NewDirectory(news, names, pool)

	// Transport
	streams := websocket.NewHandler(websocket.HandlerConfig{
		AppURL:          cfg.AppURL,
		Development:     cfg.IsDevelopment(),
		MaxConnections:  cfg.MaxWebSocketConnections,
		MaxPerIP:        cfg.MaxConnectionsPerIP,
		ConnectionRate:  cfg.ConnectionRate,
		ConnectionBurst: cfg.ConnectionBurst,
	}, registry, feed, clock, m.WebSocket)

	var healthChecks []httpserver.HealthCheck
	if redisClient != nil {
		healthChecks = append(healthChecks, httpserver.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}

	srv := httpserver.NewServer(cfg, httpserver.Deps{
		Directory:      directory,
		Stream:         streams,
		Subscriptions:  registry,
		MetricsHandler: metrics.Handler(promRegistry),
		HTTPMetrics:    m.HTTP,
		HealthChecks:   healthChecks,
	})

	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	schedulerDone := make(chan struct{})
	go func() {
		defer close(schedulerDone)
		scheduler.Run(schedulerCtx)
	}()

	done := runGracefulShutdown(srv, streams, stopScheduler)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
	<-schedulerDone
	slog.Info("Shutdown complete")
}
