package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"

	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/domain"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"8080"`
	AppURL    string `env:"APP_URL" default:"http://localhost:8080"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
	RedisURL  string `env:"REDIS_URL"`

	FinnhubAPIKey  string        `env:"FINNHUB_API_KEY"`
	FinnhubBaseURL string        `env:"FINNHUB_BASE_URL" default:"https://finnhub.io/api/v1"`
	NewsLookback   time.Duration `env:"NEWS_LOOKBACK" default:"168h"`
	NewsMaxItems   int           `env:"NEWS_MAX_ITEMS" default:"20"`
	NameCacheTTL   time.Duration `env:"NAME_CACHE_TTL" default:"24h"`

	DefaultSymbol      string        `env:"DEFAULT_SYMBOL" default:"BCS"`
	TickInterval       time.Duration `env:"TICK_INTERVAL" default:"1s"`
	QuoteIntervalTicks int           `env:"QUOTE_INTERVAL_TICKS" default:"10"`
	NewsIntervalTicks  int           `env:"NEWS_INTERVAL_TICKS" default:"300"`
	ErrorBackoff       time.Duration `env:"ERROR_BACKOFF" default:"5s"`
	FetchTimeout       time.Duration `env:"FETCH_TIMEOUT" default:"10s"`
	FetchWorkers       int           `env:"FETCH_WORKERS" default:"8"`

	MaxWebSocketConnections int     `env:"MAX_WEBSOCKET_CONNECTIONS" default:"10000"`
	MaxConnectionsPerIP     int     `env:"MAX_CONNECTIONS_PER_IP" default:"20"`
	ConnectionRate          float64 `env:"CONNECTION_RATE" default:"5"`
	ConnectionBurst         int     `env:"CONNECTION_BURST" default:"10"`
	APIRateLimit            float64 `env:"API_RATE_LIMIT" default:"5"`
	APIRateBurst            int     `env:"API_RATE_BURST" default:"10"`
}

// IsDevelopment reports whether relaxed origin checks apply.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	cfg.DefaultSymbol = string(domain.NormalizeSymbol(cfg.DefaultSymbol))
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.FinnhubAPIKey == "" {
		return errors.New("FINNHUB_API_KEY is required")
	}

	switch cfg.AppEnv {
	case "development", "production", "test":
	default:
		return fmt.Errorf("APP_ENV must be one of development, production, test (got %q)", cfg.AppEnv)
	}

	if !domain.NormalizeSymbol(cfg.DefaultSymbol).Valid() {
		return fmt.Errorf("DEFAULT_SYMBOL %q is not a valid ticker", cfg.DefaultSymbol)
	}

	positiveDurations := map[string]time.Duration{
		"TICK_INTERVAL": cfg.TickInterval,
		"ERROR_BACKOFF": cfg.ErrorBackoff,
		"FETCH_TIMEOUT": cfg.FetchTimeout,
		"NEWS_LOOKBACK": cfg.NewsLookback,
	}
	for name, d := range positiveDurations {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}

	positiveInts := map[string]int{
		"QUOTE_INTERVAL_TICKS":      cfg.QuoteIntervalTicks,
		"NEWS_INTERVAL_TICKS":       cfg.NewsIntervalTicks,
		"FETCH_WORKERS":             cfg.FetchWorkers,
		"NEWS_MAX_ITEMS":            cfg.NewsMaxItems,
		"MAX_WEBSOCKET_CONNECTIONS": cfg.MaxWebSocketConnections,
		"MAX_CONNECTIONS_PER_IP":    cfg.MaxConnectionsPerIP,
	}
	for name, n := range positiveInts {
		if n <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}

	if _, err := url.ParseRequestURI(cfg.FinnhubBaseURL); err != nil {
		return fmt.Errorf("FINNHUB_BASE_URL must be a valid URL: %w", err)
	}

	if cfg.AppEnv == "production" {
		u, err := url.Parse(cfg.AppURL)
		if err != nil || u.Scheme != "https" {
			return errors.New("APP_URL must be an https URL in production")
		}
	}

	return nil
}
