// Package redis holds the Redis-backed second layer of the company-name
// cache and the client it runs on.
package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/platform/breaker"
)

// NewClient connects to redisURL (e.g. "redis://localhost:6379/0") and
// verifies the connection. All commands run behind a circuit breaker.
func NewClient(ctx context.Context, redisURL string, onBreakerChange breaker.StateListener) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := goredis.NewClient(opts)
	rdb.AddHook(NewCircuitBreakerHook(onBreakerChange))

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return rdb, nil
}
