// Package workpool bounds the number of concurrent upstream fetches and puts
// a deadline on each of them.
package workpool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/adapter/metrics"
)

// ErrTimeout is returned when a task does not finish within the pool timeout.
var ErrTimeout = errors.New("workpool: task timed out")

// Task is a unit of blocking work. It must honour ctx cancellation.
type Task func(ctx context.Context) error

type Pool struct {
	sem     *semaphore.Weighted
	size    int
	timeout time.Duration
	metrics *metrics.PoolMetrics
}

// New creates a pool with size slots. A nil metrics argument disables
// instrumentation.
func New(size int, timeout time.Duration, m *metrics.PoolMetrics) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		sem:     semaphore.NewWeighted(int64(size)),
		size:    size,
		timeout: timeout,
		metrics: m,
	}
}

// Do runs task on a pool slot, waiting for one if all are busy. The caller
// gets control back no later than the timeout; the slot is only released once
// task itself returns.
func (p *Pool) Do(ctx context.Context, task Task) error {
	start := time.Now()
	if !p.sem.TryAcquire(1) {
		slog.WarnContext(ctx, "Fetch pool saturated, waiting for a free worker", "workers", p.size)
		if p.metrics != nil {
			p.metrics.Saturated.Inc()
		}
		if err := p.sem.Acquire(ctx, 1); err != nil {
			return fmt.Errorf("acquire worker: %w", err)
		}
	}
	if p.metrics != nil {
		p.metrics.Wait.Observe(time.Since(start).Seconds())
		p.metrics.InFlight.Inc()
	}

	taskCtx, cancel := context.WithTimeout(ctx, p.timeout)
	done := make(chan error, 1)

	go func() {
		defer func() {
			if p.metrics != nil {
				p.metrics.InFlight.Dec()
			}
			p.sem.Release(1)
			cancel()
		}()
		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(ctx, "Fetch task panicked", "panic", r)
				if p.metrics != nil {
					p.metrics.Panics.Inc()
				}
				done <- fmt.Errorf("workpool: task panicked: %v", r)
			}
		}()
		done <- task(taskCtx)
	}()

	select {
	case err := <-done:
		return err
	case <-taskCtx.Done():
		// The task may have finished at the same instant.
		select {
		case err := <-done:
			return err
		default:
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if p.metrics != nil {
			p.metrics.Timeouts.Inc()
		}
		return ErrTimeout
	}
}

// ForEach runs fn for every item through the pool and waits for all of them.
// Individual failures are passed to fn's caller via the returned error slice,
// indexed like items; one failure never cancels the others.
func ForEach[T any](ctx context.Context, p *Pool, items []T, fn func(ctx context.Context, item T) error) []error {
	errs := make([]error, len(items))
	var g errgroup.Group
	for i, item := range items {
		g.Go(func() error {
			errs[i] = p.Do(ctx, func(ctx context.Context) error { return fn(ctx, item) })
			return nil
		})
	}
	_ = g.Wait()
	return errs
}
