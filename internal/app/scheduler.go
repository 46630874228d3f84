package app

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/adapter/metrics"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/domain"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/platform/correlation"
)

// Broadcaster is the subset of the subscription registry the scheduler uses.
type Broadcaster interface {
	ActiveSymbols() []domain.Symbol
	FanOut(symbol domain.Symbol, env domain.Envelope) (int, error)
}

// Source supplies fresh data for one symbol.
type Source interface {
	Quote(ctx context.Context, symbol domain.Symbol) (*domain.QuoteSnapshot, bool)
	News(ctx context.Context, symbol domain.Symbol) []domain.NewsItem
}

type SchedulerConfig struct {
	Tick          time.Duration
	QuoteEvery    int // ticks between quote polls
	NewsEvery     int // ticks between news polls
	ErrorBackoff  time.Duration
	DefaultSymbol domain.Symbol
}

// Scheduler polls quotes and news on one shared tick and pushes the results
// to subscribers. Both countdowns start at zero so the first tick polls both.
type Scheduler struct {
	cfg      SchedulerConfig
	registry Broadcaster
	source   Source
	clock    clockwork.Clock
	metrics  *metrics.SchedulerMetrics

	// Touched only by the goroutine running Tick.
	quoteCountdown int
	newsCountdown  int
}

// NewScheduler creates a scheduler. m may be nil.
func NewScheduler(cfg SchedulerConfig, registry Broadcaster, source Source, clock clockwork.Clock, m *metrics.SchedulerMetrics) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		registry: registry,
		source:   source,
		clock:    clock,
		metrics:  m,
	}
}

// Run ticks until ctx is cancelled. A failed iteration is logged and followed
// by the error backoff instead of the regular tick.
func (s *Scheduler) Run(ctx context.Context) {
	slog.Info("Scheduler started",
		"tick", s.cfg.Tick,
		"quote_every", s.cfg.QuoteEvery,
		"news_every", s.cfg.NewsEvery,
		"default_symbol", s.cfg.DefaultSymbol.String(),
	)

	for {
		wait := s.cfg.Tick
		if err := s.Tick(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			slog.ErrorContext(ctx, "Scheduler iteration failed, backing off", "error", err, "backoff", s.cfg.ErrorBackoff)
			if s.metrics != nil {
				s.metrics.TickFailures.Inc()
			}
			wait = s.cfg.ErrorBackoff
		}

		select {
		case <-ctx.Done():
			slog.Info("Scheduler stopped")
			return
		case <-s.clock.After(wait):
		}
	}
	slog.Info("Scheduler stopped")
}

// Tick runs one iteration. Countdowns only advance when the iteration
// completes, so a failed poll is retried on the next iteration.
func (s *Scheduler) Tick(ctx context.Context) (err error) {
	ctx = correlation.WithID(ctx, correlation.NewID())
	start := s.clock.Now()
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "Scheduler panic recovered", "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("scheduler panic: %v", r)
		}
		if s.metrics != nil {
			s.metrics.Ticks.Inc()
			s.metrics.TickDuration.Observe(s.clock.Since(start).Seconds())
		}
	}()

	pollQuotes := s.quoteCountdown <= 0
	pollNews := s.newsCountdown <= 0

	if pollQuotes || pollNews {
		symbols := s.workingSet()
		if err := s.poll(ctx, symbols, pollQuotes, pollNews); err != nil {
			return err
		}
	}

	if pollQuotes {
		s.quoteCountdown = s.cfg.QuoteEvery
	}
	if pollNews {
		s.newsCountdown = s.cfg.NewsEvery
	}
	s.quoteCountdown--
	s.newsCountdown--
	return nil
}

// workingSet is the active symbols, or the default symbol when nobody is
// subscribed so its data stays warm.
func (s *Scheduler) workingSet() []domain.Symbol {
	symbols := s.registry.ActiveSymbols()
	if len(symbols) == 0 {
		symbols = []domain.Symbol{s.cfg.DefaultSymbol}
	}
	if s.metrics != nil {
		s.metrics.WorkingSymbol.Set(float64(len(symbols)))
	}
	return symbols
}

// poll fetches each symbol concurrently and waits for all of them, so every
// envelope of this iteration is delivered before the next one starts.
func (s *Scheduler) poll(ctx context.Context, symbols []domain.Symbol, quotes, news bool) error {
	var g errgroup.Group
	for _, symbol := range symbols {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					slog.ErrorContext(ctx, "Symbol poll panicked", "symbol", symbol.String(), "panic", r)
					err = fmt.Errorf("poll %s: panic: %v", symbol, r)
				}
			}()
			return s.pollSymbol(ctx, symbol, quotes, news)
		})
	}
	return g.Wait()
}

func (s *Scheduler) pollSymbol(ctx context.Context, symbol domain.Symbol, quotes, news bool) error {
	if quotes {
		if q, ok := s.source.Quote(ctx, symbol); ok {
			if _, err := s.registry.FanOut(symbol, domain.QuoteEnvelope(q)); err != nil {
				return fmt.Errorf("fan out quote for %s: %w", symbol, err)
			}
		} else {
			slog.DebugContext(ctx, "No quote this round", "symbol", symbol.String())
		}
	}

	if news {
		items := s.source.News(ctx, symbol)
		if _, err := s.registry.FanOut(symbol, domain.NewsEnvelope(items)); err != nil {
			return fmt.Errorf("fan out news for %s: %w", symbol, err)
		}
	}
	return nil
}
