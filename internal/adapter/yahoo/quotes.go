// Package yahoo reads equity quotes and company names from Yahoo Finance
// through piquette/finance-go.
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/jonboulle/clockwork"
	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/equity"
	"github.com/shopspring/decimal"

	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/adapter/metrics"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/domain"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/platform/breaker"
)

const upstreamName = "yahoo"

// GetFunc fetches one equity. equity.Get is the production implementation.
type GetFunc func(symbol string) (*finance.Equity, error)

type Source struct {
	get     GetFunc
	clock   clockwork.Clock
	breaker circuitbreaker.CircuitBreaker[any]
	metrics *metrics.UpstreamMetrics
}

// NewSource builds a quote and name source. A nil get uses equity.Get; m
// may be nil.
func NewSource(get GetFunc, clock clockwork.Clock, m *metrics.UpstreamMetrics) *Source {
	if get == nil {
		get = equity.Get
	}
	var listener breaker.StateListener
	if m != nil {
		listener = m.BreakerListener()
	}
	return &Source{
		get:     get,
		clock:   clock,
		breaker: breaker.New(upstreamName, listener),
		metrics: m,
	}
}

// FetchQuote implements domain.QuoteFetcher. Unknown symbols and quotes
// without a price are reported as "no data".
func (s *Source) FetchQuote(ctx context.Context, symbol domain.Symbol) (*domain.QuoteSnapshot, bool) {
	eq, err := s.equity(ctx, "quote", symbol)
	if err != nil {
		if errors.Is(err, domain.ErrUpstreamNotFound) {
			slog.DebugContext(ctx, "No quote available", "symbol", symbol.String())
		} else {
			slog.ErrorContext(ctx, "Failed to fetch quote", "symbol", symbol.String(), "error", err)
		}
		return nil, false
	}
	if eq.RegularMarketPrice == 0 {
		slog.DebugContext(ctx, "Quote has no market price", "symbol", symbol.String())
		return nil, false
	}
	return toSnapshot(symbol, eq), true
}

// LookupName implements domain.NameSource.
func (s *Source) LookupName(ctx context.Context, symbol domain.Symbol) (string, error) {
	eq, err := s.equity(ctx, "name", symbol)
	if err != nil {
		return "", err
	}
	if name := strings.TrimSpace(eq.ShortName); name != "" {
		return name, nil
	}
	if name := strings.TrimSpace(eq.LongName); name != "" {
		return name, nil
	}
	return "", domain.ErrUpstreamNotFound
}

func (s *Source) equity(ctx context.Context, operation string, symbol domain.Symbol) (*finance.Equity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := s.clock.Now()
	eq, err := breaker.Run(s.breaker, countable, func() (*finance.Equity, error) {
		eq, err := s.get(symbol.String())
		if err != nil {
			return nil, fmt.Errorf("yahoo %s %s: %w", operation, symbol, err)
		}
		if eq == nil {
			return nil, domain.ErrUpstreamNotFound
		}
		return eq, nil
	})
	s.observe(operation, start, err)
	return eq, err
}

func (s *Source) observe(operation string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "ok"
	switch {
	case breaker.IsOpen(err):
		outcome = "rejected"
	case errors.Is(err, domain.ErrUpstreamNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	s.metrics.Requests.WithLabelValues(upstreamName, operation, outcome).Inc()
	s.metrics.Duration.WithLabelValues(upstreamName, operation).Observe(s.clock.Since(start).Seconds())
}

func countable(err error) bool {
	return !errors.Is(err, domain.ErrUpstreamNotFound)
}

func toSnapshot(symbol domain.Symbol, eq *finance.Equity) *domain.QuoteSnapshot {
	change, changePct := priceChange(eq.RegularMarketPrice, eq.RegularMarketPreviousClose)
	return &domain.QuoteSnapshot{
		Symbol:           symbol,
		Name:             strings.TrimSpace(eq.ShortName),
		Price:            eq.RegularMarketPrice,
		Change:           change,
		ChangePercent:    changePct,
		PrevClose:        domain.SomeNonZero(eq.RegularMarketPreviousClose),
		Open:             domain.SomeNonZero(eq.RegularMarketOpen),
		DayHigh:          domain.SomeNonZero(eq.RegularMarketDayHigh),
		DayLow:           domain.SomeNonZero(eq.RegularMarketDayLow),
		FiftyTwoWeekHigh: domain.SomeNonZero(eq.FiftyTwoWeekHigh),
		FiftyTwoWeekLow:  domain.SomeNonZero(eq.FiftyTwoWeekLow),
		Volume:           domain.FormatLargeNumber(domain.SomeNonZero(float64(eq.RegularMarketVolume)), "$"),
		AvgVolume:        domain.FormatLargeNumber(domain.SomeNonZero(float64(eq.AverageDailyVolume3Month)), "$"),
		MarketCap:        domain.FormatLargeNumber(domain.SomeNonZero(float64(eq.MarketCap)), "$"),
		PERatio:          domain.SomeNonZero(eq.TrailingPE),
		// Yahoo's quote endpoint does not carry beta.
		Beta:           domain.Figure{},
		EPS:            domain.SomeNonZero(eq.EpsTrailingTwelveMonths),
		DividendYield:  domain.SomeNonZero(eq.TrailingAnnualDividendYield),
		DividendRate:   domain.SomeNonZero(eq.TrailingAnnualDividendRate),
		ExDividendDate: domain.SomeNonZero(float64(eq.DividendDate)),
		EarningsDate:   domain.SomeNonZero(float64(eq.EarningsTimestamp)),
	}
}

// priceChange returns price-prevClose and its percentage of prevClose. Both
// are zero when either input is missing.
func priceChange(price, prevClose float64) (float64, float64) {
	if price == 0 || prevClose == 0 {
		return 0, 0
	}
	p := decimal.NewFromFloat(price)
	prev := decimal.NewFromFloat(prevClose)
	change := p.Sub(prev)
	pct := change.Div(prev).Mul(decimal.NewFromInt(100))
	return change.InexactFloat64(), pct.InexactFloat64()
}
