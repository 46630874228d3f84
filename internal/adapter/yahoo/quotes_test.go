package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/jonboulle/clockwork"
	finance "github.com/piquette/finance-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/adapter/metrics"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/domain"
)

func appleEquity() *finance.Equity {
	eq := &finance.Equity{
		LongName:                    "Apple Inc.",
		EpsTrailingTwelveMonths:     6.43,
		TrailingPE:                  29.5,
		TrailingAnnualDividendRate:  0.96,
		TrailingAnnualDividendYield: 0.0051,
		DividendDate:                1739404800,
		EarningsTimestamp:           1746046800,
		MarketCap:                   2_850_000_000_000,
	}
	eq.ShortName = "Apple Inc."
	eq.RegularMarketPrice = 190
	eq.RegularMarketPreviousClose = 200
	eq.RegularMarketOpen = 199.5
	eq.RegularMarketDayHigh = 201
	eq.RegularMarketDayLow = 189.25
	eq.FiftyTwoWeekHigh = 260.1
	eq.FiftyTwoWeekLow = 164.08
	eq.RegularMarketVolume = 54_321_000
	eq.AverageDailyVolume3Month = 1_500
	return eq
}

func newTestSource(get GetFunc) (*Source, *metrics.UpstreamMetrics) {
	m := metrics.NewUpstreamMetrics(prometheus.NewRegistry())
	return NewSource(get, clockwork.NewFakeClock(), m), m
}

func TestFetchQuote_MapsEquity(t *testing.T) {
	var requested string
	src, m := newTestSource(func(symbol string) (*finance.Equity, error) {
		requested = symbol
		return appleEquity(), nil
	})

	q, ok := src.FetchQuote(context.Background(), "AAPL")

	require.True(t, ok)
	assert.Equal(t, "AAPL", requested)
	assert.Equal(t, domain.Symbol("AAPL"), q.Symbol)
	assert.Equal(t, "Apple Inc.", q.Name)
	assert.Equal(t, 190.0, q.Price)
	assert.Equal(t, -10.0, q.Change)
	assert.Equal(t, -5.0, q.ChangePercent)
	assert.Equal(t, domain.Some(200), q.PrevClose)
	assert.Equal(t, "$54.32M", q.Volume)
	assert.Equal(t, "$1.50K", q.AvgVolume)
	assert.Equal(t, "$2.85T", q.MarketCap)
	assert.False(t, q.Beta.Valid)
	assert.Equal(t, domain.Some(6.43), q.EPS)
	assert.Equal(t, domain.Some(1746046800), q.EarningsDate)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("yahoo", "quote", "ok")))
}

func TestFetchQuote_MissingFieldsRenderAsNA(t *testing.T) {
	src, _ := newTestSource(func(string) (*finance.Equity, error) {
		eq := &finance.Equity{}
		eq.RegularMarketPrice = 12.5
		return eq, nil
	})

	q, ok := src.FetchQuote(context.Background(), "XYZ")
	require.True(t, ok)

	data, err := json.Marshal(q)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, 0.0, decoded["change"])
	assert.Equal(t, 0.0, decoded["changePercent"])
	for _, field := range []string{"prevClose", "open", "peRatio", "beta", "volume", "marketCap", "exDividendDate"} {
		assert.Equal(t, domain.NotAvailable, decoded[field], field)
	}
}

func TestFetchQuote_NoData(t *testing.T) {
	tests := []struct {
		name    string
		get     GetFunc
		outcome string
	}{
		{"unknown symbol", func(string) (*finance.Equity, error) { return nil, nil }, "not_found"},
		{"upstream error", func(string) (*finance.Equity, error) { return nil, errors.New("503") }, "error"},
		{"zero price", func(string) (*finance.Equity, error) { return &finance.Equity{}, nil }, "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, m := newTestSource(tt.get)

			q, ok := src.FetchQuote(context.Background(), "NOPE")

			assert.False(t, ok)
			assert.Nil(t, q)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("yahoo", "quote", tt.outcome)))
		})
	}
}

func TestFetchQuote_CancelledContextSkipsUpstream(t *testing.T) {
	called := false
	src, _ := newTestSource(func(string) (*finance.Equity, error) {
		called = true
		return appleEquity(), nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := src.FetchQuote(ctx, "AAPL")

	assert.False(t, ok)
	assert.False(t, called)
}

func TestSource_BreakerOpens(t *testing.T) {
	var calls atomic.Int32
	src, m := newTestSource(func(string) (*finance.Equity, error) {
		calls.Add(1)
		return nil, errors.New("connection reset")
	})

	for range 6 {
		src.FetchQuote(context.Background(), "AAPL")
	}

	assert.Equal(t, int32(5), calls.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("yahoo", "quote", "rejected")))
}

func TestSource_NotFoundDoesNotTripBreaker(t *testing.T) {
	src, _ := newTestSource(func(string) (*finance.Equity, error) { return nil, nil })

	for range 10 {
		src.FetchQuote(context.Background(), "NOPE")
	}

	assert.True(t, src.breaker.IsClosed())
}

func TestLookupName(t *testing.T) {
	t.Run("short name", func(t *testing.T) {
		src, _ := newTestSource(func(string) (*finance.Equity, error) { return appleEquity(), nil })
		name, err := src.LookupName(context.Background(), "AAPL")
		require.NoError(t, err)
		assert.Equal(t, "Apple Inc.", name)
	})

	t.Run("long name fallback", func(t *testing.T) {
		src, _ := newTestSource(func(string) (*finance.Equity, error) {
			return &finance.Equity{LongName: "Barclays PLC"}, nil
		})
		name, err := src.LookupName(context.Background(), "BCS")
		require.NoError(t, err)
		assert.Equal(t, "Barclays PLC", name)
	})

	t.Run("no name", func(t *testing.T) {
		src, _ := newTestSource(func(string) (*finance.Equity, error) { return &finance.Equity{}, nil })
		_, err := src.LookupName(context.Background(), "XYZ")
		assert.ErrorIs(t, err, domain.ErrUpstreamNotFound)
	})
}

func TestPriceChange(t *testing.T) {
	change, pct := priceChange(101.1, 100)
	assert.InDelta(t, 1.1, change, 1e-9)
	assert.InDelta(t, 1.1, pct, 1e-9)

	change, pct = priceChange(0.3, 0.1)
	assert.Equal(t, 0.2, change)
	assert.Equal(t, 200.0, pct)

	change, pct = priceChange(50, 0)
	assert.Zero(t, change)
	assert.Zero(t, pct)
}
