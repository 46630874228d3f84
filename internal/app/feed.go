package app

import (
	"context"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/adapter/metrics"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/domain"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/platform/workpool"
)

// Annotator attaches a sentiment verdict to each article.
type Annotator interface {
	AttachSentiment(raw []domain.RawNewsItem) []domain.NewsItem
}

// Feed fetches fresh data for one symbol. Both the scheduler and newly bound
// sessions read through it, so concurrent requests for the same symbol share
// one upstream call.
type Feed struct {
	quotes    domain.QuoteFetcher
	news      domain.NewsFetcher
	names     domain.NameResolver
	annotator Annotator
	pool      *workpool.Pool
	clock     clockwork.Clock
	metrics   *metrics.SchedulerMetrics
	inflight  singleflight.Group
}

// NewFeed wires a feed. m may be nil.
func NewFeed(
	quotes domain.QuoteFetcher,
	news domain.NewsFetcher,
	names domain.NameResolver,
	annotator Annotator,
	pool *workpool.Pool,
	clock clockwork.Clock,
	m *metrics.SchedulerMetrics,
) *Feed {
	return &Feed{
		quotes:    quotes,
		news:      news,
		names:     names,
		annotator: annotator,
		pool:      pool,
		clock:     clock,
		metrics:   m,
	}
}

// Quote returns the latest quote, or false when none is available this round.
func (f *Feed) Quote(ctx context.Context, symbol domain.Symbol) (*domain.QuoteSnapshot, bool) {
	v, _, _ := f.inflight.Do("quote:"+symbol.String(), func() (any, error) {
		var quote *domain.QuoteSnapshot
		err := f.pool.Do(ctx, func(ctx context.Context) error {
			q, ok := f.quotes.FetchQuote(ctx, symbol)
			if ok {
				quote = q
			}
			return nil
		})
		if err != nil {
			slog.WarnContext(ctx, "Quote fetch abandoned", "symbol", symbol.String(), "error", err)
			f.recordFetch("quote", "error")
			return (*domain.QuoteSnapshot)(nil), nil
		}
		if quote == nil {
			f.recordFetch("quote", "empty")
			return quote, nil
		}

		if quote.Name == "" {
			quote.Name = f.names.CompanyName(ctx, symbol)
		}
		f.recordFetch("quote", "ok")
		return quote, nil
	})

	q, _ := v.(*domain.QuoteSnapshot)
	return q, q != nil
}

// News returns scored articles for symbol. When the upstream yields nothing
// the placeholder set is scored and returned instead, so the result is never
// empty.
func (f *Feed) News(ctx context.Context, symbol domain.Symbol) []domain.NewsItem {
	v, _, _ := f.inflight.Do("news:"+symbol.String(), func() (any, error) {
		var fetched []domain.RawNewsItem
		err := f.pool.Do(ctx, func(ctx context.Context) error {
			fetched = f.news.FetchNews(ctx, symbol)
			return nil
		})

		// fetched may still be written by an abandoned task; only read it on success.
		var raw []domain.RawNewsItem
		switch {
		case err != nil:
			slog.WarnContext(ctx, "News fetch abandoned, using placeholders", "symbol", symbol.String(), "error", err)
			f.recordFetch("news", "error")
		case len(fetched) == 0:
			f.recordFetch("news", "empty")
		default:
			raw = fetched
			f.recordFetch("news", "ok")
		}

		if len(raw) == 0 {
			raw = PlaceholderNews(symbol, f.names.CompanyName(ctx, symbol), f.clock.Now())
			if f.metrics != nil {
				f.metrics.FallbackNews.Inc()
			}
		}
		return f.annotator.AttachSentiment(raw), nil
	})

	items, _ := v.([]domain.NewsItem)
	return items
}

// Snapshot returns the envelopes pushed to a viewer that just bound to
// symbol: a quote when one is available, then news.
func (f *Feed) Snapshot(ctx context.Context, symbol domain.Symbol) []domain.Envelope {
	envelopes := make([]domain.Envelope, 0, 2)
	if q, ok := f.Quote(ctx, symbol); ok {
		envelopes = append(envelopes, domain.QuoteEnvelope(q))
	}
	return append(envelopes, domain.NewsEnvelope(f.News(ctx, symbol)))
}

func (f *Feed) recordFetch(kind, outcome string) {
	if f.metrics != nil {
		f.metrics.Fetches.WithLabelValues(kind, outcome).Inc()
	}
}
