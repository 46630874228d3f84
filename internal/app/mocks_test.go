package app

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/domain"
)

type fakeBroadcaster struct {
	mu      sync.Mutex
	active  []domain.Symbol
	fanOuts map[domain.Symbol][]domain.Envelope
	err     error
}

func newFakeBroadcaster(active ...domain.Symbol) *fakeBroadcaster {
	return &fakeBroadcaster{active: active, fanOuts: make(map[domain.Symbol][]domain.Envelope)}
}

func (b *fakeBroadcaster) ActiveSymbols() []domain.Symbol {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Symbol(nil), b.active...)
}

func (b *fakeBroadcaster) FanOut(symbol domain.Symbol, env domain.Envelope) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return 0, b.err
	}
	b.fanOuts[symbol] = append(b.fanOuts[symbol], env)
	return 1, nil
}

func (b *fakeBroadcaster) sent(symbol domain.Symbol) []domain.Envelope {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Envelope(nil), b.fanOuts[symbol]...)
}

type fakeSource struct {
	mu         sync.Mutex
	quoteCalls map[domain.Symbol]int
	newsCalls  map[domain.Symbol]int
	noQuote    bool
	panicOnce  bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{quoteCalls: make(map[domain.Symbol]int), newsCalls: make(map[domain.Symbol]int)}
}

func (s *fakeSource) Quote(_ context.Context, symbol domain.Symbol) (*domain.QuoteSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quoteCalls[symbol]++
	if s.panicOnce {
		s.panicOnce = false
		panic("upstream exploded")
	}
	if s.noQuote {
		return nil, false
	}
	return &domain.QuoteSnapshot{Symbol: symbol, Price: 10}, true
}

func (s *fakeSource) News(_ context.Context, symbol domain.Symbol) []domain.NewsItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newsCalls[symbol]++
	return []domain.NewsItem{{RawNewsItem: domain.RawNewsItem{ID: 1, Related: symbol.String()}}}
}

func (s *fakeSource) counts(symbol domain.Symbol) (quotes, news int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quoteCalls[symbol], s.newsCalls[symbol]
}

type quoteFetcherFunc func(ctx context.Context, symbol domain.Symbol) (*domain.QuoteSnapshot, bool)

func (f quoteFetcherFunc) FetchQuote(ctx context.Context, symbol domain.Symbol) (*domain.QuoteSnapshot, bool) {
	return f(ctx, symbol)
}

type newsFetcherFunc func(ctx context.Context, symbol domain.Symbol) []domain.RawNewsItem

func (f newsFetcherFunc) FetchNews(ctx context.Context, symbol domain.Symbol) []domain.RawNewsItem {
	return f(ctx, symbol)
}

type staticNames map[domain.Symbol]string

func (n staticNames) CompanyName(_ context.Context, symbol domain.Symbol) string {
	if name, ok := n[symbol]; ok {
		return name
	}
	return domain.FallbackCompanyName(symbol)
}

type fakeDirectory struct {
	matches []domain.SymbolMatch
	peers   []domain.Symbol
	err     error

	// hang makes every call block until its context ends.
	hang        bool
	sawDeadline atomic.Bool
}

func (d *fakeDirectory) wait(ctx context.Context) error {
	_, ok := ctx.Deadline()
	d.sawDeadline.Store(ok)
	if d.hang {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func (d *fakeDirectory) Search(ctx context.Context, _ string) ([]domain.SymbolMatch, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	return d.matches, d.err
}

func (d *fakeDirectory) Peers(ctx context.Context, _ domain.Symbol) ([]domain.Symbol, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	return d.peers, d.err
}
