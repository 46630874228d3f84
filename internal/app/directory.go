package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/domain"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/platform/workpool"
)

const maxLookupResults = 5

// Directory answers the auxiliary search and peer endpoints. Upstream
// failures degrade to empty results.
type Directory struct {
	upstream domain.SymbolDirectory
	names    domain.NameResolver
	pool     *workpool.Pool
}

func NewDirectory(upstream domain.SymbolDirectory, names domain.NameResolver, pool *workpool.Pool) *Directory {
	return &Directory{upstream: upstream, names: names, pool: pool}
}

// Lookup returns at most five symbol suggestions for query. The upstream
// search runs on the fetch pool.
func (d *Directory) Lookup(ctx context.Context, query string) []domain.SymbolMatch {
	var matches []domain.SymbolMatch
	err := d.pool.Do(ctx, func(ctx context.Context) error {
		m, err := d.upstream.Search(ctx, query)
		matches = m
		return err
	})
	if err != nil {
		slog.ErrorContext(ctx, "Symbol lookup failed", "query", query, "error", err)
		return []domain.SymbolMatch{}
	}
	if len(matches) > maxLookupResults {
		matches = matches[:maxLookupResults]
	}
	if matches == nil {
		matches = []domain.SymbolMatch{}
	}
	return matches
}

// Peers maps every peer of symbol to its display name. The peer query and
// each name lookup run on the fetch pool; a name that does not resolve in
// time gets the static fallback.
func (d *Directory) Peers(ctx context.Context, symbol domain.Symbol) map[string]string {
	// Results are only read when the pool reports the task finished; an
	// abandoned task may still write them.
	var peers []domain.Symbol
	err := d.pool.Do(ctx, func(ctx context.Context) error {
		p, err := d.upstream.Peers(ctx, symbol)
		peers = p
		return err
	})
	if err != nil {
		slog.ErrorContext(ctx, "Company peers lookup failed", "symbol", symbol.String(), "error", err)
		return map[string]string{}
	}

	var mu sync.Mutex
	resolved := make(map[domain.Symbol]string, len(peers))
	errs := workpool.ForEach(ctx, d.pool, peers, func(ctx context.Context, peer domain.Symbol) error {
		name := d.names.CompanyName(ctx, peer)
		mu.Lock()
		resolved[peer] = name
		mu.Unlock()
		return nil
	})

	names := make(map[string]string, len(peers))
	for i, peer := range peers {
		mu.Lock()
		name := resolved[peer]
		mu.Unlock()
		if errs[i] != nil || name == "" {
			name = domain.FallbackCompanyName(peer)
		}
		names[peer.String()] = name
	}
	return names
}
