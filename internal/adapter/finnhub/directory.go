package finnhub

import (
	"context"
	"net/url"

	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/domain"
)

type searchResponse struct {
	Count  int                  `json:"count"`
	Result []domain.SymbolMatch `json:"result"`
}

// Search returns symbol suggestions for a free-text query.
func (c *Client) Search(ctx context.Context, query string) ([]domain.SymbolMatch, error) {
	resp, err := getJSON[searchResponse](ctx, c, "search", "/search", url.Values{"q": {query}})
	if err != nil {
		return nil, err
	}
	return resp.Result, nil
}

// Peers returns the companies Finnhub groups with symbol. Entries that are
// not valid tickers are dropped.
func (c *Client) Peers(ctx context.Context, symbol domain.Symbol) ([]domain.Symbol, error) {
	raw, err := getJSON[[]string](ctx, c, "peers", "/stock/peers", url.Values{"symbol": {symbol.String()}})
	if err != nil {
		return nil, err
	}

	peers := make([]domain.Symbol, 0, len(raw))
	seen := make(map[domain.Symbol]struct{}, len(raw))
	for _, r := range raw {
		s := domain.NormalizeSymbol(r)
		if !s.Valid() {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		peers = append(peers, s)
	}
	return peers, nil
}
