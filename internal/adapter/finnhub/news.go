package finnhub

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/domain"
)

const dateLayout = "2006-01-02"

// article mirrors /company-news. Pointer fields tell a missing key from an
// empty one so defaults only fill what Finnhub left out.
type article struct {
	Category *string `json:"category"`
	Datetime *int64  `json:"datetime"`
	Headline *string `json:"headline"`
	ID       *int64  `json:"id"`
	Image    *string `json:"image"`
	Related  *string `json:"related"`
	Source   *string `json:"source"`
	Summary  *string `json:"summary"`
	URL      *string `json:"url"`
}

// FetchNews returns the most recent articles for symbol within the lookback
// window. Any failure yields an empty result.
func (c *Client) FetchNews(ctx context.Context, symbol domain.Symbol) []domain.RawNewsItem {
	now := c.clock.Now()
	query := url.Values{
		"symbol": {symbol.String()},
		"from":   {now.Add(-c.lookback).Format(dateLayout)},
		"to":     {now.Format(dateLayout)},
	}

	articles, err := getJSON[[]article](ctx, c, "company_news", "/company-news", query)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to fetch company news", "symbol", symbol.String(), "error", err)
		return nil
	}

	if c.maxItems > 0 && len(articles) > c.maxItems {
		articles = articles[:c.maxItems]
	}

	items := make([]domain.RawNewsItem, 0, len(articles))
	for _, a := range articles {
		items = append(items, a.normalize(symbol, now.Unix()))
	}
	return items
}

func (a article) normalize(symbol domain.Symbol, now int64) domain.RawNewsItem {
	return domain.RawNewsItem{
		ID:       valueOr(a.ID, 0),
		Category: valueOr(a.Category, "general"),
		Datetime: valueOr(a.Datetime, now),
		Headline: valueOr(a.Headline, "No headline"),
		Summary:  valueOr(a.Summary, "No summary available."),
		Source:   valueOr(a.Source, "Unknown"),
		Image:    stripBackticks(valueOr(a.Image, "")),
		Related:  valueOr(a.Related, symbol.String()),
		URL:      stripBackticks(valueOr(a.URL, "")),
	}
}

func valueOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

// stripBackticks removes the `...` quoting Finnhub sometimes puts around URLs.
func stripBackticks(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, "`") && strings.HasSuffix(s, "`") {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
