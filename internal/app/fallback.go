package app

import (
	"fmt"
	"time"

	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/domain"
)

type placeholder struct {
	headline string
	source   string
	summary  string
}

var placeholders = []placeholder{
	{"%s Reports Strong Quarterly Earnings", "Financial Times", "%s exceeded analyst expectations with quarterly revenue growth of 15%% year-over-year."},
	{"Analysts Upgrade %s Stock Rating", "Bloomberg", "Several major analysts have upgraded their outlook on %s, citing strong growth potential."},
	{"%s Announces New Product Launch", "Reuters", "%s is set to launch a new innovative product next month, which could drive significant revenue growth."},
	{"Market Concerns Impact %s Stock", "CNBC", "Broader market concerns have led to volatility in %s's stock price despite strong fundamentals."},
	{"%s Expands International Operations", "Wall Street Journal", "%s has announced plans to expand its operations in emerging markets, targeting new growth opportunities."},
}

// PlaceholderNews builds the deterministic articles shown when no real news
// could be fetched. Article i is dated i hours before now.
func PlaceholderNews(symbol domain.Symbol, company string, now time.Time) []domain.RawNewsItem {
	items := make([]domain.RawNewsItem, 0, len(placeholders))
	for i, p := range placeholders {
		n := int64(i + 1)
		items = append(items, domain.RawNewsItem{
			ID:       n,
			Category: "general",
			Datetime: now.Unix() - n*3600,
			Headline: fmt.Sprintf(p.headline, company),
			Summary:  fmt.Sprintf(p.summary, company),
			Source:   p.source,
			Image:    "",
			Related:  symbol.String(),
			URL:      fmt.Sprintf("https://example.com/news/%d", n),
		})
	}
	return items
}
