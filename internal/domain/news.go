package domain

import "context"

// RawNewsItem is an article as delivered by a news collaborator, before
// sentiment is attached.
type RawNewsItem struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Source   string `json:"source"`
	Image    string `json:"image"`
	Related  string `json:"related"`
	URL      string `json:"url"`
}

// SentimentText is the span scored for an article.
func (r RawNewsItem) SentimentText() string {
	return r.Headline + " " + r.Summary
}

// NewsItem is a RawNewsItem with its fused sentiment verdict.
type NewsItem struct {
	RawNewsItem
	Sentiment SentimentVerdict `json:"sentiment"`
}

// NewsFetcher returns recent articles for a symbol. An empty result means
// the fetch failed or found nothing.
type NewsFetcher interface {
	FetchNews(ctx context.Context, symbol Symbol) []RawNewsItem
}

// SymbolMatch is one symbol search suggestion.
type SymbolMatch struct {
	Symbol        string `json:"symbol"`
	DisplaySymbol string `json:"displaySymbol"`
	Description   string `json:"description"`
	Type          string `json:"type"`
}

// SymbolDirectory answers symbol search and peer queries.
type SymbolDirectory interface {
	Search(ctx context.Context, query string) ([]SymbolMatch, error)
	Peers(ctx context.Context, symbol Symbol) ([]Symbol, error)
}

// NameResolver maps a symbol to a display name. It never fails: resolvers
// fall back to FallbackCompanyName.
type NameResolver interface {
	CompanyName(ctx context.Context, symbol Symbol) string
}

// NameSource is an upstream that may know a company's name.
type NameSource interface {
	LookupName(ctx context.Context, symbol Symbol) (string, error)
}
