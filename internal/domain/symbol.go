package domain

import "strings"

// Symbol is a normalized (upper-case, trimmed) ticker. It keys both
// subscriptions and fetches.
type Symbol string

// NormalizeSymbol trims whitespace and upper-cases raw input.
func NormalizeSymbol(raw string) Symbol {
	return Symbol(strings.ToUpper(strings.TrimSpace(raw)))
}

func (s Symbol) String() string { return string(s) }

// Valid reports whether the symbol looks like a ticker: 1-16 characters of
// letters, digits, '.', '-', '^' or '='.
func (s Symbol) Valid() bool {
	if len(s) == 0 || len(s) > 16 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '-', r == '^', r == '=':
		default:
			return false
		}
	}
	return true
}

var fallbackCompanyNames = map[Symbol]string{
	"BCS":   "Barclays PLC",
	"AAPL":  "Apple Inc.",
	"MSFT":  "Microsoft Corporation",
	"GOOGL": "Alphabet Inc.",
	"AMZN":  "Amazon.com, Inc.",
	"META":  "Meta Platforms, Inc.",
	"TSLA":  "Tesla, Inc.",
	"NVDA":  "NVIDIA Corporation",
	"JPM":   "JPMorgan Chase & Co.",
	"BAC":   "Bank of America Corporation",
}

// FallbackCompanyName returns a display name without any upstream lookup:
// a well-known name for a handful of large caps, "<SYM> Stock" otherwise.
func FallbackCompanyName(s Symbol) string {
	if name, ok := fallbackCompanyNames[s]; ok {
		return name
	}
	return string(s) + " Stock"
}
