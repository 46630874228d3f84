package domain

import (
	"context"
	"fmt"
	"math"
	"strconv"
)

// NotAvailable is rendered in place of any figure the upstream did not supply.
const NotAvailable = "N/A"

// Figure is an optional number. Absent figures serialize as "N/A" so the
// quote schema stays stable for consumers.
type Figure struct {
	Value float64
	Valid bool
}

// Some wraps a present value.
func Some(v float64) Figure { return Figure{Value: v, Valid: true} }

// SomeNonZero treats zero as "not reported", which is how most upstream
// quote feeds encode missing numeric fields.
func SomeNonZero(v float64) Figure {
	if v == 0 {
		return Figure{}
	}
	return Some(v)
}

func (f Figure) MarshalJSON() ([]byte, error) {
	if !f.Valid || math.IsNaN(f.Value) || math.IsInf(f.Value, 0) {
		return []byte(`"` + NotAvailable + `"`), nil
	}
	return strconv.AppendFloat(nil, f.Value, 'f', -1, 64), nil
}

func (f Figure) String() string {
	if !f.Valid {
		return NotAvailable
	}
	return strconv.FormatFloat(f.Value, 'f', -1, 64)
}

// QuoteSnapshot is one point-in-time market quote for a symbol.
type QuoteSnapshot struct {
	Symbol           Symbol  `json:"symbol"`
	Name             string  `json:"name"`
	Price            float64 `json:"price"`
	Change           float64 `json:"change"`
	ChangePercent    float64 `json:"changePercent"`
	PrevClose        Figure  `json:"prevClose"`
	Open             Figure  `json:"open"`
	DayHigh          Figure  `json:"dayHigh"`
	DayLow           Figure  `json:"dayLow"`
	FiftyTwoWeekHigh Figure  `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow  Figure  `json:"fiftyTwoWeekLow"`
	Volume           string  `json:"volume"`
	AvgVolume        string  `json:"avgVolume"`
	MarketCap        string  `json:"marketCap"`
	PERatio          Figure  `json:"peRatio"`
	Beta             Figure  `json:"beta"`
	EPS              Figure  `json:"eps"`
	DividendYield    Figure  `json:"dividendYield"`
	DividendRate     Figure  `json:"dividendRate"`
	ExDividendDate   Figure  `json:"exDividendDate"`
	EarningsDate     Figure  `json:"earningsDate"`
}

// QuoteFetcher returns the latest quote for a symbol. A false second return
// means "no data this round"; implementations log their own failures.
type QuoteFetcher interface {
	FetchQuote(ctx context.Context, symbol Symbol) (*QuoteSnapshot, bool)
}

// FormatLargeNumber renders f with a T/B/M/K suffix and two decimals,
// e.g. FormatLargeNumber(Some(2.5e12), "$") == "$2.50T".
func FormatLargeNumber(f Figure, prefix string) string {
	if !f.Valid {
		return NotAvailable
	}

	v := f.Value
	switch {
	case v >= 1e12:
		return fmt.Sprintf("%s%.2fT", prefix, v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("%s%.2fB", prefix, v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%s%.2fM", prefix, v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%s%.2fK", prefix, v/1e3)
	default:
		return fmt.Sprintf("%s%.2f", prefix, v)
	}
}
