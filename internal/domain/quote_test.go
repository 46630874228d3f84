package domain

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatLargeNumber(t *testing.T) {
	tests := []struct {
		name   string
		value  Figure
		prefix string
		want   string
	}{
		{"absent", Figure{}, "$", "N/A"},
		{"trillions", Some(2.5e12), "$", "$2.50T"},
		{"billions", Some(3_456_000_000), "$", "$3.46B"},
		{"millions", Some(12_340_000), "", "12.34M"},
		{"thousands", Some(1500), "", "1.50K"},
		{"small", Some(999.5), "$", "$999.50"},
		{"zero present", Some(0), "", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatLargeNumber(tt.value, tt.prefix))
		})
	}
}

func TestFigure_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   Figure
		want string
	}{
		{"present", Some(28.51), `28.51`},
		{"integral", Some(1700000000), `1700000000`},
		{"absent", Figure{}, `"N/A"`},
		{"nan is absent", Some(math.NaN()), `"N/A"`},
		{"zero treated as missing", SomeNonZero(0), `"N/A"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestQuoteSnapshot_StableSchema(t *testing.T) {
	q := &QuoteSnapshot{Symbol: "AAPL", Name: "Apple Inc.", Price: 190.5, PrevClose: Some(188)}

	data, err := json.Marshal(q)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	for _, key := range []string{"peRatio", "beta", "eps", "dividendYield", "dividendRate", "exDividendDate", "earningsDate"} {
		assert.Equal(t, "N/A", fields[key], key)
	}
	assert.Equal(t, 188.0, fields["prevClose"])
}

func TestEnvelope_Encode(t *testing.T) {
	data, err := NewsEnvelope(nil).Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"news","data":[]}`, string(data))

	data, err = QuoteEnvelope(&QuoteSnapshot{Symbol: "BCS"}).Encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"quote"`)
	assert.Contains(t, string(data), `"symbol":"BCS"`)
}

func TestEnvelope_EncodeOnlyCarriesMatchingPayload(t *testing.T) {
	env := NewsEnvelope([]NewsItem{{RawNewsItem: RawNewsItem{Headline: "Barclays beats"}}})
	env.Quote = &QuoteSnapshot{Symbol: "BCS"}

	data, err := env.Encode()
	require.NoError(t, err)

	var wire map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Len(t, wire, 2)
	assert.JSONEq(t, `"news"`, string(wire["type"]))
	assert.True(t, strings.HasPrefix(string(wire["data"]), "["))
	assert.NotContains(t, string(data), "BCS")
}

func TestEnvelope_EncodeRejectsMissingPayload(t *testing.T) {
	_, err := Envelope{Type: EnvelopeQuote}.Encode()
	require.Error(t, err)

	_, err = Envelope{Type: "trade"}.Encode()
	require.Error(t, err)
}

func TestEnvelope_EncodeRejectsNaNPrice(t *testing.T) {
	_, err := QuoteEnvelope(&QuoteSnapshot{Symbol: "BCS", Price: math.NaN()}).Encode()
	require.Error(t, err)
}
