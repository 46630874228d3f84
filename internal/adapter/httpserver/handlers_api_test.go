package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/domain"
	apperrors "github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/platform/errors"
)

func doRequest(srv *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "198.51.100.4:5555"
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestSymbolLookup_ReturnsResults(t *testing.T) {
	var gotQuery string
	dir := &mockDirectory{
		lookupFn: func(_ context.Context, query string) []domain.SymbolMatch {
			gotQuery = query
			return []domain.SymbolMatch{{Symbol: "AAPL", DisplaySymbol: "AAPL", Description: "APPLE INC", Type: "Common Stock"}}
		},
	}
	srv := newTestServer(t, dir)

	rec := doRequest(srv, "/api/symbol-lookup/apple")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "apple", gotQuery)
	assert.JSONEq(t,
		`{"results":[{"symbol":"AAPL","displaySymbol":"AAPL","description":"APPLE INC","type":"Common Stock"}]}`,
		rec.Body.String())
}

func TestSymbolLookup_EmptyResultsIsArray(t *testing.T) {
	srv := newTestServer(t, &mockDirectory{})

	rec := doRequest(srv, "/api/symbol-lookup/zzzz")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"results":[]}`, rec.Body.String())
}

func TestSymbolLookup_RejectsBlankQuery(t *testing.T) {
	srv := newTestServer(t, &mockDirectory{})

	rec := doRequest(srv, "/api/symbol-lookup/%20%20")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompanyPeers_NormalizesSymbol(t *testing.T) {
	var got domain.Symbol
	dir := &mockDirectory{
		peersFn: func(_ context.Context, symbol domain.Symbol) map[string]string {
			got = symbol
			return map[string]string{"MSFT": "Microsoft Corporation", "GOOGL": "Alphabet Inc."}
		},
	}
	srv := newTestServer(t, dir)

	rec := doRequest(srv, "/api/company-peers/aapl")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.Symbol("AAPL"), got)
	assert.JSONEq(t, `{"peers":{"MSFT":"Microsoft Corporation","GOOGL":"Alphabet Inc."}}`, rec.Body.String())
}

func TestCompanyPeers_InvalidSymbol(t *testing.T) {
	called := false
	dir := &mockDirectory{
		peersFn: func(context.Context, domain.Symbol) map[string]string {
			called = true
			return nil
		},
	}
	srv := newTestServer(t, dir)

	rec := doRequest(srv, "/api/company-peers/not%20a%20ticker")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called)

	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, apperrors.TypeValidation, resp.Type)
	assert.Equal(t, "not a ticker", resp.Context["symbol"])
}

func TestAPI_RateLimited(t *testing.T) {
	srv := newTestServer(t, &mockDirectory{}, withAPIRate(0.01, 2))

	assert.Equal(t, http.StatusOK, doRequest(srv, "/api/symbol-lookup/a").Code)
	assert.Equal(t, http.StatusOK, doRequest(srv, "/api/symbol-lookup/b").Code)

	rec := doRequest(srv, "/api/company-peers/AAPL")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), `"type":"rate_limited"`)
}

func TestStreamRoutes(t *testing.T) {
	srv := newTestServer(t, &mockDirectory{})

	for _, path := range []string{"/stream/TSLA", "/ws/TSLA"} {
		rec := doRequest(srv, path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "stream:TSLA", rec.Body.String(), path)
	}
}
