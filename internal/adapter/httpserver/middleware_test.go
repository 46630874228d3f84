package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/platform/correlation"
	apperrors "github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/platform/errors"
)

func runMiddleware(t *testing.T, handler echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, ErrorHandlingMiddleware()(handler)(c)
}

func TestMiddlewareWithStructuredError(t *testing.T) {
	rec, err := runMiddleware(t, func(c echo.Context) error {
		return apperrors.ValidationError("invalid input").WithField("symbol", "??")
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid input", resp.Error)
	assert.Equal(t, apperrors.TypeValidation, resp.Type)
	assert.Equal(t, "??", resp.Context["symbol"])
}

func TestMiddlewareWithStandardError(t *testing.T) {
	rec, err := runMiddleware(t, func(c echo.Context) error {
		return errors.New("standard error")
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "internal server error", resp.Error)
	assert.Equal(t, apperrors.TypeInternal, resp.Type)
}

func TestMiddlewareStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"rate limited", apperrors.RateLimitedError("slow down"), http.StatusTooManyRequests},
		{"unavailable", apperrors.UnavailableError("full", nil), http.StatusServiceUnavailable},
		{"external", apperrors.ExternalError("finnhub", errors.New("timeout")), http.StatusBadGateway},
		{"not found", apperrors.NotFoundError("nope"), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := runMiddleware(t, func(echo.Context) error { return tt.err })
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestMiddlewarePassesEchoHTTPError(t *testing.T) {
	httpErr := echo.NewHTTPError(http.StatusMethodNotAllowed, "nope")
	_, err := runMiddleware(t, func(echo.Context) error { return httpErr })

	assert.Same(t, httpErr, err)
}

func TestMiddlewareWithNoError(t *testing.T) {
	rec, err := runMiddleware(t, func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestCorrelationMiddleware_AttachesID(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	var (
		id string
		ok bool
	)
	err := correlationMiddleware(func(c echo.Context) error {
		id, ok = correlation.ID(c.Request().Context())
		return nil
	})(c)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, id)
}
