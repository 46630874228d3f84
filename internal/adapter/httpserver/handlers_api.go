package httpserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/domain"
	apperrors "github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/platform/errors"
)

const maxQueryLength = 64

type lookupResponse struct {
	Results []domain.SymbolMatch `json:"results"`
}

type peersResponse struct {
	Peers map[string]string `json:"peers"`
}

func (s *Server) registerAPIRoutes() {
	api := s.echo.Group("/api", newRateLimiter(s.config.APIRateLimit, s.config.APIRateBurst))
	api.GET("/symbol-lookup/:query", s.handleSymbolLookup)
	api.GET("/company-peers/:symbol", s.handleCompanyPeers)
}

func (s *Server) handleSymbolLookup(c echo.Context) error {
	query := strings.TrimSpace(c.Param("query"))
	if query == "" || len(query) > maxQueryLength {
		return apperrors.ValidationError("query must be between 1 and 64 characters").WithField("query", query)
	}

	results := s.directory.Lookup(c.Request().Context(), query)
	if err := c.JSON(http.StatusOK, lookupResponse{Results: results}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleCompanyPeers(c echo.Context) error {
	raw := c.Param("symbol")
	symbol := domain.NormalizeSymbol(raw)
	if !symbol.Valid() {
		return apperrors.ValidationError("invalid symbol").WithField("symbol", raw)
	}

	peers := s.directory.Peers(c.Request().Context(), symbol)
	if err := c.JSON(http.StatusOK, peersResponse{Peers: peers}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
