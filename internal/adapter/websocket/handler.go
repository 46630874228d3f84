package websocket

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"

	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/adapter/metrics"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/domain"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/platform/correlation"
	apperrors "github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/platform/errors"
)

type HandlerConfig struct {
	AppURL          string
	Development     bool
	MaxConnections  int
	MaxPerIP        int
	ConnectionRate  float64
	ConnectionBurst int
}

// Handler upgrades stream requests and runs one session per connection.
type Handler struct {
	upgrader websocket.Upgrader
	limits   *ConnectionLimits
	registry Registry
	source   SnapshotSource
	clock    clockwork.Clock
	metrics  *metrics.WebSocketMetrics

	mu       sync.Mutex
	conns    map[*Conn]struct{}
	draining bool
}

// NewHandler creates the stream handler. m may be nil.
func NewHandler(cfg HandlerConfig, registry Registry, source SnapshotSource, clock clockwork.Clock, m *metrics.WebSocketMetrics) *Handler {
	return &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     NewCheckOrigin(cfg.AppURL, cfg.Development),
		},
		limits:   NewConnectionLimits(cfg.MaxConnections, cfg.MaxPerIP, cfg.ConnectionRate, cfg.ConnectionBurst, clock),
		registry: registry,
		source:   source,
		clock:    clock,
		metrics:  m,
		conns:    make(map[*Conn]struct{}),
	}
}

// Stream serves GET /stream/:symbol. It blocks for the lifetime of the
// connection.
func (h *Handler) Stream(c echo.Context) error {
	raw := c.Param("symbol")
	symbol := domain.NormalizeSymbol(raw)
	if !symbol.Valid() {
		return apperrors.ValidationError("invalid symbol").WithField("symbol", raw)
	}

	ip := c.RealIP()
	if ok, reason := h.limits.Acquire(ip); !ok {
		if h.metrics != nil {
			h.metrics.ConnectionsRejected.WithLabelValues(string(reason)).Inc()
		}
		slog.Warn("Stream connection rejected", "reason", string(reason), "ip", ip)
		if reason == LimitReasonGlobal {
			return apperrors.UnavailableError("server at connection capacity", nil)
		}
		return apperrors.RateLimitedError("too many connections")
	}
	defer h.limits.Release(ip)

	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already written an HTTP error response.
		slog.Debug("Stream upgrade failed", "error", err)
		return nil
	}

	conn := NewConn(ws, h.clock, h.metrics)
	if !h.track(conn) {
		conn.CloseGraceful("server shutting down")
		return nil
	}
	defer h.untrack(conn)

	ctx := correlation.WithID(context.WithoutCancel(c.Request().Context()), correlation.NewID())
	session := NewSession(conn, symbol, h.registry, h.source, h.metrics)
	session.Open(ctx)

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.DebugContext(ctx, "Stream read ended", "connection_id", conn.ID().String(), "error", err)
			}
			break
		}
		conn.extendReadDeadline()
		session.HandleMessage(ctx, data)
	}

	session.Close()
	conn.Close()
	slog.InfoContext(ctx, "Stream session closed", "connection_id", conn.ID().String(), "symbol", session.Symbol().String())
	return nil
}

// Shutdown closes every live connection with a close frame and rejects new
// ones. Read loops observe the close and release their sessions.
func (h *Handler) Shutdown(reason string) {
	h.mu.Lock()
	h.draining = true
	conns := make([]*Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	slog.Info("Closing stream connections", "count", len(conns), "reason", reason)
	var wg sync.WaitGroup
	for _, c := range conns {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.CloseGraceful(reason)
		}()
	}
	wg.Wait()
}

func (h *Handler) ActiveConnections() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *Handler) track(c *Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.draining {
		return false
	}
	h.conns[c] = struct{}{}
	if h.metrics != nil {
		h.metrics.ActiveConnections.Inc()
	}
	return true
}

func (h *Handler) untrack(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[c]; !ok {
		return
	}
	delete(h.conns, c)
	if h.metrics != nil {
		h.metrics.ActiveConnections.Dec()
	}
}
