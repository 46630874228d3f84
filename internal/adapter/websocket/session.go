package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/adapter/metrics"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/domain"
)

// Registry is the subscription registry as seen by a session.
type Registry interface {
	Subscribe(conn domain.Connection, symbol domain.Symbol)
	Unsubscribe(conn domain.Connection, symbol domain.Symbol)
}

// SnapshotSource produces the envelopes pushed right after binding.
type SnapshotSource interface {
	Snapshot(ctx context.Context, symbol domain.Symbol) []domain.Envelope
}

type SessionState int

const (
	StateBound SessionState = iota
	StateClosed
)

func (s SessionState) String() string {
	if s == StateClosed {
		return "closed"
	}
	return "bound"
}

// Session tracks which symbol one connection is bound to. It is Bound from
// creation until Close, after which it ignores everything.
type Session struct {
	conn     domain.Connection
	registry Registry
	source   SnapshotSource
	metrics  *metrics.WebSocketMetrics

	mu     sync.Mutex
	symbol domain.Symbol
	state  SessionState
}

func NewSession(conn domain.Connection, symbol domain.Symbol, registry Registry, source SnapshotSource, m *metrics.WebSocketMetrics) *Session {
	return &Session{
		conn:     conn,
		registry: registry,
		source:   source,
		metrics:  m,
		symbol:   symbol,
		state:    StateBound,
	}
}

// Open registers the initial subscription and pushes fresh data for it.
func (s *Session) Open(ctx context.Context) {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	symbol := s.symbol
	s.registry.Subscribe(s.conn, symbol)
	s.mu.Unlock()

	slog.InfoContext(ctx, "Stream session opened", "connection_id", s.conn.ID().String(), "symbol", symbol.String())
	s.push(ctx, symbol)
}

// HandleMessage processes one inbound frame. Only a subscribe action naming
// a different valid symbol has an effect; anything else is dropped.
func (s *Session) HandleMessage(ctx context.Context, data []byte) {
	var msg domain.ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil || msg.Action != domain.ActionSubscribe {
		s.ignore(ctx, "unsupported message")
		return
	}
	next := domain.NormalizeSymbol(msg.Symbol)
	if !next.Valid() {
		s.ignore(ctx, "invalid symbol")
		return
	}

	s.mu.Lock()
	if s.state == StateClosed || next == s.symbol {
		s.mu.Unlock()
		return
	}
	prev := s.symbol
	// Not atomic with respect to fan-out: a push for prev may still arrive
	// after this point, and one for next may be missed until the next poll.
	s.registry.Unsubscribe(s.conn, prev)
	s.registry.Subscribe(s.conn, next)
	s.symbol = next
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.Resubscribes.Inc()
	}
	slog.DebugContext(ctx, "Session resubscribed", "connection_id", s.conn.ID().String(), "from", prev.String(), "to", next.String())
	s.push(ctx, next)
}

// Close unsubscribes and moves the session to Closed. Repeated calls are no-ops.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return
	}
	s.registry.Unsubscribe(s.conn, s.symbol)
	s.state = StateClosed
}

func (s *Session) Symbol() domain.Symbol {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.symbol
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) push(ctx context.Context, symbol domain.Symbol) {
	for _, env := range s.source.Snapshot(ctx, symbol) {
		payload, err := env.Encode()
		if err != nil {
			slog.ErrorContext(ctx, "Failed to encode snapshot", "symbol", symbol.String(), "error", err)
			continue
		}
		if err := s.conn.Send(payload); err != nil {
			slog.DebugContext(ctx, "Snapshot push failed", "connection_id", s.conn.ID().String(), "error", err)
			return
		}
	}
}

func (s *Session) ignore(ctx context.Context, reason string) {
	if s.metrics != nil {
		s.metrics.IgnoredMessages.Inc()
	}
	slog.DebugContext(ctx, "Ignoring client message", "connection_id", s.conn.ID().String(), "reason", reason)
}
