package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/domain"
)

// newTestConnPair returns the server and client ends of a live websocket.
func newTestConnPair(t *testing.T) (*websocket.Conn, *websocket.Conn) {
	t.Helper()
	serverConn := make(chan *websocket.Conn, 1)
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverConn <- ws
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	select {
	case ws := <-serverConn:
		return ws, client
	case <-time.After(2 * time.Second):
		t.Fatal("server side of websocket never arrived")
		return nil, nil
	}
}

type fakeConn struct {
	id uuid.UUID

	mu      sync.Mutex
	sent    [][]byte
	sendErr error
}

func newFakeConn() *fakeConn { return &fakeConn{id: uuid.New()} }

func (c *fakeConn) ID() uuid.UUID { return c.id }

func (c *fakeConn) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendErr != nil {
		return c.sendErr
	}
	c.sent = append(c.sent, payload)
	return nil
}

func (c *fakeConn) payloads() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.sent))
	for i, p := range c.sent {
		out[i] = string(p)
	}
	return out
}

type call struct {
	op     string
	symbol domain.Symbol
}

type recordingRegistry struct {
	mu    sync.Mutex
	calls []call
}

func (r *recordingRegistry) Subscribe(_ domain.Connection, s domain.Symbol) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{"subscribe", s})
}

func (r *recordingRegistry) Unsubscribe(_ domain.Connection, s domain.Symbol) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{"unsubscribe", s})
}

func (r *recordingRegistry) history() []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]call(nil), r.calls...)
}

// stubSource returns a quote and a one-item news envelope for any symbol.
type stubSource struct {
	mu        sync.Mutex
	requested []domain.Symbol
}

func (s *stubSource) Snapshot(_ context.Context, symbol domain.Symbol) []domain.Envelope {
	s.mu.Lock()
	s.requested = append(s.requested, symbol)
	s.mu.Unlock()
	return []domain.Envelope{
		domain.QuoteEnvelope(&domain.QuoteSnapshot{Symbol: symbol, Name: symbol.String() + " Inc.", Price: 42}),
		domain.NewsEnvelope([]domain.NewsItem{{RawNewsItem: domain.RawNewsItem{ID: 1, Related: symbol.String()}}}),
	}
}

func (s *stubSource) symbols() []domain.Symbol {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Symbol(nil), s.requested...)
}
