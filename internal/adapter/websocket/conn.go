package websocket

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/adapter/metrics"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/domain"
)

const (
	writeDeadline  = 5 * time.Second
	pingInterval   = 30 * time.Second
	pongDeadline   = 60 * time.Second
	sendBufferSize = 16
	maxMessageSize = 4096
)

// Conn is one websocket viewer. A dedicated goroutine owns all data writes;
// Send only queues and never blocks.
type Conn struct {
	id      uuid.UUID
	ws      *websocket.Conn
	clock   clockwork.Clock
	metrics *metrics.WebSocketMetrics

	send     chan []byte
	done     chan struct{}
	broken   atomic.Bool
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewConn starts the writer goroutine for ws. m may be nil.
func NewConn(ws *websocket.Conn, clock clockwork.Clock, m *metrics.WebSocketMetrics) *Conn {
	c := &Conn{
		id:      uuid.New(),
		ws:      ws,
		clock:   clock,
		metrics: m,
		send:    make(chan []byte, sendBufferSize),
		done:    make(chan struct{}),
	}
	ws.SetReadLimit(maxMessageSize)
	c.configurePongHandler()
	c.wg.Add(1)
	go c.run()
	return c
}

func (c *Conn) ID() uuid.UUID { return c.id }

// Send queues payload for the writer. It fails immediately when the
// connection is closed or its buffer is full.
func (c *Conn) Send(payload []byte) error {
	if c.broken.Load() {
		c.recordSendFailure("closed")
		return domain.ErrConnectionClosed
	}
	select {
	case <-c.done:
		c.recordSendFailure("closed")
		return domain.ErrConnectionClosed
	default:
	}

	select {
	case c.send <- payload:
		return nil
	default:
		c.recordSendFailure("buffer_full")
		return domain.ErrSendBufferFull
	}
}

func (c *Conn) run() {
	ticker := c.clock.NewTicker(pingInterval)
	defer ticker.Stop()
	defer c.wg.Done()

	for {
		select {
		case msg := <-c.send:
			start := c.clock.Now()
			c.updateWriteDeadline()
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.fail("write")
				return
			}
			if c.metrics != nil {
				c.metrics.MessagesSent.Inc()
				c.metrics.SendDuration.Observe(c.clock.Since(start).Seconds())
			}
		case <-ticker.Chan():
			c.updateWriteDeadline()
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				if c.metrics != nil {
					c.metrics.PingFailures.Inc()
				}
				c.fail("ping")
				return
			}
		case <-c.done:
			return
		}
	}
}

// fail marks the connection unusable after a write error. Closing the socket
// unblocks the reader, which then tears the session down.
func (c *Conn) fail(reason string) {
	c.broken.Store(true)
	c.recordSendFailure(reason)
	_ = c.ws.Close()
}

// Close stops the writer and closes the socket without a close frame.
func (c *Conn) Close() {
	c.stopOnce.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
	c.wg.Wait()
}

// CloseGraceful sends a close frame with reason before closing.
func (c *Conn) CloseGraceful(reason string) {
	c.stopOnce.Do(func() {
		close(c.done)
		// The writer must exit before the close frame goes out.
		c.wg.Wait()

		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, reason)
		_ = c.ws.WriteControl(websocket.CloseMessage, msg, c.clock.Now().Add(writeDeadline))
		_ = c.ws.Close()
	})
	c.wg.Wait()
}

func (c *Conn) configurePongHandler() {
	c.extendReadDeadline()
	c.ws.SetPongHandler(func(string) error {
		c.extendReadDeadline()
		return nil
	})
}

func (c *Conn) extendReadDeadline() {
	_ = c.ws.SetReadDeadline(c.clock.Now().Add(pongDeadline))
}

func (c *Conn) updateWriteDeadline() {
	_ = c.ws.SetWriteDeadline(c.clock.Now().Add(writeDeadline))
}

func (c *Conn) recordSendFailure(reason string) {
	if c.metrics != nil {
		c.metrics.SendFailures.WithLabelValues(reason).Inc()
	}
}
