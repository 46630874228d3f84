package broadcast

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/adapter/metrics"
	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/domain"
)

type connectionSet map[domain.Connection]struct{}

// Stats is a point-in-time view of the registry size.
type Stats struct {
	Symbols       int `json:"symbols"`
	Subscriptions int `json:"subscriptions"`
}

// Registry maps symbols to the connections subscribed to them. A symbol key
// exists only while at least one connection is subscribed.
type Registry struct {
	mu          sync.RWMutex
	subscribers map[domain.Symbol]connectionSet
	metrics     *metrics.RegistryMetrics
}

// NewRegistry creates an empty registry. m may be nil.
func NewRegistry(m *metrics.RegistryMetrics) *Registry {
	return &Registry{
		subscribers: make(map[domain.Symbol]connectionSet),
		metrics:     m,
	}
}

// Subscribe adds conn to symbol's set. Subscribing twice is a no-op.
func (r *Registry) Subscribe(conn domain.Connection, symbol domain.Symbol) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.subscribers[symbol]
	if !ok {
		set = make(connectionSet)
		r.subscribers[symbol] = set
	}
	if _, already := set[conn]; already {
		return
	}
	set[conn] = struct{}{}
	r.updateGaugesLocked()

	slog.Debug("Connection subscribed", "connection_id", conn.ID().String(), "symbol", symbol.String(), "subscribers", len(set))
}

// Unsubscribe removes conn from symbol's set and drops the symbol once its
// set is empty. Unknown pairs are ignored.
func (r *Registry) Unsubscribe(conn domain.Connection, symbol domain.Symbol) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unsubscribeLocked(conn, symbol)
}

func (r *Registry) unsubscribeLocked(conn domain.Connection, symbol domain.Symbol) bool {
	set, ok := r.subscribers[symbol]
	if !ok {
		return false
	}
	if _, ok := set[conn]; !ok {
		return false
	}
	delete(set, conn)
	if len(set) == 0 {
		delete(r.subscribers, symbol)
		slog.Debug("Last subscriber left symbol", "symbol", symbol.String())
	}
	r.updateGaugesLocked()
	return true
}

// FanOut encodes env once and sends it to every connection subscribed to
// symbol. Connections that fail to accept the payload are unsubscribed after
// the pass; a failure never stops delivery to the others. It returns the
// number of successful deliveries.
func (r *Registry) FanOut(symbol domain.Symbol, env domain.Envelope) (int, error) {
	targets := r.snapshot(symbol)
	if len(targets) == 0 {
		return 0, nil
	}

	payload, err := env.Encode()
	if err != nil {
		return 0, err
	}

	start := time.Now()
	var failed []domain.Connection
	delivered := 0
	for _, conn := range targets {
		if err := conn.Send(payload); err != nil {
			slog.Debug("Delivery failed, pruning connection",
				"connection_id", conn.ID().String(),
				"symbol", symbol.String(),
				"error", err,
			)
			failed = append(failed, conn)
			continue
		}
		delivered++
	}

	if len(failed) > 0 {
		r.prune(symbol, failed)
	}

	if r.metrics != nil {
		r.metrics.FanOuts.WithLabelValues(string(env.Type)).Inc()
		r.metrics.Deliveries.Add(float64(delivered))
		r.metrics.FanOutDuration.Observe(time.Since(start).Seconds())
	}
	return delivered, nil
}

// FanOutAll calls build for every active symbol and fans out the envelopes it
// returns. A false second result skips the symbol.
func (r *Registry) FanOutAll(build func(domain.Symbol) (domain.Envelope, bool)) int {
	total := 0
	for _, symbol := range r.ActiveSymbols() {
		env, ok := build(symbol)
		if !ok {
			continue
		}
		n, err := r.FanOut(symbol, env)
		if err != nil {
			slog.Error("Fan-out failed", "symbol", symbol.String(), "type", string(env.Type), "error", err)
			continue
		}
		total += n
	}
	return total
}

// ActiveSymbols returns the symbols with at least one subscriber, sorted.
func (r *Registry) ActiveSymbols() []domain.Symbol {
	r.mu.RLock()
	symbols := make([]domain.Symbol, 0, len(r.subscribers))
	for s := range r.subscribers {
		symbols = append(symbols, s)
	}
	r.mu.RUnlock()

	slices.Sort(symbols)
	return symbols
}

func (r *Registry) SubscriberCount(symbol domain.Symbol) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subscribers[symbol])
}

func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Stats{Symbols: len(r.subscribers), Subscriptions: r.subscriptionsLocked()}
}

func (r *Registry) snapshot(symbol domain.Symbol) []domain.Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.subscribers[symbol]
	conns := make([]domain.Connection, 0, len(set))
	for c := range set {
		conns = append(conns, c)
	}
	return conns
}

func (r *Registry) prune(symbol domain.Symbol, failed []domain.Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pruned := 0
	for _, conn := range failed {
		if r.unsubscribeLocked(conn, symbol) {
			pruned++
		}
	}
	if pruned > 0 {
		slog.Info("Pruned unreachable connections", "symbol", symbol.String(), "count", pruned)
		if r.metrics != nil {
			r.metrics.Pruned.Add(float64(pruned))
		}
	}
}

func (r *Registry) subscriptionsLocked() int {
	n := 0
	for _, set := range r.subscribers {
		n += len(set)
	}
	return n
}

func (r *Registry) updateGaugesLocked() {
	if r.metrics == nil {
		return
	}
	r.metrics.ActiveSymbols.Set(float64(len(r.subscribers)))
	r.metrics.Subscriptions.Set(float64(r.subscriptionsLocked()))
}
