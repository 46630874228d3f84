package metrics

import (
	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rahulk210390/Stocks-News-Sentiment-Dashboard/internal/platform/breaker"
)

// UpstreamMetrics holds Prometheus metrics for calls to market data providers
// and the circuit breakers guarding them.
type UpstreamMetrics struct {
	Requests      *prometheus.CounterVec
	Duration      *prometheus.HistogramVec
	Retries       *prometheus.CounterVec
	BreakerState  *prometheus.GaugeVec
	BreakerEvents *prometheus.CounterVec
}

// NewUpstreamMetrics creates and registers upstream metrics on the given registry.
func NewUpstreamMetrics(reg prometheus.Registerer) *UpstreamMetrics {
	m := &UpstreamMetrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total number of upstream calls, by upstream, operation and outcome.",
		}, []string{"upstream", "operation", "outcome"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Duration of upstream calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"upstream", "operation"}),
		Retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "retries_total",
			Help:      "Total number of retried upstream calls.",
		}, []string{"upstream"}),
		BreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "circuit_breaker",
			Name:      "state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open).",
		}, []string{"component"}),
		BreakerEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "circuit_breaker",
			Name:      "state_changes_total",
			Help:      "Total number of circuit breaker transitions, by target state.",
		}, []string{"component", "state"}),
	}

	reg.MustRegister(m.Requests, m.Duration, m.Retries, m.BreakerState, m.BreakerEvents)
	return m
}

// BreakerListener exports breaker transitions.
func (m *UpstreamMetrics) BreakerListener() breaker.StateListener {
	return func(name string, _, to circuitbreaker.State) {
		m.BreakerEvents.WithLabelValues(name, to.String()).Inc()
		m.BreakerState.WithLabelValues(name).Set(breaker.StateValue(to))
	}
}
