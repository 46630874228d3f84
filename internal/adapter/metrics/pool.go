package metrics

import "github.com/prometheus/client_golang/prometheus"

// PoolMetrics holds Prometheus metrics for the bounded fetch pool.
type PoolMetrics struct {
	InFlight  prometheus.Gauge
	Saturated prometheus.Counter
	Timeouts  prometheus.Counter
	Panics    prometheus.Counter
	Wait      prometheus.Histogram
}

// NewPoolMetrics creates and registers worker pool metrics on the given registry.
func NewPoolMetrics(reg prometheus.Registerer) *PoolMetrics {
	m := &PoolMetrics{
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "fetch_pool",
			Name:      "in_flight",
			Help:      "Number of fetch tasks currently holding a worker slot.",
		}),
		Saturated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch_pool",
			Name:      "saturated_total",
			Help:      "Total number of submissions that found every worker busy.",
		}),
		Timeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch_pool",
			Name:      "timeouts_total",
			Help:      "Total number of tasks abandoned at the fetch timeout.",
		}),
		Panics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch_pool",
			Name:      "panics_total",
			Help:      "Total number of tasks that panicked.",
		}),
		Wait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "fetch_pool",
			Name:      "wait_seconds",
			Help:      "Time spent waiting for a worker slot.",
			Buckets:   []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1, 5},
		}),
	}

	reg.MustRegister(m.InFlight, m.Saturated, m.Timeouts, m.Panics, m.Wait)
	return m
}
