package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulerMetrics holds Prometheus metrics for the polling loop.
type SchedulerMetrics struct {
	Ticks         prometheus.Counter
	TickFailures  prometheus.Counter
	TickDuration  prometheus.Histogram
	Fetches       *prometheus.CounterVec
	FallbackNews  prometheus.Counter
	WorkingSymbol prometheus.Gauge
}

// NewSchedulerMetrics creates and registers scheduler metrics on the given registry.
func NewSchedulerMetrics(reg prometheus.Registerer) *SchedulerMetrics {
	m := &SchedulerMetrics{
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "ticks_total",
			Help:      "Total number of scheduler iterations.",
		}),
		TickFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "tick_failures_total",
			Help:      "Total number of iterations abandoned after a fault.",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "tick_duration_seconds",
			Help:      "Duration of one scheduler iteration.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "fetches_total",
			Help:      "Total number of per-symbol fetches, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		FallbackNews: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "fallback_news_total",
			Help:      "Total number of times placeholder articles replaced a failed news fetch.",
		}),
		WorkingSymbol: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "working_symbols",
			Help:      "Number of symbols polled in the last iteration.",
		}),
	}

	reg.MustRegister(m.Ticks, m.TickFailures, m.TickDuration, m.Fetches, m.FallbackNews, m.WorkingSymbol)
	return m
}
