package metrics

import "github.com/prometheus/client_golang/prometheus"

// SentimentMetrics holds Prometheus metrics for article scoring.
type SentimentMetrics struct {
	Verdicts *prometheus.CounterVec
	Duration prometheus.Histogram
}

// NewSentimentMetrics creates and registers sentiment metrics on the given registry.
func NewSentimentMetrics(reg prometheus.Registerer) *SentimentMetrics {
	m := &SentimentMetrics{
		Verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sentiment",
			Name:      "verdicts_total",
			Help:      "Total number of scored articles, by category.",
		}, []string{"category"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sentiment",
			Name:      "analyze_duration_seconds",
			Help:      "Duration of scoring one text span.",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),
	}

	reg.MustRegister(m.Verdicts, m.Duration)
	return m
}
