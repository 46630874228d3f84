package metrics

import "github.com/prometheus/client_golang/prometheus"

// RegistryMetrics holds Prometheus metrics for the subscription registry.
type RegistryMetrics struct {
	ActiveSymbols  prometheus.Gauge
	Subscriptions  prometheus.Gauge
	FanOuts        *prometheus.CounterVec
	Deliveries     prometheus.Counter
	Pruned         prometheus.Counter
	FanOutDuration prometheus.Histogram
}

// NewRegistryMetrics creates and registers registry metrics on the given registry.
func NewRegistryMetrics(reg prometheus.Registerer) *RegistryMetrics {
	m := &RegistryMetrics{
		ActiveSymbols: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "active_symbols",
			Help:      "Number of symbols with at least one subscriber.",
		}),
		Subscriptions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "subscriptions",
			Help:      "Number of (symbol, connection) subscriptions.",
		}),
		FanOuts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "fan_outs_total",
			Help:      "Total number of fan-out passes, by envelope type.",
		}, []string{"type"}),
		Deliveries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "deliveries_total",
			Help:      "Total number of payloads accepted by connections.",
		}),
		Pruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "pruned_connections_total",
			Help:      "Total number of connections removed after a failed delivery.",
		}),
		FanOutDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "fan_out_duration_seconds",
			Help:      "Duration of one fan-out pass.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
	}

	reg.MustRegister(m.ActiveSymbols, m.Subscriptions, m.FanOuts, m.Deliveries, m.Pruned, m.FanOutDuration)
	return m
}
