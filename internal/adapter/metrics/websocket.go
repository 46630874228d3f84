package metrics

import "github.com/prometheus/client_golang/prometheus"

// WebSocketMetrics holds Prometheus metrics for stream connections.
type WebSocketMetrics struct {
	ActiveConnections   prometheus.Gauge
	ConnectionsRejected *prometheus.CounterVec
	MessagesSent        prometheus.Counter
	SendDuration        prometheus.Histogram
	SendFailures        *prometheus.CounterVec
	PingFailures        prometheus.Counter
	Resubscribes        prometheus.Counter
	IgnoredMessages     prometheus.Counter
}

// NewWebSocketMetrics creates and registers WebSocket metrics on the given registry.
func NewWebSocketMetrics(reg prometheus.Registerer) *WebSocketMetrics {
	m := &WebSocketMetrics{
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "active_connections",
			Help:      "Number of active stream connections.",
		}),
		ConnectionsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "connections_rejected_total",
			Help:      "Total number of rejected stream connections, by reason.",
		}, []string{"reason"}),
		MessagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "messages_sent_total",
			Help:      "Total number of frames written to stream connections.",
		}),
		SendDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "send_duration_seconds",
			Help:      "Time spent writing a single frame.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		SendFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "send_failures_total",
			Help:      "Total number of rejected sends, by reason.",
		}, []string{"reason"}),
		PingFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "ping_failures_total",
			Help:      "Total number of failed keepalive pings.",
		}),
		Resubscribes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "resubscribes_total",
			Help:      "Total number of in-session symbol switches.",
		}),
		IgnoredMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "ignored_messages_total",
			Help:      "Total number of malformed or unknown client messages.",
		}),
	}

	reg.MustRegister(m.ActiveConnections, m.ConnectionsRejected, m.MessagesSent, m.SendDuration,
		m.SendFailures, m.PingFailures, m.Resubscribes, m.IgnoredMessages)
	return m
}
