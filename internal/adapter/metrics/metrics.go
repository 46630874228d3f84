package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stockpulse"

// NewRegistry creates a Prometheus registry with Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Handler returns an http.Handler that serves Prometheus metrics.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Set bundles every metric group the service exports.
type Set struct {
	HTTP      *HTTPMetrics
	WebSocket *WebSocketMetrics
	Registry  *RegistryMetrics
	Scheduler *SchedulerMetrics
	Pool      *PoolMetrics
	Upstream  *UpstreamMetrics
	Cache     *CacheMetrics
	Sentiment *SentimentMetrics
}

// NewSet creates and registers all metric groups on reg.
func NewSet(reg prometheus.Registerer) *Set {
	return &Set{
		HTTP:      NewHTTPMetrics(reg),
		WebSocket: NewWebSocketMetrics(reg),
		Registry:  NewRegistryMetrics(reg),
		Scheduler: NewSchedulerMetrics(reg),
		Pool:      NewPoolMetrics(reg),
		Upstream:  NewUpstreamMetrics(reg),
		Cache:     NewCacheMetrics(reg),
		Sentiment: NewSentimentMetrics(reg),
	}
}
