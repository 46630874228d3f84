package metrics

import "github.com/prometheus/client_golang/prometheus"

// CacheMetrics holds Prometheus metrics for the company-name cache.
type CacheMetrics struct {
	Hits      *prometheus.CounterVec
	Misses    *prometheus.CounterVec
	Fallbacks prometheus.Counter
}

// NewCacheMetrics creates and registers cache metrics on the given registry.
func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	m := &CacheMetrics{
		Hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "name_cache",
			Name:      "hits_total",
			Help:      "Total number of company-name cache hits, by layer.",
		}, []string{"layer"}),
		Misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "name_cache",
			Name:      "misses_total",
			Help:      "Total number of company-name cache misses, by layer.",
		}, []string{"layer"}),
		Fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "name_cache",
			Name:      "static_fallbacks_total",
			Help:      "Total number of names served from the static fallback after an upstream miss.",
		}),
	}

	reg.MustRegister(m.Hits, m.Misses, m.Fallbacks)
	return m
}
