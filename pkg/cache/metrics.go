package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks snapshot cache hits
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_cache_hits_total",
			Help: "Total number of marketplace snapshot cache hits",
		},
	)

	// CacheMisses tracks snapshot cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_cache_misses_total",
			Help: "Total number of marketplace snapshot cache misses",
		},
	)

	// CacheSize tracks the size of the latest snapshot written per resource
	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "marketplace_cache_size_bytes",
			Help: "Size in bytes of the latest snapshot written",
		},
		[]string{"resource"},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
