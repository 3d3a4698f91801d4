// Package metrics exposes the Prometheus registry used by the marketplace.
// All metrics are defined in their respective packages (paddle, pagination,
// ratelimit, cache, marketplace) via promauto to keep those packages
// independent of each other.
//
// This package provides the scrape handler and documentation for all
// available metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registerer all package metrics are registered with.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the gatherer served by Handler.
var Gatherer = prometheus.DefaultGatherer

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Request Metrics (pkg/paddle):
//   - paddle_requests_total{endpoint, status} (Counter): Requests by endpoint and HTTP status
//   - paddle_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - paddle_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//
// Pagination Metrics (pkg/pagination):
//   - paddle_pages_total{collection, result} (Counter): Pages per collection (ok, error, loop, cancelled)
//
// Rate Limit Metrics (pkg/ratelimit):
//   - paddle_rate_limit_waits_total (Counter): Requests delayed by the outbound limiter
//   - paddle_rate_limit_wait_seconds (Histogram): Time spent waiting for a token
//
// Cache Metrics (pkg/cache):
//   - marketplace_cache_hits_total (Counter): Snapshot cache hits
//   - marketplace_cache_misses_total (Counter): Snapshot cache misses
//   - marketplace_cache_size_bytes{resource} (Gauge): Size of the last stored snapshot
//   - marketplace_cache_errors_total{operation} (Counter): Cache operation errors
//
// Listing Metrics (pkg/marketplace):
//   - marketplace_listings_total{outcome} (Counter): Listings assembled (complete, degraded)
//   - marketplace_listing_duration_seconds (Histogram): End-to-end listing duration
//   - marketplace_listing_products (Gauge): Products in the last listing
//   - marketplace_products_excluded_total{reason} (Counter): Products dropped by the filters
//
// Example Prometheus Queries:
//
//   # Degraded listing rate
//   rate(marketplace_listings_total{outcome="degraded"}[5m])
//
//   # Upstream error rate
//   rate(paddle_errors_total[5m])
//
//   # P95 listing latency
//   histogram_quantile(0.95, rate(marketplace_listing_duration_seconds_bucket[5m]))
