package marketplace

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for listing assembly.
var (
	listingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_listings_total",
		Help: "Total marketplace listings assembled by outcome",
	}, []string{"outcome"}) // "complete", "degraded"

	listingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "marketplace_listing_duration_seconds",
		Help:    "Time to fetch and assemble a marketplace listing",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30},
	})

	listingProducts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "marketplace_listing_products",
		Help: "Number of products in the latest assembled listing",
	})

	productsExcludedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_products_excluded_total",
		Help: "Total products left out of listings by reason",
	}, []string{"reason"})
)
