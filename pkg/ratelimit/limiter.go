// Package ratelimit gates outbound Paddle API requests with a token bucket.
// Paddle enforces a per-IP request budget; spreading a long pagination walk
// below that budget avoids 429 responses, which would truncate a listing.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Prometheus metrics for outbound throttling.
var (
	rateLimitWaitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "paddle_rate_limit_waits_total",
		Help: "Total number of requests delayed by the outbound rate limiter",
	})

	rateLimitWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "paddle_rate_limit_wait_seconds",
		Help:    "Time requests spent waiting for the outbound rate limiter",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})
)

// Config holds the limiter configuration.
type Config struct {
	// RequestsPerSecond is the sustained request rate. Zero or negative disables limiting.
	RequestsPerSecond float64

	// Burst is the number of requests allowed back to back (minimum 1).
	Burst int
}

// DefaultConfig returns a disabled limiter configuration.
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 0,
		Burst:             1,
	}
}

// Limiter delays requests that exceed the configured rate.
type Limiter struct {
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewLimiter creates a new limiter.
func NewLimiter(cfg Config, logger zerolog.Logger) *Limiter {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &Limiter{
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
}

// Enabled reports whether the limiter restricts requests at all.
func (l *Limiter) Enabled() bool {
	return l != nil && l.limiter.Limit() != rate.Inf
}

// Wait blocks until a request may proceed or ctx is done.
// A nil Limiter never blocks.
func (l *Limiter) Wait(ctx context.Context) error {
	if !l.Enabled() {
		return nil
	}

	reservation := l.limiter.Reserve()
	if !reservation.OK() {
		return fmt.Errorf("rate limiter cannot grant request")
	}

	delay := reservation.Delay()
	if delay <= 0 {
		return nil
	}

	rateLimitWaitsTotal.Inc()
	rateLimitWaitSeconds.Observe(delay.Seconds())

	l.logger.Debug().
		Dur("wait", delay).
		Msg("Outbound rate limit reached - delaying request")

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		reservation.Cancel()
		return fmt.Errorf("wait for rate limiter: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
