package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Sternrassler/paddle-marketplace/pkg/logging"
	"github.com/Sternrassler/paddle-marketplace/pkg/marketplace"
	"github.com/Sternrassler/paddle-marketplace/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
)

const readyTimeout = 2 * time.Second

// newRouter wires the HTTP surface. redisClient may be nil when caching is
// disabled; readiness then does not depend on Redis.
func newRouter(lister marketplace.Lister, redisClient *redis.Client) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(requestLogger)

	router.Get("/health", healthHandler)
	router.Get("/ready", readyHandler(redisClient))
	router.Method(http.MethodGet, "/metrics", metrics.Handler())
	router.Get("/v1/marketplace/products", productsHandler(lister))

	return router
}

func requestLogger(next http.Handler) http.Handler {
	logger := logging.NewLogger(logging.ComponentServer)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logger.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func readyHandler(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
			defer cancel()

			if err := redisClient.Ping(ctx).Err(); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	}
}

// productsHandler serves the listing. Upstream failures degrade the listing
// instead of failing it, so only an abandoned request produces an error.
func productsHandler(lister marketplace.Lister) http.HandlerFunc {
	logger := logging.NewLogger(logging.ComponentServer)

	return func(w http.ResponseWriter, r *http.Request) {
		products, err := lister.Products(r.Context())
		if err != nil {
			status := http.StatusBadGateway
			if errors.Is(err, context.DeadlineExceeded) {
				status = http.StatusGatewayTimeout
			}
			logger.Warn().
				Err(err).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("Listing request abandoned")
			http.Error(w, http.StatusText(status), status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(products); err != nil {
			logger.Warn().Err(err).Msg("Failed to write listing")
		}
	}
}
