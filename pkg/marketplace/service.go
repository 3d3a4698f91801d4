package marketplace

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/Sternrassler/paddle-marketplace/pkg/logging"
	"github.com/Sternrassler/paddle-marketplace/pkg/paddle"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Source lists the upstream catalog. *paddle.Client implements it.
//
// Both methods may return a partial slice together with an error; the
// partial data is used.
type Source interface {
	ListProducts(ctx context.Context) ([]paddle.Product, error)
	ListPrices(ctx context.Context) ([]paddle.Price, error)
}

// Lister produces a marketplace listing.
type Lister interface {
	Products(ctx context.Context) ([]Product, error)
}

// Service assembles marketplace listings from a Source.
type Service struct {
	source Source
	rules  Rules
	logger zerolog.Logger
}

// NewService creates a listing service with the given rules.
func NewService(source Source, rules Rules) *Service {
	return &Service{
		source: source,
		rules:  rules,
		logger: logging.NewLogger(logging.ComponentMarketplace),
	}
}

// Products fetches products and prices concurrently and returns the sorted
// listing.
//
// Upstream failures never fail the call: a fetcher that stops early
// contributes whatever it collected, and the listing is built from that.
// The only error returned is ctx's, when the caller gave up.
func (s *Service) Products(ctx context.Context) ([]Product, error) {
	listing, _, err := s.products(ctx)
	return listing, err
}

// products is Products that also reports whether a fetch was degraded.
func (s *Service) products(ctx context.Context) ([]Product, bool, error) {
	start := time.Now()
	logger := s.logger.With().Str("run_id", uuid.NewString()).Logger()

	var (
		products []paddle.Product
		prices   []paddle.Price
		degraded atomic.Bool
	)

	// Both fetches always settle; neither cancels the other.
	var group errgroup.Group

	group.Go(func() error {
		var err error
		products, err = s.source.ListProducts(ctx)
		if err != nil {
			degraded.Store(true)
			logFetchFailure(logger, "products", len(products), err)
		}
		return nil
	})

	group.Go(func() error {
		var err error
		prices, err = s.source.ListPrices(ctx)
		if err != nil {
			degraded.Store(true)
			logFetchFailure(logger, "prices", len(prices), err)
		}
		return nil
	})

	_ = group.Wait()

	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	listing, excluded := assemble(products, prices, s.rules, logger)

	for reason, n := range excluded {
		productsExcludedTotal.WithLabelValues(reason).Add(float64(n))
	}

	outcome := "complete"
	if degraded.Load() {
		outcome = "degraded"
	}
	listingsTotal.WithLabelValues(outcome).Inc()
	listingDuration.Observe(time.Since(start).Seconds())
	listingProducts.Set(float64(len(listing)))

	logger.Info().
		Int("products", len(products)).
		Int("prices", len(prices)).
		Int("listed", len(listing)).
		Str("outcome", outcome).
		Dur("duration", time.Since(start)).
		Msg("Marketplace listing assembled")

	return listing, degraded.Load(), nil
}

func logFetchFailure(logger zerolog.Logger, collection string, kept int, err error) {
	event := logger.Error().
		Err(err).
		Str("collection", collection).
		Int("kept", kept)

	var apiErr *paddle.APIError
	if errors.As(err, &apiErr) {
		event = event.
			Int("status", apiErr.StatusCode).
			Str("error_class", string(apiErr.Class)).
			Str("body", apiErr.Body)
	}

	event.Msg("Failed to fetch " + collection + " - continuing with partial result")
}
