package marketplace

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"time"

	"github.com/Sternrassler/paddle-marketplace/pkg/cache"
	"github.com/Sternrassler/paddle-marketplace/pkg/logging"
	"github.com/rs/zerolog"
)

// CachedService serves listings from a Redis snapshot and rebuilds them
// through a Service on a miss.
type CachedService struct {
	service *Service
	cache   *cache.Manager
	key     cache.CacheKey
	ttl     time.Duration
	logger  zerolog.Logger
}

// NewCachedService wraps service with a snapshot cache. scope separates
// upstream environments sharing one Redis (typically the API host).
func NewCachedService(service *Service, manager *cache.Manager, scope string, ttl time.Duration) *CachedService {
	return &CachedService{
		service: service,
		cache:   manager,
		key: cache.CacheKey{
			Resource: "listing",
			Scope:    scope,
			Params:   url.Values{"locale": []string{service.rules.Locale.String()}},
		},
		ttl:    ttl,
		logger: logging.NewLogger(logging.ComponentCache).With().Str("cache_key", "listing").Logger(),
	}
}

// Products returns the cached listing when fresh, otherwise assembles and
// caches a new one. Cache failures fall through to assembly. Degraded
// listings are returned but not cached.
func (c *CachedService) Products(ctx context.Context) ([]Product, error) {
	entry, err := c.cache.Get(ctx, c.key)
	switch {
	case err == nil:
		var listing []Product
		if err := json.Unmarshal(entry.Data, &listing); err == nil {
			c.logger.Debug().
				Int("items", entry.Items).
				Dur("age", entry.Age()).
				Msg("Serving cached listing")
			return listing, nil
		}
		c.logger.Warn().Err(err).Msg("Cached listing unreadable - rebuilding")
	case errors.Is(err, cache.ErrCacheMiss):
		c.logger.Debug().Msg("Listing cache miss")
	default:
		c.logger.Warn().Err(err).Msg("Cache get error")
	}

	listing, degraded, err := c.service.products(ctx)
	if err != nil {
		return nil, err
	}

	if degraded {
		c.logger.Info().Msg("Listing degraded - not caching")
		return listing, nil
	}

	data, err := json.Marshal(listing)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to encode listing for cache")
		return listing, nil
	}

	if err := c.cache.Set(ctx, c.key, cache.NewEntry(data, len(listing), c.ttl)); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to cache listing")
	} else {
		c.logger.Debug().Dur("ttl", c.ttl).Msg("Cached listing")
	}

	return listing, nil
}
