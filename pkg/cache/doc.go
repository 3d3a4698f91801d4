// Package cache stores serialized marketplace listings in Redis.
//
// Assembling a listing costs at least two paginated walks of the Paddle API.
// A storefront that renders the listing on every page view can put a short
// lived snapshot in front of that work.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	manager := cache.NewManager(redisClient)
//
//	key := cache.CacheKey{
//		Resource: "listing",
//		Scope:    "api.paddle.com",
//		Params:   url.Values{"locale": []string{"en"}},
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if err == cache.ErrCacheMiss {
//		// build the listing, then
//		_ = manager.Set(ctx, key, cache.NewEntry(data, len(items), 5*time.Minute))
//	}
//
// # Metrics
//
//   - marketplace_cache_hits_total - Cache hits
//   - marketplace_cache_misses_total - Cache misses
//   - marketplace_cache_size_bytes - Bytes written by the last Set per key space
//   - marketplace_cache_errors_total{operation} - Cache operation errors
//
// Entries carry their own expiry and Redis removes them with the same TTL,
// so an expired entry is never served even if Redis eviction lags.
package cache
