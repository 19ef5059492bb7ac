// Package cache provides a Redis-backed response cache for Delivery API requests.
//
// Delivery responses are served through a CDN and carry ETag and Cache-Control headers.
// The cache manager stores them in Redis so that several client processes share one cache:
//
// - TTL taken from Cache-Control max-age, then Expires, then DefaultTTL
// - Responses marked no-store or private are never stored
// - ETag support for conditional requests (If-None-Match)
// - Last-Modified support (If-Modified-Since)
// - Prometheus metrics for observability
// - Deterministic cache key generation
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
//		Endpoint:    "deliver.kontent.ai/8d20758c-d74c-4f59-ae04-ee928c0816b7/items",
//		QueryParams: url.Values{"system.type": []string{"movie"}},
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if err == cache.ErrCacheMiss {
//		// fetch from the API
//	}
//
// # Feed Pages
//
// Items-feed pages share one URL and differ only by the X-Continuation request header,
// so the token goes into CacheKey.Variant. Preview and wait-for-new-content requests use
// the variant as well.
//
// # Metrics
//
//   - kontent_cache_hits_total{layer="redis"} - Cache hits
//   - kontent_cache_misses_total - Cache misses
//   - kontent_cache_size_bytes{layer="redis"} - Bytes written and read
//   - kontent_304_responses_total - Conditional request successes
//   - kontent_conditional_requests_total - Conditional requests sent
//   - kontent_cache_errors_total{operation} - Cache operation errors
package cache
