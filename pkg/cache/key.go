package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// KeyPrefix is prepended to every Redis key written by the cache.
const KeyPrefix = "kontent"

// CacheKey uniquely identifies a cached response.
type CacheKey struct {
	// Endpoint is host plus path (e.g. "deliver.kontent.ai/<project>/items").
	Endpoint string

	// QueryParams are the request query parameters.
	QueryParams url.Values

	// Variant distinguishes requests that share a URL but not a response:
	// continuation tokens, preview mode, wait-for-new-content.
	Variant string
}

// String generates a deterministic cache key string.
// Format: kontent:endpoint:query1=val1,val2:query2=val:variant
//
// Example:
//
//	kontent:deliver.kontent.ai/p/items:limit=10:system.type=movie
func (k CacheKey) String() string {
	parts := []string{KeyPrefix}

	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	if len(k.QueryParams) > 0 {
		keys := make([]string, 0, len(k.QueryParams))
		for key := range k.QueryParams {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, strings.Join(k.QueryParams[key], ",")))
		}
	}

	if k.Variant != "" {
		parts = append(parts, "v="+k.Variant)
	}

	return strings.Join(parts, ":")
}

// KeyForURL builds the key of a GET request to u with the given variant.
func KeyForURL(u *url.URL, variant string) CacheKey {
	return CacheKey{
		Endpoint:    u.Host + u.Path,
		QueryParams: u.Query(),
		Variant:     variant,
	}
}
