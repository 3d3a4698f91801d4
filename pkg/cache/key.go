package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// keyPrefix namespaces every key written by this package.
const keyPrefix = "marketplace"

// CacheKey identifies a cached snapshot.
type CacheKey struct {
	// Resource is the kind of snapshot (e.g., "listing")
	Resource string

	// Scope separates upstream environments (e.g., "api.paddle.com" vs "sandbox-api.paddle.com")
	Scope string

	// Params are additional discriminators (e.g., {"locale": "en"})
	Params url.Values
}

// String generates a deterministic cache key string.
// Format: marketplace:resource:scope:param1=val1:param2=val2
//
// Example:
//
//	marketplace:listing:api.paddle.com:locale=en
func (k CacheKey) String() string {
	parts := []string{keyPrefix}

	if r := strings.Trim(k.Resource, ":"); r != "" {
		parts = append(parts, r)
	}

	if s := strings.Trim(k.Scope, ":"); s != "" {
		parts = append(parts, s)
	}

	// sorted for determinism
	if len(k.Params) > 0 {
		keys := make([]string, 0, len(k.Params))
		for key := range k.Params {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.Params.Get(key)))
		}
	}

	return strings.Join(parts, ":")
}
