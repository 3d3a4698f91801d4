package cache

import (
	"time"
)

// CacheEntry is a cached listing snapshot.
type CacheEntry struct {
	// Data is the serialized listing
	Data []byte `json:"data"`

	// Items is the number of records in Data
	Items int `json:"items"`

	// Expires is when the snapshot becomes stale
	Expires time.Time `json:"expires"`

	// CachedAt is when we cached this snapshot
	CachedAt time.Time `json:"cached_at"`
}

// NewEntry creates an entry that expires ttl from now.
func NewEntry(data []byte, items int, ttl time.Duration) *CacheEntry {
	now := time.Now()
	return &CacheEntry{
		Data:     data,
		Items:    items,
		Expires:  now.Add(ttl),
		CachedAt: now,
	}
}

// IsExpired returns true if the cache entry has expired.
func (e *CacheEntry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *CacheEntry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}

// Age returns how long ago the entry was cached.
func (e *CacheEntry) Age() time.Duration {
	return time.Since(e.CachedAt)
}
