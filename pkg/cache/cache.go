// Package cache stores rendered layout artifacts so repeated exports of an
// unchanged layout skip the external converter.
//
// Keys come from [ArtifactKey], which hashes the SVG source together with
// the output format and scale. A changed layout therefore never hits a
// stale entry; entries only need a TTL to bound disk use.
//
//	c, _ := cache.NewFileCache(dir)
//	key := cache.ArtifactKey(svg, "png", 2)
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    return data
//	}
//
// [NullCache] disables caching without changing call sites.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional per-entry expiry.
type Cache interface {
	// Get returns the entry for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ArtifactKey identifies the conversion of svg to format at scale.
func ArtifactKey(svg []byte, format string, scale float64) string {
	return hashKey("artifact", format, scale, Hash(svg))
}
