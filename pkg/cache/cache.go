// Package cache provides pluggable storage for generated scenes and
// rendered artifacts, plus the key derivation that addresses them.
//
// Three implementations cover the usual deployments: FileCache keeps
// entries under a local directory (the CLI default), RedisCache shares
// entries between server replicas, and NullCache disables caching
// entirely. Keys are produced by a Keyer so identical inputs land in
// identical entries no matter which frontend asked.
package cache

import (
	"context"
	"time"
)

// TTLs per entry kind. Scenes are pure functions of their parameters,
// so their TTL only bounds disk usage. Artifacts are cheap to re-render
// from a cached scene and expire sooner.
const (
	TTLScene    = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte blobs under string keys with per-entry TTLs.
//
// Get reports (data, true, nil) on a hit and (nil, false, nil) on a
// miss. Corrupt or expired entries read as misses, not errors, so
// callers can always fall back to recomputing.
//
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves the entry stored under key.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes the entry stored under key, if present.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
