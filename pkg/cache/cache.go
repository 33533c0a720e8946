// Package cache stores rendered artifacts between runs.
//
// # Backends
//
//   - [FileCache]: JSON entries under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP API
//   - [NullCache]: caches nothing, for --no-cache and tests
//
// # Keys
//
// A [Keyer] derives keys from everything that influences the bytes of an
// artifact: the graph identity (preset and its parameters), the surface
// size, the pixel scale and the output format. Generation is deterministic,
// so equal keys always describe equal bytes.
//
//	k := cache.NewDefaultKeyer()
//	graph := k.GraphKey("noise-map", cache.GraphKeyOpts{Seed: 1, Scale: 4})
//	key := k.ArtifactKey(graph, cache.ArtifactKeyOpts{Width: 256, Height: 256, Format: "png", Scale: 1})
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// NullCache misses on every Get and discards every Set.
type NullCache struct{}

var _ Cache = NullCache{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() NullCache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
