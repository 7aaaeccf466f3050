// Package cache stores finished layout results and preview artifacts.
//
// Backends implement [Cache]: [NullCache] disables caching, [FileCache]
// serves the CLI, and [RedisCache] and [MongoCache] serve multi-instance
// deployments of the HTTP service. [Compressed] wraps any backend with
// snappy compression and [Observed] reports hits and misses to the
// registered [observability.CacheHooks].
//
// Keys are derived by a [Keyer] from a content hash of the input diagram
// and a hash of the configuration that produced the result, so a config
// change never serves a stale layout.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	// An expired entry is a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Entry lifetimes.
const (
	TTLLayout  = 7 * 24 * time.Hour
	TTLPreview = 24 * time.Hour
)

// Key types reported to the cache hooks.
const (
	KeyTypeLayout  = "layout"
	KeyTypePreview = "preview"
)

// LayoutKeyOpts identifies how a layout was produced.
type LayoutKeyOpts struct {
	// Mode is "layout" or "pack".
	Mode string `json:"mode"`
	// ConfigHash is a [Hash] of the encoded engine configuration.
	ConfigHash string `json:"config_hash"`
}

// PreviewKeyOpts identifies a rendered preview.
type PreviewKeyOpts struct {
	Format string `json:"format"`
	Labels bool   `json:"labels"`
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey is the key of a layout result for the diagram with the
	// given content hash.
	LayoutKey(diagramHash string, opts LayoutKeyOpts) string

	// PreviewKey is the key of a preview rendered from a layout result
	// with the given content hash.
	PreviewKey(resultHash string, opts PreviewKeyOpts) string
}

// DefaultKeyer produces "layout:<sha256>" and "preview:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(diagramHash string, opts LayoutKeyOpts) string {
	return hashKey(KeyTypeLayout, diagramHash, opts)
}

func (DefaultKeyer) PreviewKey(resultHash string, opts PreviewKeyOpts) string {
	return hashKey(KeyTypePreview, resultHash, opts)
}
