// Package cache provides content-addressed caching for pipeline runs.
//
// The only expensive stage of a generation run is format conversion,
// which shells out to rsvg-convert for every PDF and PNG artifact. The
// cache stores converted bytes keyed by a hash of the source SVG and the
// conversion parameters, so regenerating an unchanged grid skips the
// external tool entirely.
//
// Keys are content-addressed: identical inputs always map to the same
// key, so entries never go stale and are stored without expiration.
package cache

import (
	"context"
	"time"
)

// Cache is the interface for cache backends.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// ConvertKeyOpts are the parameters that change a conversion's output
// for the same source SVG.
type ConvertKeyOpts struct {
	// Format is the target format, "pdf" or "png".
	Format string

	// Scale is the raster scale. Zero for vector targets.
	Scale float64
}

// Keyer generates cache keys for the pipeline's cacheable stages.
type Keyer interface {
	// ConvertKey keys a converted artifact by the hash of its source SVG
	// and the conversion parameters.
	ConvertKey(svgHash string, opts ConvertKeyOpts) string
}

// DefaultKeyer generates keys by hashing the stage inputs.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ConvertKey generates a key for a converted artifact.
func (k *DefaultKeyer) ConvertKey(svgHash string, opts ConvertKeyOpts) string {
	return hashKey("convert", svgHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
