package cache

// ScopedKeyer wraps a Keyer with a prefix so separate projects or users
// can share one cache directory without key collisions.
//
// Example usage:
//
//	// Per-project keys in a shared cache
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "project:poster:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ConvertKey generates a prefixed key for a converted artifact.
func (k *ScopedKeyer) ConvertKey(svgHash string, opts ConvertKeyOpts) string {
	return k.prefix + k.inner.ConvertKey(svgHash, opts)
}
