// Package measure provides text width measurement for the fit resolver.
// All measurers satisfy layout.MeasureFunc.
package measure

import (
	"sync"

	"github.com/fogleman/gg"

	"github.com/longplay45/swissgrid/pkg/layout"
)

// DefaultRatio approximates average glyph width as a fraction of the font
// size. It matches the fit resolver's built-in fallback estimate.
const DefaultRatio = 0.55

// DefaultCacheEntries bounds the measurement cache.
const DefaultCacheEntries = 4096

// Heuristic returns a measurer that estimates width as rune count times
// font size times ratio. A ratio <= 0 selects DefaultRatio.
func Heuristic(ratio float64) layout.MeasureFunc {
	if ratio <= 0 {
		ratio = DefaultRatio
	}
	return func(text string, size float64) float64 {
		return float64(len([]rune(text))) * size * ratio
	}
}

// Face returns a measurer backed by the TrueType font at fontPath. Each
// call loads the face at the requested size into a fresh drawing context,
// so the measurer is safe for concurrent use. When the font cannot be
// loaded the heuristic estimate is returned instead.
func Face(fontPath string) layout.MeasureFunc {
	fallback := Heuristic(0)
	return func(text string, size float64) float64 {
		dc := gg.NewContext(1, 1)
		if err := dc.LoadFontFace(fontPath, size); err != nil {
			return fallback(text, size)
		}
		w, _ := dc.MeasureString(text)
		return w
	}
}

type cacheKey struct {
	text string
	size float64
}

// Cached wraps fn with a bounded memoization cache keyed by text and size.
// When the cache reaches maxEntries it is cleared and refilled. Safe for
// concurrent use. A maxEntries <= 0 selects DefaultCacheEntries.
func Cached(fn layout.MeasureFunc, maxEntries int) layout.MeasureFunc {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheEntries
	}
	var (
		mu      sync.Mutex
		entries = make(map[cacheKey]float64, maxEntries)
	)
	return func(text string, size float64) float64 {
		key := cacheKey{text: text, size: size}

		mu.Lock()
		if w, ok := entries[key]; ok {
			mu.Unlock()
			return w
		}
		mu.Unlock()

		w := fn(text, size)

		mu.Lock()
		if len(entries) >= maxEntries {
			entries = make(map[cacheKey]float64, maxEntries)
		}
		entries[key] = w
		mu.Unlock()

		return w
	}
}

// ForFont returns the measurer for an optional font path: a cached Face
// measurer when fontPath is non-empty, the plain heuristic otherwise.
func ForFont(fontPath string) layout.MeasureFunc {
	if fontPath == "" {
		return Heuristic(0)
	}
	return Cached(Face(fontPath), 0)
}
