package geometry

import (
	"sort"
	"strings"

	"github.com/longplay45/swissgrid/pkg/errors"
)

// Base typographic values for A4, the reference format. All other formats
// scale proportionally from these.
const (
	BaseGridUnit = 12.0 // baseline grid unit (pt) for A4
	BaseGutter   = 6.0  // half the baseline, for rhythm
)

// Format is an ISO 216 A-series page format.
type Format string

const (
	FormatA0 Format = "A0"
	FormatA1 Format = "A1"
	FormatA2 Format = "A2"
	FormatA3 Format = "A3"
	FormatA4 Format = "A4"
	FormatA5 Format = "A5"
	FormatA6 Format = "A6"
)

// size is a portrait page size in points.
type size struct {
	w, h float64
}

// formatSizes holds portrait dimensions in points at 72 dpi.
var formatSizes = map[Format]size{
	FormatA6: {297.638, 419.528},   // 105 × 148 mm
	FormatA5: {419.528, 595.276},   // 148 × 210 mm
	FormatA4: {595.276, 841.890},   // 210 × 297 mm, base reference format
	FormatA3: {841.890, 1190.551},  // 297 × 420 mm
	FormatA2: {1190.551, 1683.780}, // 420 × 594 mm
	FormatA1: {1683.780, 2383.937}, // 594 × 841 mm
	FormatA0: {2383.937, 3370.394}, // 841 × 1189 mm
}

// FormatNames returns the supported format names in alphabetical order.
func FormatNames() []string {
	names := make([]string, 0, len(formatSizes))
	for f := range formatSizes {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

// ParseFormat resolves a format name case-insensitively.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToUpper(strings.TrimSpace(name)))
	if _, ok := formatSizes[f]; !ok {
		return "", errors.New(errors.ErrCodeInvalidFormat,
			"unsupported format: %s (use: %s)", name, strings.Join(FormatNames(), ", "))
	}
	return f, nil
}

// Orientation is the page orientation.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// ParseOrientation resolves an orientation name case-insensitively.
func ParseOrientation(name string) (Orientation, error) {
	switch Orientation(strings.ToLower(strings.TrimSpace(name))) {
	case Portrait:
		return Portrait, nil
	case Landscape:
		return Landscape, nil
	}
	return "", errors.New(errors.ErrCodeInvalidOrientation,
		"unsupported orientation: %s (use: portrait or landscape)", name)
}

// PageSize returns the page dimensions in points for a format and
// orientation.
func PageSize(f Format, o Orientation) (w, h float64, err error) {
	s, ok := formatSizes[f]
	if !ok {
		return 0, 0, errors.New(errors.ErrCodeInvalidFormat,
			"unsupported format: %s (use: %s)", f, strings.Join(FormatNames(), ", "))
	}
	if o == Landscape {
		return s.h, s.w, nil
	}
	return s.w, s.h, nil
}

// ScaleFactor returns the typographic scale of a format relative to A4.
// The smaller dimension ratio is used so portrait and landscape scale
// consistently.
func ScaleFactor(f Format, o Orientation) (float64, error) {
	a4 := formatSizes[FormatA4]
	s, ok := formatSizes[f]
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidFormat,
			"unsupported format: %s (use: %s)", f, strings.Join(FormatNames(), ", "))
	}
	w, h := s.w, s.h
	if o == Landscape {
		w, h = h, w
	}
	sw, sh := w/a4.w, h/a4.h
	if sw < sh {
		return sw, nil
	}
	return sh, nil
}

// MarginMethod selects one of the margin construction methods.
type MarginMethod int

const (
	// MarginProgressive uses a 1:2:2:3 top:left:right:bottom ratio of
	// baseline units. Top is smallest, bottom largest, sides symmetric.
	MarginProgressive MarginMethod = 1

	// MarginVanDeGraaf adapts the Van de Graaf canon as baseline
	// multiples: left 1x, top 2x, right 1.5x, bottom 3x.
	MarginVanDeGraaf MarginMethod = 2

	// MarginGridBased sets all four margins to the same baseline
	// multiple, the purest modular construction.
	MarginGridBased MarginMethod = 3
)

// Label returns the human-readable name used in summaries and pickers.
func (m MarginMethod) Label() string {
	switch m {
	case MarginProgressive:
		return "Progressive (1:2:2:3)"
	case MarginVanDeGraaf:
		return "Van de Graaf (page/9)"
	case MarginGridBased:
		return "Grid-based (baseline multiples)"
	}
	return "unknown"
}

// Valid reports whether m is a known method.
func (m MarginMethod) Valid() bool {
	return m >= MarginProgressive && m <= MarginGridBased
}
