// Package typography provides the modular type scale: ten styles from
// caption to display, defined for A4 with a 12pt baseline and scaled
// proportionally for other formats.
//
// Sizes scale with the page format; leading scales with the baseline
// grid, so every style's leading stays a whole multiple of the baseline
// unit and all set text shares one vertical rhythm.
package typography

import (
	"math"

	"github.com/longplay45/swissgrid/pkg/errors"
	"github.com/longplay45/swissgrid/pkg/layout"
)

// Weight is a font weight name as used in style sheets.
type Weight string

const (
	WeightRegular Weight = "Regular"
	WeightBold    Weight = "Bold"
)

// Style is one entry of the type scale. Lengths are points.
type Style struct {
	Size               float64 `json:"size" bson:"size"`
	Leading            float64 `json:"leading" bson:"leading"`
	Weight             Weight  `json:"weight" bson:"weight"`
	Alignment          string  `json:"alignment" bson:"alignment"`
	BaselineMultiplier float64 `json:"baseline_multiplier" bson:"baseline_multiplier"`
	BodyLines          float64 `json:"body_lines" bson:"body_lines"`
}

// Metadata describes how a scaled system was derived.
type Metadata struct {
	Format       string  `json:"format" bson:"format"`
	Unit         string  `json:"unit" bson:"unit"`
	BaselineGrid float64 `json:"baseline_grid" bson:"baseline_grid"`
	A4Baseline   float64 `json:"a4_baseline" bson:"a4_baseline"`
	ScaleFactor  float64 `json:"scale_factor" bson:"scale_factor"`
}

// System is a complete scaled type system for one grid.
type System struct {
	Metadata Metadata         `json:"metadata" bson:"metadata"`
	Styles   map[string]Style `json:"styles" bson:"styles"`
}

// a4Baseline is the reference baseline the A4 table is defined against.
const a4Baseline = 12.0

// baseStyle is an unscaled A4 table entry.
type baseStyle struct {
	name      string
	size      float64
	leading   float64
	mult      float64
	bodyLines float64
	weight    Weight
}

// a4Styles is the A4 reference scale, smallest to largest.
var a4Styles = []baseStyle{
	{"caption", 7, 8, 0.67, 0.67, WeightRegular},
	{"footnote", 6, 12, 1, 1, WeightRegular},
	{"body", 10, 12, 1, 1, WeightRegular},
	{"lead", 12, 12, 1, 1, WeightRegular},
	{"subhead_small", 14, 24, 2, 2, WeightBold},
	{"subhead_medium", 18, 24, 2, 2, WeightBold},
	{"headline_3", 20, 24, 2, 2, WeightBold},
	{"headline_2", 28, 36, 3, 3, WeightBold},
	{"headline_1", 48, 48, 4, 4, WeightBold},
	{"display", 72, 72, 6, 6, WeightBold},
}

// reflowing marks the styles whose blocks rewrap across columns when
// their text does not fit. Heading styles keep their span.
var reflowing = map[string]bool{
	"caption":  true,
	"footnote": true,
	"body":     true,
	"lead":     true,
}

// StyleNames returns every style name in scale order.
func StyleNames() []string {
	names := make([]string, len(a4Styles))
	for i, s := range a4Styles {
		names[i] = s.name
	}
	return names
}

// Scale derives the type system for a format scale factor and baseline
// unit. Sizes multiply by the scale factor; leading multiplies by the
// ratio of the baseline unit to the A4 baseline. Both round to 3 decimals.
func Scale(scaleFactor, baselineUnit float64, format string) System {
	styles := make(map[string]Style, len(a4Styles))
	for _, base := range a4Styles {
		styles[base.name] = Style{
			Size:               round3(base.size * scaleFactor),
			Leading:            round3(base.leading * (baselineUnit / a4Baseline)),
			Weight:             base.weight,
			Alignment:          "Left",
			BaselineMultiplier: base.mult,
			BodyLines:          base.bodyLines,
		}
	}
	return System{
		Metadata: Metadata{
			Format:       format,
			Unit:         "pt",
			BaselineGrid: round3(baselineUnit),
			A4Baseline:   a4Baseline,
			ScaleFactor:  round3(scaleFactor),
		},
		Styles: styles,
	}
}

// Style returns the named style from the system.
func (s System) Style(name string) (Style, error) {
	st, ok := s.Styles[name]
	if !ok {
		return Style{}, errors.New(errors.ErrCodeInvalidStyle, "unknown style: %s", name)
	}
	return st, nil
}

// FitStyle adapts the named style for the fit resolver.
func (s System) FitStyle(name string) (layout.FitStyle, error) {
	st, err := s.Style(name)
	if err != nil {
		return layout.FitStyle{}, err
	}
	return layout.FitStyle{
		Name:               name,
		Size:               st.Size,
		BaselineMultiplier: st.BaselineMultiplier,
		Reflow:             reflowing[name],
	}, nil
}

// Role maps a style name to the block role used for placement priority.
func Role(styleName string) string {
	switch styleName {
	case "display":
		return "display"
	case "headline_1", "headline_2", "headline_3":
		return "headline"
	case "subhead_small", "subhead_medium":
		return "subhead"
	case "body", "lead":
		return "body"
	case "caption", "footnote":
		return "caption"
	}
	return "body"
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
