// Package geometry derives complete modular grid systems from page
// parameters, following Josef Müller-Brockmann's construction rules.
//
// A grid derivation starts from an A-series format and a column/row count,
// computes margins with one of three methods, and aligns every vertical
// measure to the baseline grid: module heights span a whole number of
// baseline units, and the bottom margin absorbs the remainder so the top
// margin and module boundaries stay on the grid.
//
// # Algorithm
//
// Given page w x h, baseline unit u, and margins from the chosen method:
//
//	1. Snap top and bottom margins to multiples of u.
//	2. Net width  = w - left - right; module width follows directly.
//	3. Net height = h - top - bottom, rounded to whole baseline units,
//	   divided by rows and floored to units per cell (minimum 2).
//	4. Module height = cell height - vertical gutter.
//	5. Bottom margin = h - top - aligned net height.
//
// Gutters equal one baseline unit in both directions.
package geometry

import (
	"fmt"
	"math"
	"strings"

	"github.com/longplay45/swissgrid/pkg/errors"
	"github.com/longplay45/swissgrid/pkg/layout"
)

// Default grid parameters.
const (
	DefaultCols = 9
	DefaultRows = 9
)

// Params are the inputs of a grid derivation.
type Params struct {
	Format       Format       `json:"format" bson:"format"`
	Orientation  Orientation  `json:"orientation" bson:"orientation"`
	Cols         int          `json:"cols" bson:"cols"`
	Rows         int          `json:"rows" bson:"rows"`
	MarginMethod MarginMethod `json:"margin_method" bson:"margin_method"`

	// BaselineUnit overrides the format-scaled baseline when positive.
	BaselineUnit float64 `json:"baseline_unit,omitempty" bson:"baseline_unit,omitempty"`

	// MarginMultiple scales the margin ratios. Zero means 1.
	MarginMultiple float64 `json:"margin_multiple,omitempty" bson:"margin_multiple,omitempty"`
}

// DefaultParams returns the canonical 9x9 A4 portrait grid.
func DefaultParams() Params {
	return Params{
		Format:       FormatA4,
		Orientation:  Portrait,
		Cols:         DefaultCols,
		Rows:         DefaultRows,
		MarginMethod: MarginProgressive,
	}
}

// Validate checks the parameters without deriving anything.
func (p Params) Validate() error {
	if _, ok := formatSizes[p.Format]; !ok {
		if _, err := ParseFormat(string(p.Format)); err != nil {
			return err
		}
	}
	if p.Orientation != Portrait && p.Orientation != Landscape {
		return errors.New(errors.ErrCodeInvalidOrientation,
			"unsupported orientation: %s (use: portrait or landscape)", p.Orientation)
	}
	if p.Cols < 1 || p.Rows < 1 {
		return errors.New(errors.ErrCodeInvalidDimensions,
			"grid dimensions must be positive integers, got %dx%d", p.Cols, p.Rows)
	}
	if !p.MarginMethod.Valid() {
		return errors.New(errors.ErrCodeInvalidMargin,
			"unsupported margin method: %d (use: 1, 2, or 3)", p.MarginMethod)
	}
	if p.BaselineUnit < 0 {
		return errors.New(errors.ErrCodeInvalidBaseline,
			"baseline unit must be positive, got %g", p.BaselineUnit)
	}
	return nil
}

// Grid is a fully derived modular grid. All lengths are points.
type Grid struct {
	Format       Format       `json:"format" bson:"format"`
	Orientation  Orientation  `json:"orientation" bson:"orientation"`
	MarginMethod MarginMethod `json:"margin_method" bson:"margin_method"`

	PageWidth  float64 `json:"page_width" bson:"page_width"`
	PageHeight float64 `json:"page_height" bson:"page_height"`

	Cols int `json:"cols" bson:"cols"`
	Rows int `json:"rows" bson:"rows"`

	BaselineUnit float64 `json:"baseline_unit" bson:"baseline_unit"`
	ScaleFactor  float64 `json:"scale_factor" bson:"scale_factor"`

	GutterH float64 `json:"gutter_h" bson:"gutter_h"`
	GutterV float64 `json:"gutter_v" bson:"gutter_v"`

	MarginTop    float64 `json:"margin_top" bson:"margin_top"`
	MarginBottom float64 `json:"margin_bottom" bson:"margin_bottom"`
	MarginLeft   float64 `json:"margin_left" bson:"margin_left"`
	MarginRight  float64 `json:"margin_right" bson:"margin_right"`

	ContentWidth  float64 `json:"content_width" bson:"content_width"`
	ContentHeight float64 `json:"content_height" bson:"content_height"`

	ModuleWidth  float64 `json:"module_width" bson:"module_width"`
	ModuleHeight float64 `json:"module_height" bson:"module_height"`

	// UnitsPerCell is the number of baseline units each module row spans,
	// gutter included.
	UnitsPerCell int `json:"baseline_units_per_cell" bson:"baseline_units_per_cell"`
}

// Derive computes the complete grid for the given parameters.
func Derive(p Params) (Grid, error) {
	if err := p.Validate(); err != nil {
		return Grid{}, err
	}

	w, h, err := PageSize(p.Format, p.Orientation)
	if err != nil {
		return Grid{}, err
	}
	scale, err := ScaleFactor(p.Format, p.Orientation)
	if err != nil {
		return Grid{}, err
	}

	unit := p.BaselineUnit
	if unit == 0 {
		unit = BaseGridUnit * scale
	}
	mult := p.MarginMultiple
	if mult <= 0 {
		mult = 1
	}

	var top, bottom, left, right float64
	switch p.MarginMethod {
	case MarginProgressive:
		top, bottom = 1*unit*mult, 3*unit*mult
		left, right = 2*unit*mult, 2*unit*mult
	case MarginVanDeGraaf:
		left, top = 1*unit*mult, 2*unit*mult
		right, bottom = 1.5*unit*mult, 3*unit*mult
	case MarginGridBased:
		top, bottom = unit*mult, unit*mult
		left, right = unit*mult, unit*mult
	}
	gutterH, gutterV := unit, unit

	// Snap the vertical margins so module boundaries land on baselines.
	top = math.Round(top/unit) * unit
	bottom = math.Round(bottom/unit) * unit

	netW := w - left - right
	netH := h - top - bottom

	cols, rows := float64(p.Cols), float64(p.Rows)
	modW := (netW - (cols-1)*gutterH) / cols

	unitsPerCell := int(math.Round(netH/unit) / rows)
	if unitsPerCell < 2 {
		unitsPerCell = 2
	}
	cell := float64(unitsPerCell) * unit
	modH := cell - gutterV

	netHAligned := rows*modH + (rows-1)*gutterV
	bottom = h - top - netHAligned

	if modW <= 0 || modH <= 0 {
		return Grid{}, errors.New(errors.ErrCodeInvalidDimensions,
			"%dx%d grid does not fit %s %s: module would be %.1fx%.1fpt",
			p.Cols, p.Rows, p.Format, p.Orientation, modW, modH)
	}

	return Grid{
		Format:        p.Format,
		Orientation:   p.Orientation,
		MarginMethod:  p.MarginMethod,
		PageWidth:     w,
		PageHeight:    h,
		Cols:          p.Cols,
		Rows:          p.Rows,
		BaselineUnit:  unit,
		ScaleFactor:   scale,
		GutterH:       gutterH,
		GutterV:       gutterV,
		MarginTop:     top,
		MarginBottom:  bottom,
		MarginLeft:    left,
		MarginRight:   right,
		ContentWidth:  netW,
		ContentHeight: netHAligned,
		ModuleWidth:   modW,
		ModuleHeight:  modH,
		UnitsPerCell:  unitsPerCell,
	}, nil
}

// Shape adapts the grid for the layout engine.
func (g Grid) Shape() layout.Shape {
	return layout.Shape{
		Cols:         g.Cols,
		Rows:         g.Rows,
		ModuleWidth:  g.ModuleWidth,
		ModuleHeight: g.ModuleHeight,
		GutterH:      g.GutterH,
		GutterV:      g.GutterV,
		BaselineUnit: g.BaselineUnit,
		PageHeight:   g.PageHeight,
		MarginTop:    g.MarginTop,
		MarginBottom: g.MarginBottom,
	}
}

// AspectRatio returns the module width to height ratio.
func (g Grid) AspectRatio() float64 {
	if g.ModuleHeight == 0 {
		return 0
	}
	return g.ModuleWidth / g.ModuleHeight
}

// BaseFilename returns the canonical output name stem, without extension:
// format, orientation, grid size, margin method, and baseline unit.
func (g Grid) BaseFilename() string {
	return fmt.Sprintf("%s_%s_%dx%d_method%d_baseline%.0fpt",
		strings.ToLower(string(g.Format)), g.Orientation, g.Cols, g.Rows, g.MarginMethod, g.BaselineUnit)
}
