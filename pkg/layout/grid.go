package layout

import "math"

// Shape describes the module grid blocks are placed on. Lengths are in
// points. Block rows are expressed in baseline units measured from the top
// of the content area (the page top plus MarginTop).
type Shape struct {
	Cols         int     `json:"cols"`
	Rows         int     `json:"rows"`
	ModuleWidth  float64 `json:"module_width"`
	ModuleHeight float64 `json:"module_height"`
	GutterH      float64 `json:"gutter_h"` // between columns
	GutterV      float64 `json:"gutter_v"` // between rows
	BaselineUnit float64 `json:"baseline_unit"`
	PageHeight   float64 `json:"page_height"`
	MarginTop    float64 `json:"margin_top"`
	MarginBottom float64 `json:"margin_bottom"`
}

// normalized returns a copy with degenerate values forced into a usable
// range so every engine operation stays total.
func (s Shape) normalized() Shape {
	if s.Cols < 1 {
		s.Cols = 1
	}
	if s.Rows < 1 {
		s.Rows = 1
	}
	if s.ModuleWidth <= 0 {
		s.ModuleWidth = 1
	}
	if s.ModuleHeight <= 0 {
		s.ModuleHeight = 1
	}
	if s.GutterH < 0 {
		s.GutterH = 0
	}
	if s.GutterV < 0 {
		s.GutterV = 0
	}
	if s.BaselineUnit <= 0 {
		s.BaselineUnit = 1
	}
	if s.MarginTop < 0 {
		s.MarginTop = 0
	}
	if s.MarginBottom < 0 {
		s.MarginBottom = 0
	}
	if s.PageHeight <= s.MarginTop+s.MarginBottom {
		s.PageHeight = s.MarginTop + s.MarginBottom +
			float64(s.Rows)*(s.ModuleHeight+s.GutterV)
	}
	return s
}

// RowStep returns the vertical distance between consecutive module tops,
// in baseline units.
func (s Shape) RowStep() float64 {
	return (s.ModuleHeight + s.GutterV) / s.BaselineUnit
}

// ContentHeight returns the height of the content area between the top and
// bottom margins, in baseline units. Rows past this value are below the
// visible page.
func (s Shape) ContentHeight() float64 {
	return (s.PageHeight - s.MarginTop - s.MarginBottom) / s.BaselineUnit
}

// RowAt returns the row offset of module-row index k in baseline units.
// Indexes at or beyond Rows continue the grid past its declared extent at
// the same step.
func (s Shape) RowAt(k int) float64 {
	return float64(k) * s.RowStep()
}

// RowIndex returns the module-row index whose offset is nearest to row.
// Exact midpoints resolve toward the lower index; negative rows map to 0.
func (s Shape) RowIndex(row float64) int {
	step := s.RowStep()
	if step <= 0 {
		return 0
	}
	k := int(math.Ceil(row/step - 0.5))
	if k < 0 {
		k = 0
	}
	return k
}
