package layout

import "strings"

// MeasureFunc reports the rendered width of text at a font size, in
// points. Implementations must be deterministic for identical inputs; the
// resolver calls it once per wrap decision.
type MeasureFunc func(text string, size float64) float64

// estimatedCharWidth approximates average glyph width as a fraction of the
// font size when no measurer is supplied.
const estimatedCharWidth = 0.55

// FitStyle carries the typographic parameters the resolver needs from a
// text style.
type FitStyle struct {
	Name               string  `json:"name"`
	Size               float64 `json:"size"`
	BaselineMultiplier float64 `json:"baseline_multiplier"`
	Reflow             bool    `json:"reflow"`
}

// FitRequest asks how many columns a block's text needs at its current row
// span and position.
type FitRequest struct {
	Text             string   `json:"text"`
	Style            FitStyle `json:"style"`
	RowSpan          int      `json:"row_span"`
	Position         Position `json:"position"`
	SyllableDivision bool     `json:"syllable_division"`
}

// FitResult is the resolver's answer: the column span the wrapped text
// needs, the position with its column clamped inside the grid, and the
// number of wrapped lines.
type FitResult struct {
	Span     int      `json:"span"`
	Position Position `json:"position"`
	Lines    int      `json:"lines"`
}

// Fit computes the column span a block's text requires when wrapped at one
// module-column width. It returns ok=false when the style has no reflow
// behavior, the text is empty or whitespace, or the line step is not
// positive; the block then keeps its span.
//
// Lines per column is the module-span height divided by the line step
// (baseline multiplier times baseline unit), further capped by the lines
// that fit between the block's top and the bottom margin, and never below
// one. The returned position keeps the request's row; the column is
// clamped so the span stays inside the grid's right edge.
func Fit(shape Shape, req FitRequest, measure MeasureFunc) (FitResult, bool) {
	if !req.Style.Reflow {
		return FitResult{}, false
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return FitResult{}, false
	}
	shape = shape.normalized()
	if measure == nil {
		measure = estimateWidth
	}

	lineStep := req.Style.BaselineMultiplier * shape.BaselineUnit
	if lineStep <= 0 {
		return FitResult{}, false
	}

	rowSpan := req.RowSpan
	if rowSpan < 1 {
		rowSpan = 1
	}
	if rowSpan > shape.Rows {
		rowSpan = shape.Rows
	}

	spanHeight := float64(rowSpan)*shape.ModuleHeight + float64(rowSpan-1)*shape.GutterV
	perColumn := int(spanHeight / lineStep)

	row := req.Position.Row
	if row < 0 {
		row = 0
	}
	if avail := (shape.ContentHeight() - row) * shape.BaselineUnit; avail < spanHeight {
		if below := int(avail / lineStep); below < perColumn {
			perColumn = below
		}
	}
	if perColumn < 1 {
		perColumn = 1
	}

	lines := wrapLines(text, shape.ModuleWidth, req.Style.Size, req.SyllableDivision, measure)

	col := req.Position.Col
	if col < 0 {
		col = 0
	}
	if col > shape.Cols-1 {
		col = shape.Cols - 1
	}

	span := (len(lines) + perColumn - 1) / perColumn
	if span < 1 {
		span = 1
	}
	if max := shape.Cols - col; span > max {
		span = max
	}

	return FitResult{
		Span:     span,
		Position: Position{Col: col, Row: req.Position.Row},
		Lines:    len(lines),
	}, true
}

// estimateWidth is the fallback measurer: a fixed average glyph width as a
// fraction of the font size.
func estimateWidth(text string, size float64) float64 {
	return float64(len([]rune(text))) * size * estimatedCharWidth
}

// wrapLines breaks text into lines no wider than width using greedy word
// wrap. Oversize words are split with a trailing hyphen when syllables is
// true, otherwise they overflow their own line.
func wrapLines(text string, width, size float64, syllables bool, measure MeasureFunc) []string {
	words := strings.Fields(text)
	lines := make([]string, 0, len(words)/4+1)
	line := ""

	for _, word := range words {
		if line != "" {
			if cand := line + " " + word; measure(cand, size) <= width {
				line = cand
				continue
			}
			lines = append(lines, line)
			line = ""
		}
		for syllables && measure(word, size) > width {
			head, tail := hyphenate(word, width, size, measure)
			if head == "" {
				break
			}
			lines = append(lines, head)
			word = tail
		}
		line = word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// hyphenate splits word at the longest prefix that still fits in width
// once a hyphen is appended. An empty head means no prefix fits.
func hyphenate(word string, width, size float64, measure MeasureFunc) (head, tail string) {
	runes := []rune(word)
	fit := 0
	for i := 1; i < len(runes); i++ {
		if measure(string(runes[:i])+"-", size) > width {
			break
		}
		fit = i
	}
	if fit == 0 {
		return "", word
	}
	return string(runes[:fit]) + "-", string(runes[fit:])
}
