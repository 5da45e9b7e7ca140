package layout

import (
	"strings"
	"testing"
)

// fitShape returns a 4x8 grid with 220pt modules and a 12pt baseline, so a
// half-size measurer yields 44 characters per line at 10pt body text.
func fitShape() Shape {
	return Shape{
		Cols:         4,
		Rows:         8,
		ModuleWidth:  220,
		ModuleHeight: 54,
		GutterH:      12,
		GutterV:      6,
		BaselineUnit: 12,
		PageHeight:   540,
		MarginTop:    24,
		MarginBottom: 36,
	}
}

// measureHalf charges half the font size per rune, which makes wrap
// boundaries exact in tests.
func measureHalf(text string, size float64) float64 {
	return float64(len([]rune(text))) * size * 0.5
}

func bodyStyle() FitStyle {
	return FitStyle{Name: "body", Size: 10, BaselineMultiplier: 1, Reflow: true}
}

// words returns n space-joined words of width runes each.
func words(n, width int) string {
	w := strings.Repeat("x", width)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = w
	}
	return strings.Join(parts, " ")
}

func TestFit_ParagraphSpansColumns(t *testing.T) {
	// 45 eight-rune words wrap five to a 44-character line, so 9 lines.
	// A one-row module holds 4 lines of 12pt leading, so 3 columns.
	req := FitRequest{
		Text:    words(45, 8),
		Style:   bodyStyle(),
		RowSpan: 1,
	}

	res, ok := Fit(fitShape(), req, measureHalf)

	if !ok {
		t.Fatal("Fit returned ok=false for reflowing body text")
	}
	if res.Lines != 9 {
		t.Errorf("Lines = %d, want 9", res.Lines)
	}
	if res.Span != 3 {
		t.Errorf("Span = %d, want 3", res.Span)
	}
	if res.Position != (Position{}) {
		t.Errorf("Position = %v, want origin preserved", res.Position)
	}
}

func TestFit_NoReflowStyle(t *testing.T) {
	style := bodyStyle()
	style.Reflow = false
	req := FitRequest{Text: words(45, 8), Style: style, RowSpan: 1}

	if _, ok := Fit(fitShape(), req, measureHalf); ok {
		t.Error("Fit returned ok=true for a style without reflow")
	}
}

func TestFit_BlankText(t *testing.T) {
	for _, text := range []string{"", "   ", " \n\t  "} {
		req := FitRequest{Text: text, Style: bodyStyle(), RowSpan: 1}
		if _, ok := Fit(fitShape(), req, measureHalf); ok {
			t.Errorf("Fit returned ok=true for blank text %q", text)
		}
	}
}

func TestFit_ZeroLineStep(t *testing.T) {
	style := bodyStyle()
	style.BaselineMultiplier = 0
	req := FitRequest{Text: "some body text", Style: style, RowSpan: 1}

	if _, ok := Fit(fitShape(), req, measureHalf); ok {
		t.Error("Fit returned ok=true for a zero line step")
	}
}

func TestFit_RowSpanAddsCapacity(t *testing.T) {
	// Two module rows plus the gutter hold 9 lines, so the same text that
	// needs 3 columns at one row fits a single column at two.
	req := FitRequest{
		Text:    words(45, 8),
		Style:   bodyStyle(),
		RowSpan: 2,
	}

	res, ok := Fit(fitShape(), req, measureHalf)

	if !ok {
		t.Fatal("Fit returned ok=false")
	}
	if res.Lines != 9 {
		t.Errorf("Lines = %d, want 9", res.Lines)
	}
	if res.Span != 1 {
		t.Errorf("Span = %d, want 1", res.Span)
	}
}

func TestFit_BottomMarginCapsLines(t *testing.T) {
	// At row 38 of a 40-unit content area only 2 lines fit above the
	// bottom margin, so 9 lines ask for 5 columns, clamped to the grid.
	req := FitRequest{
		Text:     words(45, 8),
		Style:    bodyStyle(),
		RowSpan:  1,
		Position: Position{Col: 0, Row: 38},
	}

	res, ok := Fit(fitShape(), req, measureHalf)

	if !ok {
		t.Fatal("Fit returned ok=false")
	}
	if res.Span != 4 {
		t.Errorf("Span = %d, want 4 (5 columns clamped to the grid width)", res.Span)
	}
	if res.Position.Row != 38 {
		t.Errorf("Row = %g, want 38 unchanged", res.Position.Row)
	}
}

func TestFit_SpanClampedAtRightEdge(t *testing.T) {
	req := FitRequest{
		Text:     words(45, 8),
		Style:    bodyStyle(),
		RowSpan:  1,
		Position: Position{Col: 3},
	}

	res, ok := Fit(fitShape(), req, measureHalf)

	if !ok {
		t.Fatal("Fit returned ok=false")
	}
	if res.Span != 1 {
		t.Errorf("Span = %d, want 1 (only one column remains at col 3)", res.Span)
	}
}

func TestFit_ColumnClamped(t *testing.T) {
	tests := []struct {
		name    string
		col     int
		wantCol int
	}{
		{"negative", -4, 0},
		{"past right edge", 9, 3},
		{"inside", 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := FitRequest{
				Text:     "short line",
				Style:    bodyStyle(),
				RowSpan:  1,
				Position: Position{Col: tt.col, Row: 5},
			}
			res, ok := Fit(fitShape(), req, measureHalf)
			if !ok {
				t.Fatal("Fit returned ok=false")
			}
			if res.Position.Col != tt.wantCol {
				t.Errorf("Col = %d, want %d", res.Position.Col, tt.wantCol)
			}
			if res.Position.Row != 5 {
				t.Errorf("Row = %g, want 5 unchanged", res.Position.Row)
			}
		})
	}
}

func TestFit_SyllableDivision(t *testing.T) {
	// A 60-rune word exceeds the 44-character line. With division on it
	// breaks at the longest prefix that still fits with a hyphen.
	long := strings.Repeat("a", 60)

	req := FitRequest{Text: long, Style: bodyStyle(), RowSpan: 1, SyllableDivision: true}
	res, ok := Fit(fitShape(), req, measureHalf)
	if !ok {
		t.Fatal("Fit returned ok=false")
	}
	if res.Lines != 2 {
		t.Errorf("Lines = %d with division, want 2", res.Lines)
	}

	req.SyllableDivision = false
	res, ok = Fit(fitShape(), req, measureHalf)
	if !ok {
		t.Fatal("Fit returned ok=false")
	}
	if res.Lines != 1 {
		t.Errorf("Lines = %d without division, want 1 overflowing line", res.Lines)
	}
}

func TestFit_DefaultMeasure(t *testing.T) {
	req := FitRequest{Text: "grid module baseline", Style: bodyStyle(), RowSpan: 1}

	first, ok := Fit(fitShape(), req, nil)
	if !ok {
		t.Fatal("Fit returned ok=false with the estimate measurer")
	}
	second, _ := Fit(fitShape(), req, nil)
	if first != second {
		t.Errorf("estimate measurer is not deterministic: %+v vs %+v", first, second)
	}
	if first.Lines != 1 {
		t.Errorf("Lines = %d, want 1 for a short phrase", first.Lines)
	}
}

func TestWrapLines_GreedyBoundaries(t *testing.T) {
	// 44 characters fit a line exactly; the 45th forces a break.
	lines := wrapLines(words(10, 8), 220, 10, false, measureHalf)

	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
	if got := len(lines[0]); got != 44 {
		t.Errorf("first line is %d characters, want 44", got)
	}
}

func TestHyphenate_LongestFittingPrefix(t *testing.T) {
	word := strings.Repeat("b", 60)

	head, tail := hyphenate(word, 220, 10, measureHalf)

	if want := strings.Repeat("b", 43) + "-"; head != want {
		t.Errorf("head = %q (%d runes), want 43 runes plus hyphen", head, len(head))
	}
	if want := strings.Repeat("b", 17); tail != want {
		t.Errorf("tail = %q, want the remaining 17 runes", tail)
	}
}

func TestHyphenate_NoPrefixFits(t *testing.T) {
	head, tail := hyphenate("wide", 5, 10, measureHalf)

	if head != "" {
		t.Errorf("head = %q, want empty when not even one rune fits", head)
	}
	if tail != "wide" {
		t.Errorf("tail = %q, want the word back", tail)
	}
}
