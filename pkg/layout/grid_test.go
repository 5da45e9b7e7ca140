package layout

import "testing"

func TestShape_RowStep(t *testing.T) {
	s := testShape()
	if got := s.RowStep(); got != 5 {
		t.Errorf("RowStep() = %g, want 5", got)
	}
}

func TestShape_ContentHeight(t *testing.T) {
	s := testShape()
	if got := s.ContentHeight(); got != 30 {
		t.Errorf("ContentHeight() = %g, want 30", got)
	}
}

func TestShape_RowIndex(t *testing.T) {
	s := testShape()
	tests := []struct {
		name string
		row  float64
		want int
	}{
		{"origin", 0, 0},
		{"exact step", 15, 3},
		{"below midpoint", 12.4, 2},
		{"midpoint resolves low", 12.5, 2},
		{"above midpoint", 12.6, 3},
		{"negative", -8, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.RowIndex(tt.row); got != tt.want {
				t.Errorf("RowIndex(%g) = %d, want %d", tt.row, got, tt.want)
			}
		})
	}
}

func TestShape_RowAtInvertsRowIndex(t *testing.T) {
	s := testShape()
	for k := 0; k < 20; k++ {
		if got := s.RowIndex(s.RowAt(k)); got != k {
			t.Errorf("RowIndex(RowAt(%d)) = %d, want %d", k, got, k)
		}
	}
}

func TestShape_NormalizedDegenerate(t *testing.T) {
	var zero Shape
	n := zero.normalized()

	if n.Cols != 1 || n.Rows != 1 {
		t.Errorf("normalized zero shape has %dx%d grid, want 1x1", n.Cols, n.Rows)
	}
	if n.RowStep() <= 0 {
		t.Errorf("RowStep() = %g, want positive", n.RowStep())
	}
	if n.ContentHeight() <= 0 {
		t.Errorf("ContentHeight() = %g, want positive", n.ContentHeight())
	}
}

func TestShape_NormalizedPageHeightFallback(t *testing.T) {
	s := testShape()
	s.PageHeight = 0
	n := s.normalized()

	// Six 60pt row slots between the margins.
	if want := 24.0 + 36.0 + 6*60.0; n.PageHeight != want {
		t.Errorf("PageHeight = %g, want %g", n.PageHeight, want)
	}
}

func TestPriorityFor(t *testing.T) {
	tests := []struct {
		id   string
		want int
	}{
		{"display-1", 0},
		{"Display-2", 0},
		{"headline-main", 1},
		{"subhead-a", 2},
		{"body-3", 3},
		{"caption-fig1", 4},
		{"sidebar-1", 5},
		{"", 5},
	}

	for _, tt := range tests {
		if got := priorityFor(tt.id); got != tt.want {
			t.Errorf("priorityFor(%q) = %d, want %d", tt.id, got, tt.want)
		}
	}
}

func TestReadingIndex(t *testing.T) {
	s := testShape()
	a := ReadingIndex(Position{Col: 5, Row: 0}, s.Cols)
	b := ReadingIndex(Position{Col: 0, Row: 5}, s.Cols)
	if a >= b {
		t.Errorf("end of row 0 (%g) should read before start of row 5 (%g)", a, b)
	}
}
