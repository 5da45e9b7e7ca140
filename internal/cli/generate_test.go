package cli

import (
	"reflect"
	"testing"
)

func TestParseGrid(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCols int
		wantRows int
		wantErr  bool
	}{
		{name: "empty uses defaults", input: "", wantCols: 0, wantRows: 0},
		{name: "standard", input: "6x9", wantCols: 6, wantRows: 9},
		{name: "uppercase separator", input: "6X9", wantCols: 6, wantRows: 9},
		{name: "square", input: "12x12", wantCols: 12, wantRows: 12},
		{name: "missing rows", input: "6", wantErr: true},
		{name: "no numbers", input: "bad", wantErr: true},
		{name: "letters", input: "axb", wantErr: true},
		{name: "trailing separator", input: "6x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols, rows, err := parseGrid(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseGrid(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if cols != tt.wantCols || rows != tt.wantRows {
				t.Errorf("parseGrid(%q) = %d, %d, want %d, %d", tt.input, cols, rows, tt.wantCols, tt.wantRows)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "single", input: "json", want: []string{"json"}},
		{name: "multiple", input: "json,txt,svg", want: []string{"json", "txt", "svg"}},
		{name: "whitespace", input: " json , txt ", want: []string{"json", "txt"}},
		{name: "empty entries", input: "json,,txt,", want: []string{"json", "txt"}},
		{name: "empty", input: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitList(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitList(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPipelineOptions(t *testing.T) {
	o := generateOpts{
		format:    "A3",
		landscape: true,
		grid:      "6x9",
		baseline:  14.0,
		formats:   "json, txt",
		pngScale:  2.0,
	}

	opts, err := o.pipelineOptions()
	if err != nil {
		t.Fatalf("pipelineOptions() error = %v", err)
	}

	if opts.Format != "A3" {
		t.Errorf("Format = %q, want %q", opts.Format, "A3")
	}
	if opts.Orientation != "landscape" {
		t.Errorf("Orientation = %q, want %q", opts.Orientation, "landscape")
	}
	if opts.Cols != 6 || opts.Rows != 9 {
		t.Errorf("grid = %dx%d, want 6x9", opts.Cols, opts.Rows)
	}
	if opts.Baseline != 14.0 {
		t.Errorf("Baseline = %v, want 14.0", opts.Baseline)
	}
	if !reflect.DeepEqual(opts.Formats, []string{"json", "txt"}) {
		t.Errorf("Formats = %v, want [json txt]", opts.Formats)
	}
}

func TestPipelineOptions_PortraitKeepsZeroOrientation(t *testing.T) {
	opts, err := generateOpts{}.pipelineOptions()
	if err != nil {
		t.Fatalf("pipelineOptions() error = %v", err)
	}
	if opts.Orientation != "" {
		t.Errorf("Orientation = %q, want empty so the default applies", opts.Orientation)
	}
	if opts.Formats != nil {
		t.Errorf("Formats = %v, want nil so the default applies", opts.Formats)
	}
}

func TestPipelineOptions_BadGrid(t *testing.T) {
	if _, err := (generateOpts{grid: "wide"}).pipelineOptions(); err == nil {
		t.Error("pipelineOptions() should reject a malformed grid flag")
	}
}
