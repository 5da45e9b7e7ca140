// Package pipeline runs the derive → scale → render sequence shared by
// the CLI and the server.
//
// # Architecture
//
// A generation run has three stages:
//
//  1. Derive: compute the modular grid from page parameters
//  2. Scale: derive the typographic system for the grid
//  3. Render: produce the requested artifacts (SVG sheets, PDF, PNG,
//     JSON and TXT parameter summaries)
//
// Reflow and fit runs go through the same Runner but hand the layout
// work to a dispatch executor, so interactive callers can share a worker
// pool while batch callers stay inline.
//
// # Usage
//
// Create a Runner and execute a generation run:
//
//	runner := pipeline.NewRunner(nil, logger)
//	defer runner.Close()
//	opts := pipeline.Options{Format: "A3", Formats: []string{"svg", "json"}}
//	result, err := runner.Generate(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	paths, err := result.WriteArtifacts(outDir)
//
// Re-plan an existing document onto a new grid:
//
//	moved, err := runner.Reflow(ctx, doc, pipeline.Options{Cols: 6, Rows: 9})
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/longplay45/swissgrid/pkg/errors"
	"github.com/longplay45/swissgrid/pkg/geometry"
	"github.com/longplay45/swissgrid/pkg/gridio"
	"github.com/longplay45/swissgrid/pkg/typography"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatTXT  = "txt"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPDF:  true,
	FormatPNG:  true,
	FormatJSON: true,
	FormatTXT:  true,
}

// DefaultFormats are the artifacts produced when none are requested: the
// JSON and TXT parameter summaries plus the printable PDF reference.
var DefaultFormats = []string{FormatJSON, FormatTXT, FormatPDF}

// DefaultPNGScale is the raster scale for PNG conversion.
const DefaultPNGScale = 2.0

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Grid parameters. Zero values fall back to the A4 portrait 9x9
	// defaults.
	Format         string  `json:"format,omitempty"`
	Orientation    string  `json:"orientation,omitempty"`
	Cols           int     `json:"cols,omitempty"`
	Rows           int     `json:"rows,omitempty"`
	MarginMethod   int     `json:"margin_method,omitempty"`
	Baseline       float64 `json:"baseline,omitempty"`
	MarginMultiple float64 `json:"margin_multiple,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	PNGScale float64  `json:"png_scale,omitempty"`

	// FontPath selects the measuring font for fit resolution. Empty uses
	// the character-width heuristic.
	FontPath string `json:"font_path,omitempty"`

	// Workers sizes the dispatch pool built by NewExecutor; zero keeps
	// execution inline.
	Workers int `json:"workers,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a generation run.
type Result struct {
	// Grid is the derived modular grid.
	Grid geometry.Grid

	// System is the scaled typographic system.
	System typography.System

	// Summary is the complete parameter summary.
	Summary gridio.Summary

	// Artifacts contains rendered outputs keyed by filename.
	Artifacts map[string][]byte

	// CacheInfo reports cache usage during the run.
	CacheInfo CacheInfo

	// Stats contains timing information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	DeriveTime time.Duration
	RenderTime time.Duration
}

// CacheInfo reports which parts of a run were served from cache.
type CacheInfo struct {
	// ConvertHits counts PDF and PNG artifacts reused from the
	// conversion cache instead of converted by the external tool.
	ConvertHits int
}

// ValidateFormat checks that an output format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid output format: %q (must be one of: svg, pdf, png, json, txt)", format)
	}
	return nil
}

// ValidateFormats checks that all output formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks all fields and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	def := geometry.DefaultParams()
	if o.Format == "" {
		o.Format = string(def.Format)
	}
	format, err := geometry.ParseFormat(o.Format)
	if err != nil {
		return err
	}
	o.Format = string(format)

	if o.Orientation == "" {
		o.Orientation = string(def.Orientation)
	}
	orientation, err := geometry.ParseOrientation(o.Orientation)
	if err != nil {
		return err
	}
	o.Orientation = string(orientation)

	if o.Cols == 0 {
		o.Cols = geometry.DefaultCols
	}
	if o.Rows == 0 {
		o.Rows = geometry.DefaultRows
	}
	if o.MarginMethod == 0 {
		o.MarginMethod = int(geometry.MarginProgressive)
	}
	if err := o.Params().Validate(); err != nil {
		return err
	}

	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), DefaultFormats...)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// Params converts the options to geometry parameters.
func (o *Options) Params() geometry.Params {
	return geometry.Params{
		Format:         geometry.Format(o.Format),
		Orientation:    geometry.Orientation(o.Orientation),
		Cols:           o.Cols,
		Rows:           o.Rows,
		MarginMethod:   geometry.MarginMethod(o.MarginMethod),
		BaselineUnit:   o.Baseline,
		MarginMultiple: o.MarginMultiple,
	}
}
