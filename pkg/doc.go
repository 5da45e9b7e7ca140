// Package pkg provides the core libraries for Swissgrid modular grid layout.
//
// # Overview
//
// Swissgrid derives Swiss-style modular grids, the baseline-aligned module
// matrices in the manner of Müller-Brockmann, and plans block layouts on
// them. The pkg directory is organized into four main areas:
//
//  1. Grid system: geometry, typography, measure
//  2. Layout engine: layout, layout/dispatch
//  3. Documents: document, document/store
//  4. Output: render, gridio, pipeline
//
// # Architecture
//
// The typical data flow through Swissgrid:
//
//	Page parameters (format, orientation, division, margins)
//	         ↓
//	    [geometry] package (derive the modular grid)
//	         ↓
//	    [typography] package (scale the type system to the grid)
//	         ↓
//	    [layout] package (plan placements, resolve text fits)
//	         ↓
//	    [render] / [gridio] packages (SVG sheets, summaries)
//	         ↓
//	    SVG/PDF/PNG/JSON/TXT output
//
// # Quick Start
//
// Derive a grid and render its module sheet:
//
//	import (
//	    "github.com/longplay45/swissgrid/pkg/geometry"
//	    "github.com/longplay45/swissgrid/pkg/render"
//	)
//
//	// 1. Derive the grid
//	grid, _ := geometry.Derive(geometry.Params{
//	    Format:       geometry.FormatA4,
//	    Orientation:  geometry.Portrait,
//	    Cols:         6,
//	    Rows:         9,
//	    MarginMethod: geometry.MarginProgressive,
//	})
//
//	// 2. Render the sheet
//	svg := render.ModuleSheet(grid)
//
// Plan a document's blocks onto the grid:
//
//	import (
//	    "github.com/longplay45/swissgrid/pkg/document"
//	    "github.com/longplay45/swissgrid/pkg/layout/dispatch"
//	    "github.com/longplay45/swissgrid/pkg/measure"
//	)
//
//	doc := document.NewDefault(grid)
//	exec := dispatch.NewInline(measure.Heuristic(0))
//	moved, _ := doc.Reflow(ctx, grid, exec)
//
// # Main Packages
//
// ## Grid System
//
// [geometry] - Grid derivation. Computes margins, content area, module
// dimensions, and baseline alignment for the DIN A series with three
// margin construction methods.
//
// [typography] - The typographic scale. Eight styles from caption to
// display, every line height a whole multiple of the baseline unit,
// scaled between formats by the square root of the area ratio.
//
// [measure] - Text width measurement: a character-class heuristic by
// default, glyph metrics from a TTF file when one is supplied.
//
// ## Layout Engine
//
// [layout] - The placement planner and fit resolver. The planner tiles
// blocks onto the module grid in reading order; the fit resolver finds
// the span and line count a block's text needs.
//
// [layout/dispatch] - Execution bridge between calling surfaces and the
// engine: inline executor, worker pool, and the latest-wins site used by
// interactive callers.
//
// ## Documents
//
// [document] - The block document: identified blocks with styles, spans,
// and grid positions, plus reflow, fit application, and undo history.
//
// [document/store] - Persistence backends behind one interface: memory,
// directory of JSON files, Redis, and MongoDB, selected by URL scheme.
//
// ## Output
//
// [render] - SVG sheet rendering (modules, baselines, document preview,
// printable reference) and conversion to PDF/PNG via rsvg-convert.
//
// [gridio] - Parameter summaries: the JSON summary document and the
// plain-text parameter sheet.
//
// [pipeline] - The derive → scale → render pipeline shared by the CLI
// and the HTTP server, with worker dispatch and conversion caching.
//
// ## Infrastructure
//
// [cache] - Content-addressed file cache for converted artifacts.
//
// [observability] - Process-wide hook points for engine, render, and
// store instrumentation.
//
// [errors] - Coded errors shared across the module, with user-facing
// messages and HTTP-mappable codes.
//
// [buildinfo] - Build metadata injected at link time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/layout/...   # Specific package
//	go test -run Example       # Examples only
//
// [geometry]: https://pkg.go.dev/github.com/longplay45/swissgrid/pkg/geometry
// [typography]: https://pkg.go.dev/github.com/longplay45/swissgrid/pkg/typography
// [measure]: https://pkg.go.dev/github.com/longplay45/swissgrid/pkg/measure
// [layout]: https://pkg.go.dev/github.com/longplay45/swissgrid/pkg/layout
// [layout/dispatch]: https://pkg.go.dev/github.com/longplay45/swissgrid/pkg/layout/dispatch
// [document]: https://pkg.go.dev/github.com/longplay45/swissgrid/pkg/document
// [document/store]: https://pkg.go.dev/github.com/longplay45/swissgrid/pkg/document/store
// [render]: https://pkg.go.dev/github.com/longplay45/swissgrid/pkg/render
// [gridio]: https://pkg.go.dev/github.com/longplay45/swissgrid/pkg/gridio
// [pipeline]: https://pkg.go.dev/github.com/longplay45/swissgrid/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/longplay45/swissgrid/pkg/cache
// [observability]: https://pkg.go.dev/github.com/longplay45/swissgrid/pkg/observability
// [errors]: https://pkg.go.dev/github.com/longplay45/swissgrid/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/longplay45/swissgrid/pkg/buildinfo
package pkg
