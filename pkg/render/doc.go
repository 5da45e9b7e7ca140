// Package render draws grid sheets as SVG and converts them to print
// formats.
//
// # Overview
//
// This package turns a derived [geometry.Grid] into the three reference
// sheets of the grid system:
//
//   - [ModuleSheet]: the modular structure, every cell outlined with its
//     gutters, margins labeled on all four sides
//   - [BaselineSheet]: the baseline raster, every fourth line emphasized
//   - [PreviewSheet]: a document's placed blocks laid over the module grid
//
// All sheets are plain SVG bytes sized in points, so a sheet printed at
// 100% overlays the physical page exactly.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the external
// rsvg-convert tool (from librsvg):
//
//	svg := render.BaselineSheet(grid)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// When rsvg-convert is not on PATH the conversion functions return a
// [errors.MissingToolError] carrying an installation hint; SVG output
// never needs the tool.
//
// [geometry.Grid]: github.com/longplay45/swissgrid/pkg/geometry.Grid
// [errors.MissingToolError]: github.com/longplay45/swissgrid/pkg/errors.MissingToolError
package render
