package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"

	"github.com/longplay45/swissgrid/pkg/document"
	"github.com/longplay45/swissgrid/pkg/geometry"
)

// baselineEpsilon absorbs float drift when stepping down the page one
// baseline unit at a time.
const baselineEpsilon = 0.01

// footerLine1 is kept ASCII so the sheet prints identically under fonts
// without the umlaut.
const (
	footerLine1 = "Based on Muller-Brockmann's Grid Systems in Graphic Design (1981)."
	footerLine2 = "Copyleft & -right 2026 by https://lp45.net"
	footerLine3 = "License MIT. Source Code: https://github.com/longplay45/swissgrid"
)

// ModuleSheet renders the modular structure: every cell outlined with its
// gutters, the content area frame dashed, margins labeled on all four
// sides. Dimensions are points, so the sheet overlays the page at 100%.
func ModuleSheet(g geometry.Grid) []byte {
	var buf bytes.Buffer
	w, h := g.PageWidth, g.PageHeight

	writeHeader(&buf, w, h)
	buf.WriteString("  <defs>\n")
	fmt.Fprintf(&buf, `    <pattern id="gridPattern" width="%.3f" height="%.3f" patternUnits="userSpaceOnUse">`+"\n",
		g.ModuleWidth+g.GutterH, g.ModuleHeight+g.GutterV)
	fmt.Fprintf(&buf, `      <rect x="0" y="0" width="%.3f" height="%.3f" fill="none" stroke="cyan" stroke-width="0.5" stroke-opacity="0.7"/>`+"\n",
		g.ModuleWidth, g.ModuleHeight)
	buf.WriteString("    </pattern>\n")
	buf.WriteString("  </defs>\n")
	buf.WriteString("  <!-- Page background -->\n")
	buf.WriteString(`  <rect width="100%" height="100%" fill="white"/>` + "\n")
	buf.WriteString("  <!-- Page boundary -->\n")
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.3f" height="%.3f" fill="none" stroke="gray" stroke-width="0.5"/>`+"\n", w, h)
	buf.WriteString("  <!-- Content area boundary (dashed) -->\n")
	fmt.Fprintf(&buf, `  <rect x="%.3f" y="%.3f" width="%.3f" height="%.3f" fill="none" stroke="blue" stroke-width="0.3" stroke-dasharray="2,2"/>`+"\n",
		g.MarginLeft, g.MarginTop, g.ContentWidth, g.ContentHeight)

	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			x, y := moduleOrigin(g, c, r)
			fmt.Fprintf(&buf, `  <rect x="%.3f" y="%.3f" width="%.3f" height="%.3f" fill="none" stroke="cyan" stroke-width="0.5" stroke-opacity="0.7"/>`+"\n",
				x, y, g.ModuleWidth, g.ModuleHeight)
		}
	}

	buf.WriteString("  <!-- Margin labels -->\n")
	fmt.Fprintf(&buf, `  <text x="%.3f" y="%.3f" font-size="8" text-anchor="middle" transform="rotate(-90, %.3f, %.3f)" fill="gray">%.1fpt</text>`+"\n",
		g.MarginLeft/2, h/2, g.MarginLeft/2, h/2, g.MarginLeft)
	fmt.Fprintf(&buf, `  <text x="%.3f" y="%.3f" font-size="8" text-anchor="middle" transform="rotate(90, %.3f, %.3f)" fill="gray">%.1fpt</text>`+"\n",
		w-g.MarginRight/2, h/2, w-g.MarginRight/2, h/2, g.MarginRight)
	fmt.Fprintf(&buf, `  <text x="%.3f" y="%.3f" font-size="8" text-anchor="middle" fill="gray">%.1fpt</text>`+"\n",
		w/2, g.MarginTop/2+3, g.MarginTop)
	fmt.Fprintf(&buf, `  <text x="%.3f" y="%.3f" font-size="8" text-anchor="middle" fill="gray">%.1fpt</text>`+"\n",
		w/2, h-g.MarginBottom/2+3, g.MarginBottom)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// BaselineSheet renders the baseline raster across the content area,
// every fourth line emphasized in magenta.
func BaselineSheet(g geometry.Grid) []byte {
	var buf bytes.Buffer
	w, h := g.PageWidth, g.PageHeight

	writeHeader(&buf, w, h)
	buf.WriteString("  <!-- Page background -->\n")
	buf.WriteString(`  <rect width="100%" height="100%" fill="white"/>` + "\n")
	buf.WriteString("  <!-- Margin boundaries -->\n")
	fmt.Fprintf(&buf, `  <rect x="%.3f" y="%.3f" width="%.3f" height="%.3f" fill="none" stroke="lightgray" stroke-width="0.3"/>`+"\n",
		g.MarginLeft, g.MarginTop, g.ContentWidth, g.ContentHeight)
	buf.WriteString("  <!-- Baseline grid -->\n")

	if g.BaselineUnit > 0 {
		bottom := h - g.MarginBottom
		for y := g.MarginTop; y <= bottom+baselineEpsilon; y += g.BaselineUnit {
			n := int(math.Round((y - g.MarginTop) / g.BaselineUnit))
			color, width, opacity := "blue", 0.15, 0.3
			if n%4 == 0 {
				color, width, opacity = "magenta", 0.3, 0.6
			}
			fmt.Fprintf(&buf, `  <line x1="%.3f" y1="%.3f" x2="%.3f" y2="%.3f" stroke="%s" stroke-width="%.2f" stroke-opacity="%.1f"/>`+"\n",
				g.MarginLeft, y, w-g.MarginRight, y, color, width, opacity)
		}
	}

	fmt.Fprintf(&buf, `  <text x="%.3f" y="%.3f" font-size="8" fill="gray">Baseline grid: %.1fpt</text>`+"\n",
		g.MarginLeft+10, g.MarginTop-5, g.BaselineUnit)
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// ReferenceSheet renders the printable reference page: a shaded module
// checkerboard, module outlines, the baseline raster across the full page
// and the attribution footer. This is the sheet converted to PDF.
func ReferenceSheet(g geometry.Grid) []byte {
	var buf bytes.Buffer
	w, h := g.PageWidth, g.PageHeight

	writeHeader(&buf, w, h)
	buf.WriteString("  <!-- Page background -->\n")
	buf.WriteString(`  <rect width="100%" height="100%" fill="white"/>` + "\n")

	buf.WriteString("  <!-- Module checkerboard -->\n")
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if (r+c)%2 != 0 {
				continue
			}
			x, y := moduleOrigin(g, c, r)
			fmt.Fprintf(&buf, `  <rect x="%.3f" y="%.3f" width="%.3f" height="%.3f" fill="#f5f5f5"/>`+"\n",
				x, y, g.ModuleWidth, g.ModuleHeight)
		}
	}

	buf.WriteString("  <!-- Module outlines -->\n")
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			x, y := moduleOrigin(g, c, r)
			fmt.Fprintf(&buf, `  <rect x="%.3f" y="%.3f" width="%.3f" height="%.3f" fill="none" stroke="#0080ff" stroke-width="0.25"/>`+"\n",
				x, y, g.ModuleWidth, g.ModuleHeight)
		}
	}

	buf.WriteString("  <!-- Baseline grid across the full page -->\n")
	if g.BaselineUnit > 0 {
		for y := 0.0; y <= h+baselineEpsilon; y += g.BaselineUnit {
			n := int(math.Round(y / g.BaselineUnit))
			width, opacity := 0.15, 0.5
			if n%4 == 0 {
				width, opacity = 0.25, 1.0
			}
			fmt.Fprintf(&buf, `  <line x1="0" y1="%.3f" x2="%.3f" y2="%.3f" stroke="magenta" stroke-width="%.2f" stroke-opacity="%.1f"/>`+"\n",
				y, w, y, width, opacity)
		}
	}

	buf.WriteString("  <!-- Footer -->\n")
	footerY := h - g.MarginBottom + 25
	for i, line := range []string{footerLine1, footerLine2, footerLine3} {
		fmt.Fprintf(&buf, `  <text x="%.3f" y="%.3f" font-size="7" font-family="Helvetica" fill="#4d4d4d">%s</text>`+"\n",
			g.MarginLeft, footerY+float64(i)*10, escapeXML(line))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// PreviewSheet renders a document's placed blocks over its grid: faint
// module cells under one outlined rectangle per block, labeled with the
// block ID.
func PreviewSheet(doc *document.Document) []byte {
	g := doc.Grid
	var buf bytes.Buffer
	w, h := g.PageWidth, g.PageHeight

	writeHeader(&buf, w, h)
	buf.WriteString("  <!-- Page background -->\n")
	buf.WriteString(`  <rect width="100%" height="100%" fill="white"/>` + "\n")
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.3f" height="%.3f" fill="none" stroke="gray" stroke-width="0.5"/>`+"\n", w, h)

	buf.WriteString("  <!-- Module grid -->\n")
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			x, y := moduleOrigin(g, c, r)
			fmt.Fprintf(&buf, `  <rect x="%.3f" y="%.3f" width="%.3f" height="%.3f" fill="none" stroke="cyan" stroke-width="0.5" stroke-opacity="0.25"/>`+"\n",
				x, y, g.ModuleWidth, g.ModuleHeight)
		}
	}

	buf.WriteString("  <!-- Placed blocks -->\n")
	for _, b := range doc.Blocks {
		span, rowSpan := b.Span, b.RowSpan
		if span < 1 {
			span = 1
		}
		if rowSpan < 1 {
			rowSpan = 1
		}
		x := g.MarginLeft + float64(b.Position.Col)*(g.ModuleWidth+g.GutterH)
		y := g.MarginTop + b.Position.Row*g.BaselineUnit
		bw := float64(span)*g.ModuleWidth + float64(span-1)*g.GutterH
		bh := float64(rowSpan)*g.ModuleHeight + float64(rowSpan-1)*g.GutterV
		fmt.Fprintf(&buf, `  <rect x="%.3f" y="%.3f" width="%.3f" height="%.3f" fill="magenta" fill-opacity="0.06" stroke="magenta" stroke-width="0.6"/>`+"\n",
			x, y, bw, bh)
		fmt.Fprintf(&buf, `  <text x="%.3f" y="%.3f" font-size="6" font-family="Helvetica" fill="gray">%s</text>`+"\n",
			x+2, y+8, escapeXML(b.ID))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writeHeader(buf *bytes.Buffer, w, h float64) {
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(buf, `<svg width="%.3f" height="%.3f" xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.3f %.3f">`+"\n", w, h, w, h)
}

func moduleOrigin(g geometry.Grid, col, row int) (float64, float64) {
	x := g.MarginLeft + float64(col)*(g.ModuleWidth+g.GutterH)
	y := g.MarginTop + float64(row)*(g.ModuleHeight+g.GutterV)
	return x, y
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
