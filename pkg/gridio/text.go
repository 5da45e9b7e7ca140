package gridio

import (
	"fmt"
	"strings"

	"github.com/longplay45/swissgrid/pkg/typography"
)

const textRule = 70

// TextSummary renders the summary as the plain text parameter sheet: a
// fixed-width table layout suitable for documentation or a terminal.
func TextSummary(s Summary) string {
	var lines []string
	rule := strings.Repeat("=", textRule)
	sep := strings.Repeat("-", textRule)

	lines = append(lines,
		rule,
		"SWISS GRID SYSTEM - PARAMETERS",
		rule,
		"",
		"SETTINGS",
		sep,
		fmt.Sprintf("  Format:          %s", s.Format),
		fmt.Sprintf("  Orientation:     %s", s.Settings.Orientation),
		fmt.Sprintf("  Margin Method:   %s", s.Settings.MarginMethod),
		fmt.Sprintf("  Grid:            %d cols × %d rows", s.Settings.GridCols, s.Settings.GridRows),
		"",
		"PAGE DIMENSIONS",
		sep,
		fmt.Sprintf("  Page Size:       %.3f × %.3f pt", s.PageSize.Width, s.PageSize.Height),
		fmt.Sprintf("  Content Area:    %.3f × %.3f pt", s.ContentArea.Width, s.ContentArea.Height),
		fmt.Sprintf("  Module Size:     %.3f × %.3f pt", s.Module.Width, s.Module.Height),
		fmt.Sprintf("  Aspect Ratio:    %.3f", s.Module.AspectRatio),
		fmt.Sprintf("  Scale Factor:    %.3f× (relative to A4)", s.Grid.ScaleFactor),
		"",
		"GUTTER CONFIGURATION",
		sep,
		fmt.Sprintf("  Baseline Grid:   %.3f pt", s.Grid.GridUnit),
		fmt.Sprintf("  H. Gutter:       %.3f pt", s.Grid.GridMarginHorizontal),
		fmt.Sprintf("  V. Gutter:       %.3f pt", s.Grid.GridMarginVertical),
	)

	if s.Grid.BaselineUnitsPerCell > 0 {
		cellHeight := float64(s.Grid.BaselineUnitsPerCell) * s.Grid.GridUnit
		lines = append(lines, fmt.Sprintf("  Cell Height:     %.3f pt (%d baseline units)",
			cellHeight, s.Grid.BaselineUnitsPerCell))
	}

	m := s.Grid.Margins
	lines = append(lines,
		fmt.Sprintf("  Margins:         T:%.3f B:%.3f L:%.3f R:%.3f", m.Top, m.Bottom, m.Left, m.Right),
		"",
		"TYPOGRAPHY SYSTEM",
		sep,
		fmt.Sprintf("  %-12s %-12s %-12s %-10s %s", "Style", "Size", "Leading", "Weight", "Alignment"),
		fmt.Sprintf("  %s %s %s %s %s",
			strings.Repeat("-", 12), strings.Repeat("-", 12), strings.Repeat("-", 12),
			strings.Repeat("-", 10), strings.Repeat("-", 10)),
	)

	for _, name := range typography.StyleNames() {
		st, ok := s.Typography.Styles[name]
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %-12s %-12s %-12s %-10s %s",
			capitalize(name),
			fmt.Sprintf("%.3f pt", st.Size),
			fmt.Sprintf("%.3f pt", st.Leading),
			st.Weight, st.Alignment))
	}

	lines = append(lines,
		"",
		"SWISS DESIGN PRINCIPLES",
		sep,
		fmt.Sprintf("  Reference:  %s", s.Principles.Reference),
		fmt.Sprintf("  ✓ %s", s.Principles.BaselineAlignment),
		fmt.Sprintf("  ✓ %s", s.Principles.ModularConsistency),
		fmt.Sprintf("  ✓ %s", s.Principles.Scalability),
		"",
		"OUTPUT FILES",
		sep,
		fmt.Sprintf("  Grid JSON:   %s", s.Outputs.GridJSON),
	)
	if s.Outputs.GridTXT != "" {
		lines = append(lines, fmt.Sprintf("  Grid TXT:    %s", s.Outputs.GridTXT))
	}
	lines = append(lines,
		fmt.Sprintf("  Grid PDF:    %s", s.Outputs.BaselineGridPDF),
		"",
		rule,
		"",
		"Copyleft & -right 2026 by https://lp45.net",
		"License MIT. Source Code: https://github.com/longplay45/swissgrid",
	)

	return strings.Join(lines, "\n")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
