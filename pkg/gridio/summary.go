package gridio

import (
	"encoding/json"
	"io"
	"math"

	"github.com/longplay45/swissgrid/pkg/errors"
	"github.com/longplay45/swissgrid/pkg/geometry"
	"github.com/longplay45/swissgrid/pkg/typography"
)

// Summary captures every derived grid parameter for documentation and
// downstream tooling. Field order matches the exported JSON.
type Summary struct {
	Format      string            `json:"format"`
	Settings    SummarySettings   `json:"settings"`
	PageSize    Dimensions        `json:"page_size_pt"`
	Grid        SummaryGrid       `json:"grid"`
	ContentArea Dimensions        `json:"content_area"`
	Module      SummaryModule     `json:"module"`
	Typography  SummaryTypography `json:"typography"`
	Outputs     SummaryOutputs    `json:"outputs"`
	Principles  Principles        `json:"principles"`
}

// SummarySettings echoes the generation parameters.
type SummarySettings struct {
	Orientation    string `json:"orientation"`
	MarginMethod   string `json:"margin_method"`
	MarginMethodID int    `json:"margin_method_id"`
	GridCols       int    `json:"grid_cols"`
	GridRows       int    `json:"grid_rows"`
}

// Dimensions is a width and height pair in points.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// SummaryMargins holds the four snapped page margins.
type SummaryMargins struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

// SummaryGrid holds the baseline and gutter configuration.
type SummaryGrid struct {
	GridUnit             float64        `json:"grid_unit"`
	GridMarginHorizontal float64        `json:"grid_margin_horizontal"`
	GridMarginVertical   float64        `json:"grid_margin_vertical"`
	Margins              SummaryMargins `json:"margins"`
	Gutter               float64        `json:"gutter"`
	ScaleFactor          float64        `json:"scale_factor"`
	BaselineUnitsPerCell int            `json:"baseline_units_per_cell"`
}

// SummaryModule holds the module dimensions.
type SummaryModule struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
}

// SummaryStyle is the exported slice of a type style: size and leading in
// points, weight and alignment by name.
type SummaryStyle struct {
	Size      float64 `json:"size"`
	Leading   float64 `json:"leading"`
	Weight    string  `json:"weight"`
	Alignment string  `json:"alignment"`
}

// SummaryTypography holds the scaled type system.
type SummaryTypography struct {
	Metadata typography.Metadata     `json:"metadata"`
	Styles   map[string]SummaryStyle `json:"styles"`
}

// SummaryOutputs names the files a generation run produces.
type SummaryOutputs struct {
	GridJSON        string `json:"grid_json"`
	GridTXT         string `json:"grid_txt,omitempty"`
	BaselineGridPDF string `json:"baseline_grid_pdf"`
}

// Principles records the design reference every sheet follows.
type Principles struct {
	Reference          string `json:"reference"`
	BaselineAlignment  string `json:"baseline_alignment"`
	ModularConsistency string `json:"modular_consistency"`
	Scalability        string `json:"scalability"`
}

// defaultPrinciples is fixed text carried into every summary.
var defaultPrinciples = Principles{
	Reference:          "Müller-Brockmann, Grid Systems in Graphic Design (1981)",
	BaselineAlignment:  "All typography aligns to baseline grid",
	ModularConsistency: "Grid modules maintain proportional relationships",
	Scalability:        "System scales across A-series formats",
}

// BuildSummary assembles the full parameter summary for a derived grid
// and its scaled type system. Values are rounded to 3 decimals.
func BuildSummary(grid geometry.Grid, system typography.System) Summary {
	base := grid.BaseFilename()

	styles := make(map[string]SummaryStyle, len(system.Styles))
	for name, st := range system.Styles {
		styles[name] = SummaryStyle{
			Size:      round3(st.Size),
			Leading:   round3(st.Leading),
			Weight:    string(st.Weight),
			Alignment: st.Alignment,
		}
	}

	return Summary{
		Format: string(grid.Format),
		Settings: SummarySettings{
			Orientation:    string(grid.Orientation),
			MarginMethod:   grid.MarginMethod.Label(),
			MarginMethodID: int(grid.MarginMethod),
			GridCols:       grid.Cols,
			GridRows:       grid.Rows,
		},
		PageSize: Dimensions{
			Width:  round3(grid.PageWidth),
			Height: round3(grid.PageHeight),
		},
		Grid: SummaryGrid{
			GridUnit:             round3(grid.BaselineUnit),
			GridMarginHorizontal: round3(grid.GutterH),
			GridMarginVertical:   round3(grid.GutterV),
			Margins: SummaryMargins{
				Top:    round3(grid.MarginTop),
				Bottom: round3(grid.MarginBottom),
				Left:   round3(grid.MarginLeft),
				Right:  round3(grid.MarginRight),
			},
			Gutter:               round3(grid.GutterH),
			ScaleFactor:          round3(grid.ScaleFactor),
			BaselineUnitsPerCell: grid.UnitsPerCell,
		},
		ContentArea: Dimensions{
			Width:  round3(grid.ContentWidth),
			Height: round3(grid.ContentHeight),
		},
		Module: SummaryModule{
			Width:       round3(grid.ModuleWidth),
			Height:      round3(grid.ModuleHeight),
			AspectRatio: round3(grid.AspectRatio()),
		},
		Typography: SummaryTypography{
			Metadata: system.Metadata,
			Styles:   styles,
		},
		Outputs: SummaryOutputs{
			GridJSON:        base + "_grid.json",
			GridTXT:         base + "_grid.txt",
			BaselineGridPDF: base + "_grid.pdf",
		},
		Principles: defaultPrinciples,
	}
}

// WriteSummaryJSON writes the summary as indented JSON.
func WriteSummaryJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode summary")
	}
	return nil
}

// ReadSummaryJSON parses a summary written by WriteSummaryJSON.
func ReadSummaryJSON(r io.Reader) (Summary, error) {
	var s Summary
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Summary{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse summary")
	}
	return s, nil
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
