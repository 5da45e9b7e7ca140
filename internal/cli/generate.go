package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/longplay45/swissgrid/pkg/document"
	"github.com/longplay45/swissgrid/pkg/gridio"
	"github.com/longplay45/swissgrid/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	format         string  // page format: A0 through A6
	landscape      bool    // landscape orientation
	grid           string  // grid division as COLSxROWS, e.g. "6x9"
	baseline       float64 // baseline unit override in points
	marginMethod   int     // margin construction method 1-3
	marginMultiple float64 // margin multiplier in baseline units
	formats        string  // comma-separated output formats
	pngScale       float64 // raster scale for PNG conversion
	fontPath       string  // TTF font for fit measurement
	output         string  // output directory
	document       string  // write a starter document to this path
	noCache        bool    // disable the conversion cache
}

// generateCommand creates the generate command, the main entry point for
// deriving a grid and rendering its sheets.
func (c *CLI) generateCommand() *cobra.Command {
	opts := generateOpts{pngScale: pipeline.DefaultPNGScale}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Derive a modular grid and render its sheets",
		Long: `Derive a modular grid from page parameters, scale the typographic
system to it, and render the requested artifacts: SVG module and baseline
sheets, the printable PDF or PNG reference, and JSON and TXT parameter
summaries.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pOpts, err := opts.pipelineOptions()
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), pOpts, opts.output, opts.document, opts.noCache)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "page format: A0-A6 (default A4)")
	cmd.Flags().BoolVar(&opts.landscape, "landscape", false, "landscape orientation")
	cmd.Flags().StringVarP(&opts.grid, "grid", "g", "", "grid division as COLSxROWS, e.g. 6x9 (default 9x9)")
	cmd.Flags().Float64Var(&opts.baseline, "baseline", 0, "baseline unit in points (default scaled from 12pt A4)")
	cmd.Flags().IntVarP(&opts.marginMethod, "margin-method", "m", 0, "margin method: 1 progressive, 2 Van de Graaf, 3 grid-based")
	cmd.Flags().Float64Var(&opts.marginMultiple, "margin-multiple", 0, "margin multiplier in baseline units")
	cmd.Flags().StringVar(&opts.formats, "formats", "", "output formats: svg, pdf, png, json, txt (comma-separated)")
	cmd.Flags().Float64Var(&opts.pngScale, "png-scale", opts.pngScale, "raster scale for PNG output")
	cmd.Flags().StringVar(&opts.fontPath, "font", "", "TTF font for width measurement")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default current directory)")
	cmd.Flags().StringVar(&opts.document, "document", "", "write a starter document for this grid to this path")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the conversion cache")

	return cmd
}

// pipelineOptions converts the flag values into pipeline options.
func (o generateOpts) pipelineOptions() (pipeline.Options, error) {
	cols, rows, err := parseGrid(o.grid)
	if err != nil {
		return pipeline.Options{}, err
	}

	opts := pipeline.Options{
		Format:         o.format,
		Cols:           cols,
		Rows:           rows,
		Baseline:       o.baseline,
		MarginMethod:   o.marginMethod,
		MarginMultiple: o.marginMultiple,
		PNGScale:       o.pngScale,
		FontPath:       o.fontPath,
	}
	if o.landscape {
		opts.Orientation = "landscape"
	}
	if o.formats != "" {
		opts.Formats = splitList(o.formats)
	}
	return opts, nil
}

// runGenerate executes a full generation run and writes the artifacts,
// plus a starter document when docPath is set. It is shared by the
// generate and interactive commands.
func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, outDir, docPath string, noCache bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.apply(&opts)
	if outDir == "" {
		outDir = cfg.OutputDir
	}

	runner := c.newRunner(opts)
	runner.Cache = newCache(noCache)
	defer runner.Close()

	sp := newSpinner("Deriving grid and rendering sheets...")
	sp.Start()
	res, err := runner.Generate(ctx, opts)
	if err != nil {
		sp.Stop()
		return err
	}
	paths, err := res.WriteArtifacts(outDir)
	sp.Stop()
	if err != nil {
		return err
	}

	printSuccess("Generated %s %s grid, %d × %d modules",
		res.Grid.Format, res.Grid.Orientation, res.Grid.Cols, res.Grid.Rows)
	fmt.Println(renderSummaryTable(res.Summary))
	for _, p := range paths {
		printFile(p)
	}

	docHint := "document.json"
	if docPath != "" {
		doc := document.NewDefault(res.Grid)
		if err := gridio.SaveDocument(docPath, doc); err != nil {
			return err
		}
		printFile(docPath)
		docHint = docPath
	}

	printNewline()
	printNextStep("Reflow a saved document onto this grid",
		fmt.Sprintf("%s reflow %s --grid %dx%d", appName, docHint, res.Grid.Cols, res.Grid.Rows))
	return nil
}

// parseGrid parses a COLSxROWS flag value like "6x9". Empty input returns
// zeros so the built-in defaults apply.
func parseGrid(s string) (cols, rows int, err error) {
	if s == "" {
		return 0, 0, nil
	}
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid grid %q (use COLSxROWS, e.g. 6x9)", s)
	}
	cols, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err == nil {
		rows, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	}
	if err != nil {
		return 0, 0, fmt.Errorf("invalid grid %q (use COLSxROWS, e.g. 6x9)", s)
	}
	return cols, rows, nil
}

// splitList splits a comma-separated flag value, trimming whitespace and
// dropping empty entries.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
