package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/longplay45/swissgrid/pkg/document"
	"github.com/longplay45/swissgrid/pkg/errors"
	"github.com/longplay45/swissgrid/pkg/gridio"
	"github.com/longplay45/swissgrid/pkg/pipeline"
	"github.com/longplay45/swissgrid/pkg/render"
)

// reflowOpts holds the command-line flags for the reflow command.
type reflowOpts struct {
	grid         string // target grid division as COLSxROWS
	format       string // target page format
	orientation  string // target orientation
	marginMethod int    // target margin method
	fontPath     string // TTF font for width measurement
	inPlace      bool   // overwrite the input file
	output       string // write the result to this path
	preview      string // render an SVG preview to this path
}

// reflowCommand creates the reflow command, which re-plans a saved
// document onto a new grid.
func (c *CLI) reflowCommand() *cobra.Command {
	var opts reflowOpts

	cmd := &cobra.Command{
		Use:   "reflow <document.json>",
		Short: "Re-plan a saved document onto a new grid",
		Long: `Re-plan the blocks of a saved document onto a new grid. Flags override
the document's own grid parameters; anything not overridden is kept. The
result goes to stdout unless --in-place or --output is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReflow(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.grid, "grid", "g", "", "target grid division as COLSxROWS, e.g. 3x9")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "target page format: A0-A6")
	cmd.Flags().StringVar(&opts.orientation, "orientation", "", "target orientation: portrait or landscape")
	cmd.Flags().IntVarP(&opts.marginMethod, "margin-method", "m", 0, "target margin method: 1-3")
	cmd.Flags().StringVar(&opts.fontPath, "font", "", "TTF font for width measurement")
	cmd.Flags().BoolVarP(&opts.inPlace, "in-place", "i", false, "overwrite the input file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the reflowed document to this path")
	cmd.Flags().StringVar(&opts.preview, "preview", "", "render an SVG preview of the result to this path")

	return cmd
}

func (c *CLI) runReflow(cmd *cobra.Command, path string, opts reflowOpts) error {
	doc, err := gridio.LoadDocument(path)
	if err != nil {
		return err
	}

	pOpts, err := targetOptions(doc, opts)
	if err != nil {
		return err
	}

	runner := c.newRunner(pOpts)
	defer runner.Close()

	moved, err := runner.Reflow(cmd.Context(), doc, pOpts)
	if err != nil {
		return err
	}

	printSuccess("Reflowed %s onto a %d × %d grid", doc.Name, doc.Grid.Cols, doc.Grid.Rows)
	printStats(len(doc.Blocks), moved)

	if err := writeDocumentResult(doc, path, opts.inPlace, opts.output); err != nil {
		return err
	}
	return writePreview(doc, opts.preview)
}

// targetOptions builds the target grid options: the document's own grid
// parameters as the base, overridden by whatever flags were set. The
// baseline is never inherited so a format change re-scales it.
func targetOptions(doc *document.Document, opts reflowOpts) (pipeline.Options, error) {
	cols, rows, err := parseGrid(opts.grid)
	if err != nil {
		return pipeline.Options{}, err
	}

	p := pipeline.Options{
		Format:       string(doc.Grid.Format),
		Orientation:  string(doc.Grid.Orientation),
		Cols:         doc.Grid.Cols,
		Rows:         doc.Grid.Rows,
		MarginMethod: int(doc.Grid.MarginMethod),
		FontPath:     opts.fontPath,
	}
	if opts.format != "" {
		p.Format = opts.format
	}
	if opts.orientation != "" {
		p.Orientation = opts.orientation
	}
	if cols > 0 {
		p.Cols = cols
	}
	if rows > 0 {
		p.Rows = rows
	}
	if opts.marginMethod > 0 {
		p.MarginMethod = opts.marginMethod
	}
	return p, nil
}

// writeDocumentResult saves the document in place, to an explicit path,
// or to stdout when neither destination is given. Files and stdout both
// carry the versioned envelope, so piped output loads back unchanged.
func writeDocumentResult(doc *document.Document, input string, inPlace bool, output string) error {
	dest := output
	if inPlace {
		dest = input
	}
	if dest == "" {
		return gridio.WriteDocument(os.Stdout, doc)
	}
	if err := gridio.SaveDocument(dest, doc); err != nil {
		return err
	}
	printFile(dest)
	return nil
}

// writePreview renders the document over its grid when a preview path is
// given.
func writePreview(doc *document.Document, path string) error {
	if path == "" {
		return nil
	}
	if err := os.WriteFile(path, render.PreviewSheet(doc), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write preview %s", path)
	}
	printFile(path)
	return nil
}
