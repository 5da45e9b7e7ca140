package cli

import (
	"github.com/spf13/cobra"

	"github.com/longplay45/swissgrid/pkg/gridio"
	"github.com/longplay45/swissgrid/pkg/pipeline"
)

// fitOpts holds the command-line flags for the fit command.
type fitOpts struct {
	block     string // block ID to fit
	syllables bool   // allow syllable breaks when wrapping
	fontPath  string // TTF font for width measurement
	inPlace   bool   // overwrite the input file
	output    string // write the result to this path
	preview   string // render an SVG preview to this path
}

// fitCommand creates the fit command, which resolves how a block's text
// wraps on its document's grid and applies the resolved span.
func (c *CLI) fitCommand() *cobra.Command {
	var opts fitOpts

	cmd := &cobra.Command{
		Use:   "fit <document.json>",
		Short: "Resolve the span and line count for a block's text",
		Long: `Measure a block's text against its document's grid and resolve the
column span and line count it needs. The resolved span is applied to
the block when the style reflows. The result goes to stdout unless
--in-place or --output is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFit(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.block, "block", "b", "", "block ID to fit (required)")
	cmd.Flags().BoolVar(&opts.syllables, "syllables", false, "allow syllable breaks when wrapping")
	cmd.Flags().StringVar(&opts.fontPath, "font", "", "TTF font for width measurement")
	cmd.Flags().BoolVarP(&opts.inPlace, "in-place", "i", false, "overwrite the input file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the fitted document to this path")
	cmd.Flags().StringVar(&opts.preview, "preview", "", "render an SVG preview of the result to this path")
	cmd.MarkFlagRequired("block")

	return cmd
}

func (c *CLI) runFit(cmd *cobra.Command, path string, opts fitOpts) error {
	doc, err := gridio.LoadDocument(path)
	if err != nil {
		return err
	}

	runner := c.newRunner(pipeline.Options{FontPath: opts.fontPath})
	defer runner.Close()

	res, applied, err := runner.Fit(cmd.Context(), doc, opts.block, opts.syllables)
	if err != nil {
		return err
	}
	if !applied {
		printWarning("Block %s keeps its span (style does not reflow or text is empty)", opts.block)
		return nil
	}

	printSuccess("Fit %s: %d lines over a %d-column span", opts.block, res.Lines, res.Span)

	if err := writeDocumentResult(doc, path, opts.inPlace, opts.output); err != nil {
		return err
	}
	return writePreview(doc, opts.preview)
}
