package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/longplay45/swissgrid/pkg/cache"
	"github.com/longplay45/swissgrid/pkg/document"
	"github.com/longplay45/swissgrid/pkg/errors"
	"github.com/longplay45/swissgrid/pkg/geometry"
	"github.com/longplay45/swissgrid/pkg/gridio"
	"github.com/longplay45/swissgrid/pkg/layout"
	"github.com/longplay45/swissgrid/pkg/layout/dispatch"
	"github.com/longplay45/swissgrid/pkg/measure"
	"github.com/longplay45/swissgrid/pkg/observability"
	"github.com/longplay45/swissgrid/pkg/render"
	"github.com/longplay45/swissgrid/pkg/typography"
)

// Runner executes pipeline runs. It is stateless except for the
// executor, cache, and logger, so multiple goroutines can safely share
// one Runner with different options.
type Runner struct {
	Executor dispatch.Executor
	Logger   *log.Logger

	// Cache stores converted artifacts between runs. Nil disables reuse
	// and every PDF and PNG goes through the external converter.
	Cache cache.Cache

	// Keyer generates the cache keys. Nil uses the default keyer.
	Keyer cache.Keyer
}

// NewRunner creates a runner. A nil executor gets an inline executor with
// the character-width heuristic; a nil logger gets the default logger.
func NewRunner(exec dispatch.Executor, logger *log.Logger) *Runner {
	if exec == nil {
		exec = dispatch.NewInline(measure.Heuristic(0))
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Executor: exec, Logger: logger}
}

// NewExecutor builds the dispatch executor the options describe: inline
// by default, a worker pool when Workers is positive. The measurer comes
// from FontPath, falling back to the heuristic when it is empty.
func NewExecutor(opts Options) dispatch.Executor {
	m := measure.ForFont(opts.FontPath)
	if opts.Workers > 0 {
		return dispatch.NewPool(opts.Workers, 0, m)
	}
	return dispatch.NewInline(m)
}

// Generate runs the complete derive → scale → render pipeline.
func (r *Runner) Generate(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	deriveStart := time.Now()
	grid, err := geometry.Derive(opts.Params())
	if err != nil {
		return nil, err
	}
	system := typography.Scale(grid.ScaleFactor, grid.BaselineUnit, string(grid.Format))
	result := &Result{
		Grid:    grid,
		System:  system,
		Summary: gridio.BuildSummary(grid, system),
	}
	result.Stats.DeriveTime = time.Since(deriveStart)

	opts.Logger.Info("derived grid",
		"format", grid.Format,
		"grid", fmt.Sprintf("%dx%d", grid.Cols, grid.Rows),
		"module", fmt.Sprintf("%.1fx%.1fpt", grid.ModuleWidth, grid.ModuleHeight),
		"duration", result.Stats.DeriveTime)

	renderStart := time.Now()
	artifacts, hits, err := r.renderArtifacts(ctx, grid, result.Summary, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.ConvertHits = hits
	result.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"files", len(artifacts),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Reflow re-plans a document onto the grid the options describe, using
// the runner's executor. It returns the number of blocks that moved.
func (r *Runner) Reflow(ctx context.Context, doc *document.Document, opts Options) (int, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return 0, err
	}

	grid, err := geometry.Derive(opts.Params())
	if err != nil {
		return 0, err
	}

	obs := observability.Engine()
	obs.OnPlanStart(ctx, len(doc.Blocks))
	start := time.Now()
	moved, err := doc.Reflow(ctx, grid, r.Executor)
	obs.OnPlanComplete(ctx, len(doc.Blocks), moved, time.Since(start))
	if err != nil {
		return 0, err
	}

	opts.Logger.Info("reflowed document",
		"blocks", len(doc.Blocks),
		"moved", moved,
		"grid", fmt.Sprintf("%dx%d", grid.Cols, grid.Rows))
	return moved, nil
}

// Fit resolves one block's span against its text through the runner's
// executor and applies the result to the document. The returned bool
// reports whether the document changed.
func (r *Runner) Fit(ctx context.Context, doc *document.Document, blockID string, syllables bool) (layout.FitResult, bool, error) {
	style := ""
	if b, ok := doc.Block(blockID); ok {
		style = b.Style
	}

	obs := observability.Engine()
	obs.OnFitStart(ctx, style)
	start := time.Now()
	res, applied, err := doc.AutoFit(ctx, blockID, r.Executor, syllables)
	obs.OnFitComplete(ctx, style, res.Lines, res.Span, applied, time.Since(start))
	if err != nil {
		return layout.FitResult{}, false, err
	}

	r.Logger.Info("fit block",
		"block", blockID,
		"style", style,
		"lines", res.Lines,
		"span", res.Span,
		"applied", applied)
	return res, applied, nil
}

// Close releases the runner's executor.
func (r *Runner) Close() error {
	if r.Executor != nil {
		return r.Executor.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// renderArtifacts produces every requested artifact, reporting the pass
// to the render hooks. Filenames follow the grid's base name. The int
// counts conversions served from the cache.
func (r *Runner) renderArtifacts(ctx context.Context, grid geometry.Grid, summary gridio.Summary, opts Options) (map[string][]byte, int, error) {
	obs := observability.Render()
	obs.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	base := grid.BaseFilename()
	artifacts := make(map[string][]byte)
	hits := 0
	var err error

	for _, format := range opts.Formats {
		switch format {
		case FormatSVG:
			artifacts[base+"_modules.svg"] = render.ModuleSheet(grid)
			artifacts[base+"_baselines.svg"] = render.BaselineSheet(grid)
		case FormatJSON:
			var buf bytes.Buffer
			if err = gridio.WriteSummaryJSON(&buf, summary); err == nil {
				artifacts[base+"_grid.json"] = buf.Bytes()
			}
		case FormatTXT:
			artifacts[base+"_grid.txt"] = []byte(gridio.TextSummary(summary))
		case FormatPDF, FormatPNG:
			var (
				data []byte
				hit  bool
			)
			if data, hit, err = r.convert(ctx, format, grid, opts); err == nil {
				artifacts[base+"_grid."+format] = data
				if hit {
					hits++
				}
			}
		default:
			err = errors.New(errors.ErrCodeUnsupported, "unsupported output format: %s", format)
		}
		if err != nil {
			break
		}
		opts.Logger.Debug("rendered format", "format", format)
	}

	obs.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, 0, err
	}
	return artifacts, hits, nil
}

// convert pipes the printable reference sheet through rsvg-convert,
// reporting the conversion to the render hooks. Converted bytes are
// cached by source hash, so an unchanged grid skips the external tool;
// the bool reports such a cache hit.
func (r *Runner) convert(ctx context.Context, format string, grid geometry.Grid, opts Options) ([]byte, bool, error) {
	svg := render.ReferenceSheet(grid)

	scale := 0.0
	if format == FormatPNG {
		scale = opts.PNGScale
	}
	key := ""
	if r.Cache != nil {
		keyer := r.Keyer
		if keyer == nil {
			keyer = cache.NewDefaultKeyer()
		}
		key = keyer.ConvertKey(cache.Hash(svg), cache.ConvertKeyOpts{Format: format, Scale: scale})
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			opts.Logger.Debug("conversion served from cache", "format", format)
			return data, true, nil
		}
	}

	start := time.Now()
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatPDF:
		data, err = render.ToPDF(svg)
	case FormatPNG:
		data, err = render.ToPNG(svg, opts.PNGScale)
	}
	observability.Render().OnConvert(ctx, format, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if r.Cache != nil {
		_ = r.Cache.Set(ctx, key, data, 0)
	}
	return data, false, nil
}

// WriteArtifacts writes every artifact into dir, creating it if needed,
// and returns the written paths in sorted order.
func (r *Result) WriteArtifacts(dir string) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create output directory %s", dir)
	}

	names := make([]string, 0, len(r.Artifacts))
	for name := range r.Artifacts {
		names = append(names, name)
	}
	sort.Strings(names)

	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, r.Artifacts[name], 0o644); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
