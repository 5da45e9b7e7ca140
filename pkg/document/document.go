// Package document owns the durable layout state the engine plans
// against: block order, spans, positions and text, the grid the blocks sit
// on, and the undo history. The engine only ever returns proposals; this
// package decides when a proposal becomes state, and every state change is
// a single atomic update preceded by a history checkpoint.
package document

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/longplay45/swissgrid/pkg/errors"
	"github.com/longplay45/swissgrid/pkg/geometry"
	"github.com/longplay45/swissgrid/pkg/layout"
	"github.com/longplay45/swissgrid/pkg/layout/dispatch"
	"github.com/longplay45/swissgrid/pkg/typography"
)

// historyLimit bounds the undo stack; the oldest checkpoint is dropped
// when it is exceeded.
const historyLimit = 100

// Block is one placed content block. Position.Row is a baseline-row
// offset from the top of the content area; Span counts grid columns and
// RowSpan counts module rows.
type Block struct {
	ID       string          `json:"id" bson:"id"`
	Style    string          `json:"style" bson:"style"`
	Text     string          `json:"text" bson:"text"`
	Span     int             `json:"span" bson:"span"`
	RowSpan  int             `json:"row_span" bson:"row_span"`
	Position layout.Position `json:"position" bson:"position"`
}

// Role returns the block's planning role, derived from its style.
func (b Block) Role() string {
	return typography.Role(b.Style)
}

// Document is an ordered block collection on one grid. It is not safe for
// concurrent use; callers serialize access per document.
type Document struct {
	ID        string        `json:"id" bson:"_id"`
	Name      string        `json:"name" bson:"name"`
	Grid      geometry.Grid `json:"grid" bson:"grid"`
	Blocks    []Block       `json:"blocks" bson:"blocks"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at"`

	undo []snapshot
	redo []snapshot
	seq  uint64
}

// snapshot is one full undo step. Blocks hold only value fields, so the
// copied slice is a deep copy.
type snapshot struct {
	grid   geometry.Grid
	blocks []Block
}

// New creates an empty document on the given grid.
func New(name string, grid geometry.Grid) *Document {
	now := time.Now().UTC()
	return &Document{
		ID:        uuid.New().String(),
		Name:      name,
		Grid:      grid,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

const defaultBodyText = "The grid divides the page into a fixed count of equal modules. " +
	"Every block of text and every image sits on module boundaries, and every line " +
	"of type falls on the baseline raster, so unrelated elements still align."

// NewDefault creates a document with the five starter blocks in their
// canonical tiling: display across the full width, headline below it,
// subhead and body side by side, caption at the bottom.
func NewDefault(grid geometry.Grid) *Document {
	d := New("untitled", grid)
	step := grid.Shape().RowStep()
	cols := grid.Cols
	if cols < 1 {
		cols = 1
	}

	subSpan := defaultSpan("subhead", cols)
	bodySpan := defaultSpan("body", cols)
	bodyCol, bodyRow := cols-bodySpan, 2*step
	captionRow := 4 * step
	if subSpan+bodySpan > cols {
		// Too narrow to tile; stack body under subhead.
		bodyCol, bodyRow = 0, 3*step
		captionRow = 5 * step
	}

	d.Blocks = []Block{
		{ID: "display-1", Style: "display", Text: "Grid systems", Span: cols,
			RowSpan: 1, Position: layout.Position{Col: 0, Row: 0}},
		{ID: "headline-1", Style: "headline_1", Text: "Order out of the module",
			Span: defaultSpan("headline", cols), RowSpan: 1, Position: layout.Position{Col: 0, Row: step}},
		{ID: "subhead-1", Style: "subhead_medium", Text: "Columns, rows and the baseline",
			Span: subSpan, RowSpan: 1, Position: layout.Position{Col: 0, Row: 2 * step}},
		{ID: "body-1", Style: "body", Text: defaultBodyText,
			Span: bodySpan, RowSpan: 2, Position: layout.Position{Col: bodyCol, Row: bodyRow}},
		{ID: "caption-1", Style: "caption", Text: "Modular grid with baseline alignment",
			Span: defaultSpan("caption", cols), RowSpan: 1, Position: layout.Position{Col: 0, Row: captionRow}},
	}
	return d
}

// defaultSpan is the canonical column span per role: display full width,
// headline two thirds, subhead and body half (subhead takes the smaller
// half so the two tile an odd grid exactly), caption one sixth.
func defaultSpan(role string, cols int) int {
	if cols < 1 {
		cols = 1
	}
	span := cols
	switch role {
	case "display":
		span = cols
	case "headline":
		span = (2*cols + 2) / 3
	case "subhead":
		span = cols / 2
	case "body":
		span = (cols + 1) / 2
	case "caption":
		span = cols / 6
	}
	if span < 1 {
		span = 1
	}
	if span > cols {
		span = cols
	}
	return span
}

// Shape returns the layout shape of the document's grid.
func (d *Document) Shape() layout.Shape {
	return d.Grid.Shape()
}

// Order returns the block IDs in document order.
func (d *Document) Order() []string {
	order := make([]string, len(d.Blocks))
	for i, b := range d.Blocks {
		order[i] = b.ID
	}
	return order
}

// Spans returns the current span per block ID.
func (d *Document) Spans() map[string]int {
	spans := make(map[string]int, len(d.Blocks))
	for _, b := range d.Blocks {
		spans[b.ID] = b.Span
	}
	return spans
}

// Positions returns the current position per block ID.
func (d *Document) Positions() map[string]layout.Position {
	positions := make(map[string]layout.Position, len(d.Blocks))
	for _, b := range d.Blocks {
		positions[b.ID] = b.Position
	}
	return positions
}

// Block returns the block with the given ID.
func (d *Document) Block(id string) (Block, bool) {
	for _, b := range d.Blocks {
		if b.ID == id {
			return b, true
		}
	}
	return Block{}, false
}

// AddBlock appends a block of the given style below every existing block
// and returns it. The ID carries the role prefix so the planner's
// priority ordering applies to it.
func (d *Document) AddBlock(style, text string) Block {
	role := typography.Role(style)
	d.checkpoint()

	step := d.Shape().RowStep()
	row := 0.0
	for _, b := range d.Blocks {
		if bottom := b.Position.Row + float64(b.RowSpan)*step; bottom > row {
			row = bottom
		}
	}

	rowSpan := 1
	if role == "body" {
		rowSpan = 2
	}
	b := Block{
		ID:       fmt.Sprintf("%s-%s", role, uuid.New().String()[:8]),
		Style:    style,
		Text:     text,
		Span:     defaultSpan(role, d.Grid.Cols),
		RowSpan:  rowSpan,
		Position: layout.Position{Col: 0, Row: row},
	}
	d.Blocks = append(d.Blocks, b)
	d.touch()
	return b
}

// RemoveBlock deletes the block with the given ID.
func (d *Document) RemoveBlock(id string) bool {
	for i, b := range d.Blocks {
		if b.ID == id {
			d.checkpoint()
			d.Blocks = append(d.Blocks[:i], d.Blocks[i+1:]...)
			d.touch()
			return true
		}
	}
	return false
}

// SetText replaces a block's text.
func (d *Document) SetText(id, text string) bool {
	for i := range d.Blocks {
		if d.Blocks[i].ID == id {
			if d.Blocks[i].Text == text {
				return true
			}
			d.checkpoint()
			d.Blocks[i].Text = text
			d.touch()
			return true
		}
	}
	return false
}

// SetSpan sets a block's requested column span. The planner clamps spans
// on its next pass; this only records the request.
func (d *Document) SetSpan(id string, span int) bool {
	for i := range d.Blocks {
		if d.Blocks[i].ID == id {
			d.checkpoint()
			d.Blocks[i].Span = span
			d.touch()
			return true
		}
	}
	return false
}

// Move places a block at a column and baseline row. The position is taken
// as requested; quantization happens on the next plan.
func (d *Document) Move(id string, col int, row float64) bool {
	for i := range d.Blocks {
		if d.Blocks[i].ID == id {
			d.checkpoint()
			d.Blocks[i].Position = layout.Position{Col: col, Row: row}
			d.touch()
			return true
		}
	}
	return false
}

// ApplyPlan merges a placement plan into the document in one update, after
// pushing a history checkpoint. It returns the plan's moved count.
func (d *Document) ApplyPlan(plan layout.Plan) int {
	d.checkpoint()
	d.merge(plan)
	return plan.MovedCount
}

// Plan runs the placement planner synchronously on the current state and
// applies the result.
func (d *Document) Plan() int {
	plan := layout.PlanGrid(d.Shape(), d.Order(), d.Spans(), d.Positions())
	return d.ApplyPlan(plan)
}

// Reflow moves the document onto a new grid. When the new grid only adds
// columns (row count and row step unchanged) the planner is skipped
// entirely and positions stay put, since extra columns only add capacity.
// Otherwise a plan request goes through the executor and the grid change
// and the plan land as one atomic update. It returns the moved count.
func (d *Document) Reflow(ctx context.Context, grid geometry.Grid, exec dispatch.Executor) (int, error) {
	oldShape := d.Shape()
	newShape := grid.Shape()

	if columnIncreaseOnly(oldShape, newShape) {
		d.checkpoint()
		d.Grid = grid
		d.touch()
		return 0, nil
	}

	d.seq++
	pending := exec.Submit(dispatch.Request{
		ID:   d.seq,
		Kind: dispatch.KindPlan,
		Plan: &dispatch.PlanRequest{
			Shape:     newShape,
			Order:     d.Order(),
			Spans:     d.Spans(),
			Positions: d.Positions(),
		},
	})
	resp, ok := pending.Wait(ctx)
	if !ok {
		return 0, errors.New(errors.ErrCodeCanceled, "reflow canceled before a plan arrived")
	}
	if resp.Plan == nil {
		return 0, errors.New(errors.ErrCodeInternal, "plan request returned no plan")
	}

	d.checkpoint()
	d.Grid = grid
	d.merge(*resp.Plan)
	return resp.Plan.MovedCount, nil
}

// AutoFit asks the fit resolver for the column span a block's text needs
// and applies span and position when the style reflows. The second return
// is false when the block keeps its span (no reflow behavior, blank
// text); the document is unchanged in that case.
func (d *Document) AutoFit(ctx context.Context, id string, exec dispatch.Executor, syllables bool) (layout.FitResult, bool, error) {
	b, ok := d.Block(id)
	if !ok {
		return layout.FitResult{}, false, errors.New(errors.ErrCodeNotFound, "no block %q in document", id)
	}

	system := typography.Scale(d.Grid.ScaleFactor, d.Grid.BaselineUnit, string(d.Grid.Format))
	style, err := system.FitStyle(b.Style)
	if err != nil {
		return layout.FitResult{}, false, err
	}

	d.seq++
	pending := exec.Submit(dispatch.Request{
		ID:   d.seq,
		Kind: dispatch.KindFit,
		Fit: &dispatch.FitRequest{
			Shape: d.Shape(),
			Fit: layout.FitRequest{
				Text:             b.Text,
				Style:            style,
				RowSpan:          b.RowSpan,
				Position:         b.Position,
				SyllableDivision: syllables,
			},
		},
	})
	resp, ok := pending.Wait(ctx)
	if !ok {
		return layout.FitResult{}, false, errors.New(errors.ErrCodeCanceled, "fit canceled before a result arrived")
	}
	if resp.Fit == nil {
		return layout.FitResult{}, false, nil
	}

	d.checkpoint()
	for i := range d.Blocks {
		if d.Blocks[i].ID == id {
			d.Blocks[i].Span = resp.Fit.Span
			d.Blocks[i].Position = resp.Fit.Position
			break
		}
	}
	d.touch()
	return *resp.Fit, true, nil
}

// columnIncreaseOnly reports whether the shape change is a pure column
// increase: at least as many columns, same row count, same row step.
func columnIncreaseOnly(old, next layout.Shape) bool {
	if next.Cols < old.Cols || next.Rows != old.Rows {
		return false
	}
	diff := old.RowStep() - next.RowStep()
	return diff < 1e-9 && diff > -1e-9
}

// Undo restores the most recent checkpoint.
func (d *Document) Undo() bool {
	if len(d.undo) == 0 {
		return false
	}
	s := d.undo[len(d.undo)-1]
	d.undo = d.undo[:len(d.undo)-1]
	d.redo = append(d.redo, d.capture())
	d.restore(s)
	return true
}

// Redo re-applies the most recently undone checkpoint.
func (d *Document) Redo() bool {
	if len(d.redo) == 0 {
		return false
	}
	s := d.redo[len(d.redo)-1]
	d.redo = d.redo[:len(d.redo)-1]
	d.undo = append(d.undo, d.capture())
	d.restore(s)
	return true
}

// CanUndo reports whether a checkpoint is available.
func (d *Document) CanUndo() bool { return len(d.undo) > 0 }

// CanRedo reports whether an undone checkpoint is available.
func (d *Document) CanRedo() bool { return len(d.redo) > 0 }

// checkpoint pushes the current state onto the undo stack and clears the
// redo stack.
func (d *Document) checkpoint() {
	d.undo = append(d.undo, d.capture())
	if len(d.undo) > historyLimit {
		d.undo = d.undo[1:]
	}
	d.redo = nil
}

func (d *Document) capture() snapshot {
	blocks := make([]Block, len(d.Blocks))
	copy(blocks, d.Blocks)
	return snapshot{grid: d.Grid, blocks: blocks}
}

func (d *Document) restore(s snapshot) {
	d.Grid = s.grid
	d.Blocks = s.blocks
	d.touch()
}

// merge folds a plan's spans and positions into the blocks.
func (d *Document) merge(plan layout.Plan) {
	for i := range d.Blocks {
		b := &d.Blocks[i]
		if span, ok := plan.ResolvedSpans[b.ID]; ok {
			b.Span = span
		}
		if pos, ok := plan.NextPositions[b.ID]; ok {
			b.Position = pos
		}
	}
	d.touch()
}

func (d *Document) touch() {
	d.UpdatedAt = time.Now().UTC()
}
