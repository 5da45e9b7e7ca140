package layout

import (
	"math"
	"sort"
)

// Scoring weights. Lower total wins; column drift costs twice what row
// drift does, and the large penalties keep blocks on the visible page, on
// the declared grid, and in reading order unless nothing else is free.
const (
	colMoveCost  = 6.0
	rowMoveCost  = 3.0
	overflowCost = 1000.0 // per step past the bottom of the visible page
	outsideCost  = 600.0  // per step past the last declared module row
	offGridCost  = 80.0   // flat, for rows extrapolated beyond the grid
	colBiasCost  = 2.0    // flat, for leaving the current column
	orderCost    = 250.0  // flat, for landing before the previous block
	orderGapCost = 0.5    // per unit of reading-index gap
)

// searchBuffer is how many module-row steps past the bottom of the visible
// page candidate enumeration extends.
const searchBuffer = 60

// moveTolerance is the positional delta below which a block counts as
// unmoved.
const moveTolerance = 1e-4

// Plan is the planner's complete answer for one grid change: the span each
// block ends up with, where every block lands, and how many blocks moved.
type Plan struct {
	ResolvedSpans map[string]int      `json:"resolved_spans"`
	NextPositions map[string]Position `json:"next_positions"`
	MovedCount    int                 `json:"moved_count"`
}

// cell identifies one module during occupancy tracking.
type cell struct {
	row int
	col int
}

// planner carries per-run derived values so scoring does not recompute
// them for every candidate.
type planner struct {
	shape       Shape
	step        float64
	lastInGrid  float64 // row offset of the last declared module row
	lastVisible float64 // content height in baseline units
	maxIndex    int     // highest module-row index enumerated
	occupied    map[cell]bool
	prevIndex   float64 // reading index of the previously placed block
	havePrev    bool
}

// PlanGrid recomputes spans and positions for every block after a grid
// change. It is total and deterministic: identical inputs yield identical
// plans, and planning the planner's own output moves nothing.
//
// Blocks are processed in semantic priority (display, headline, subhead,
// body, caption, then the rest in list order). For each block the desired
// row is its current row snapped to the module-row grid; candidate rows
// are walked nearest-first out to the visible page bottom plus
// searchBuffer steps, and all free cells are scored. The cheapest cell
// wins, ties resolving to the lowest row, then the lowest column. When no
// cell in the search bound is free the block is stacked at column 0 below
// the visible page, so planning never fails.
//
// MovedCount counts blocks whose resolved position differs from the input
// position by more than moveTolerance in either coordinate.
func PlanGrid(shape Shape, order []string, spans map[string]int, positions map[string]Position) Plan {
	shape = shape.normalized()

	plan := Plan{
		ResolvedSpans: make(map[string]int, len(order)),
		NextPositions: make(map[string]Position, len(order)),
	}
	if len(order) == 0 {
		return plan
	}

	p := &planner{
		shape:       shape,
		step:        shape.RowStep(),
		lastInGrid:  shape.RowAt(shape.Rows - 1),
		lastVisible: shape.ContentHeight(),
		occupied:    make(map[cell]bool, len(order)),
	}
	p.maxIndex = shape.RowIndex(p.lastVisible) + searchBuffer

	sorted := make([]string, len(order))
	copy(sorted, order)
	sort.SliceStable(sorted, func(i, j int) bool {
		return priorityFor(sorted[i]) < priorityFor(sorted[j])
	})

	for _, id := range sorted {
		span := clampSpan(spans[id], shape.Cols)
		plan.ResolvedSpans[id] = span

		current := positions[id]
		resolved := p.place(current, span)
		plan.NextPositions[id] = resolved

		if positionMoved(current, resolved) {
			plan.MovedCount++
		}
	}
	return plan
}

// place finds the cheapest free cell for a block of the given span and
// claims it.
func (p *planner) place(current Position, span int) Position {
	curCol := clampCol(current.Col, span, p.shape.Cols)
	desired := p.shape.RowIndex(current.Row)
	if desired > p.maxIndex {
		desired = p.maxIndex
	}

	bestScore := math.Inf(1)
	bestIdx, bestCol := -1, 0

	for _, k := range candidateRows(desired, p.maxIndex) {
		for col := 0; col <= p.shape.Cols-span; col++ {
			if p.claimed(k, col, span) {
				continue
			}
			s := p.score(k, col, curCol, desired)
			if s < bestScore ||
				(s == bestScore && (k < bestIdx || (k == bestIdx && col < bestCol))) {
				bestScore, bestIdx, bestCol = s, k, col
			}
		}
	}

	if bestIdx < 0 {
		bestIdx, bestCol = p.stack(span)
	}

	p.claim(bestIdx, bestCol, span)
	pos := Position{Col: bestCol, Row: p.shape.RowAt(bestIdx)}
	p.prevIndex = ReadingIndex(pos, p.shape.Cols)
	p.havePrev = true
	return pos
}

// score rates one candidate cell. Lower is better.
func (p *planner) score(k, col, curCol, desired int) float64 {
	row := p.shape.RowAt(k)

	s := math.Abs(float64(col-curCol))*colMoveCost +
		math.Abs(float64(k-desired))*rowMoveCost
	if row > p.lastVisible {
		s += (row - p.lastVisible) / p.step * overflowCost
	}
	if row > p.lastInGrid {
		s += (row - p.lastInGrid) / p.step * outsideCost
	}
	if k >= p.shape.Rows {
		s += offGridCost
	}
	if col != curCol {
		s += colBiasCost
	}
	if p.havePrev {
		if idx := ReadingIndex(Position{Col: col, Row: row}, p.shape.Cols); idx < p.prevIndex {
			s += orderCost + orderGapCost*(p.prevIndex-idx)
		}
	}
	return s
}

func (p *planner) claimed(k, col, span int) bool {
	for c := col; c < col+span; c++ {
		if p.occupied[cell{row: k, col: c}] {
			return true
		}
	}
	return false
}

func (p *planner) claim(k, col, span int) {
	for c := col; c < col+span; c++ {
		p.occupied[cell{row: k, col: c}] = true
	}
}

// stack is the escape hatch when every candidate cell is taken: park the
// block at column 0 on the first free module row at or past the bottom of
// the visible page.
func (p *planner) stack(span int) (idx, col int) {
	k := p.shape.RowIndex(p.lastVisible)
	if p.shape.RowAt(k) < p.lastVisible {
		k++
	}
	for p.claimed(k, 0, span) {
		k++
	}
	return k, 0
}

// candidateRows enumerates module-row indexes nearest-first around
// desired, equal distances resolving to the lower row, bounded by [0, max].
func candidateRows(desired, max int) []int {
	if desired < 0 {
		desired = 0
	}
	if desired > max {
		desired = max
	}
	rows := make([]int, 0, max+1)
	rows = append(rows, desired)
	for d := 1; desired-d >= 0 || desired+d <= max; d++ {
		if lo := desired - d; lo >= 0 {
			rows = append(rows, lo)
		}
		if hi := desired + d; hi <= max {
			rows = append(rows, hi)
		}
	}
	return rows
}

func clampSpan(span, cols int) int {
	if span < 1 {
		return 1
	}
	if span > cols {
		return cols
	}
	return span
}

func clampCol(col, span, cols int) int {
	if col < 0 {
		return 0
	}
	if col > cols-span {
		return cols - span
	}
	return col
}

// positionMoved reports whether two positions differ beyond moveTolerance
// in either coordinate.
func positionMoved(a, b Position) bool {
	return a.Col != b.Col || math.Abs(a.Row-b.Row) > moveTolerance
}
