// Package layout is the placement engine for modular grids: given a grid
// shape and a set of text blocks, it decides how wide each block may be and
// where each block lands so that nothing overlaps and reading order is kept.
//
// The package has two entry points:
//
//   - [PlanGrid] recomputes every block's span and position after the grid
//     changes (fewer columns, different row rhythm, a new page format).
//   - [Fit] answers how many columns one block's text needs at its current
//     row span, wrapping the text at module width.
//
// # Design
//
// Both operations are total, synchronous, pure functions: no I/O, no
// logging, no global state, and no dependencies outside the standard
// library. Degenerate inputs are normalized rather than rejected, so the
// engine never returns an error and never panics. Callers that need
// asynchronous execution wrap the engine with the dispatch subpackage.
//
// # Determinism
//
// Identical inputs produce byte-identical outputs. Blocks are processed via
// the caller's order slice (never by map iteration), candidate cells are
// enumerated in a fixed sequence, and score ties resolve to the lowest row,
// then the lowest column. Planning the planner's own output is a no-op:
// every block stays put and MovedCount is zero.
//
// # Units
//
// Grid dimensions are in points. Block rows are baseline-unit offsets from
// the top of the content area; columns are module indexes starting at 0.
// Row movement is measured in module-row steps, the vertical distance
// between consecutive module tops.
package layout
