package layout

import "strings"

// Position locates a block on the grid: a module-column index and a row
// offset in baseline units from the top of the content area.
type Position struct {
	Col int     `json:"col"`
	Row float64 `json:"row"`
}

// rolePriority lists the semantic roles the planner processes first, most
// prominent first. Blocks whose ID does not start with one of these roles
// are placed after all roles, keeping their list order.
var rolePriority = []string{"display", "headline", "subhead", "body", "caption"}

// priorityFor maps a block ID to its processing priority. Matching is by
// case-insensitive prefix, so "headline_2" and "Body-intro" rank as their
// roles.
func priorityFor(id string) int {
	lower := strings.ToLower(id)
	for i, role := range rolePriority {
		if strings.HasPrefix(lower, role) {
			return i
		}
	}
	return len(rolePriority)
}

// ReadingIndex flattens a position into a single row-major scalar.
// Positions earlier in natural reading order (top to bottom, left to
// right) yield smaller values.
func ReadingIndex(p Position, cols int) float64 {
	return p.Row*float64(cols+1) + float64(p.Col)
}
