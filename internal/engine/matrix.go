package engine

import "github.com/jwhan/tallypad/internal/model"

// Matrix is the derived per-user history table: one column per bound
// user, one row per personal count, each cell holding the global order of
// that click. The cell of the ledger's final entry carries the
// latest-click highlight.
type Matrix struct {
	// Columns are the distinct bound user names, ascending slot order.
	Columns []string

	// RowCount is the greatest personal count across columns.
	RowCount int

	cells     map[cellKey]int
	highlight cellKey
	hasLatest bool
}

type cellKey struct {
	row int
	col int
}

// Cell returns the global order at (row, col) and whether the cell is
// filled. row is 0-based: row r holds each user's (r+1)th click.
func (m Matrix) Cell(row, col int) (int, bool) {
	order, ok := m.cells[cellKey{row, col}]
	return order, ok
}

// Highlight returns the coordinates of the most recent click's cell.
// ok is false when the ledger is empty.
func (m Matrix) Highlight() (row, col int, ok bool) {
	return m.highlight.row, m.highlight.col, m.hasLatest
}

// Matrix recomputes the history matrix from the current preset.
// Cost is O(ledger length × column count), acceptable for a single
// operator's daily click volume.
func (e *Engine) Matrix() Matrix {
	p := e.state.Current()
	m := Matrix{cells: map[cellKey]int{}}

	colIndex := map[string]int{}
	for _, slot := range model.Slots() {
		b, ok := p.Users[slot]
		if !ok {
			continue
		}
		if _, seen := colIndex[b.Name]; seen {
			continue
		}
		colIndex[b.Name] = len(m.Columns)
		m.Columns = append(m.Columns, b.Name)
	}

	for i, ev := range p.ClickHistory {
		col, ok := colIndex[ev.Name]
		if !ok {
			// Clicks by since-renamed or unbound users have no column.
			continue
		}
		if ev.PersonalCount > m.RowCount {
			m.RowCount = ev.PersonalCount
		}
		m.cells[cellKey{ev.PersonalCount - 1, col}] = i + 1
	}

	if n := len(p.ClickHistory); n > 0 {
		last := p.ClickHistory[n-1]
		if col, ok := colIndex[last.Name]; ok {
			m.highlight = cellKey{last.PersonalCount - 1, col}
			m.hasLatest = true
		}
	}
	return m
}
