package persistence

import "strings"

// Row is an ordered sequence of nullable text cells representing one tuple.
// A nil cell is a SQL NULL. Row length always equals the owning table's
// schema column count (spec.md §3 invariant).
type Row struct {
	Cells []*string
}

// NewRow builds a Row from the given cell values, nil entries becoming NULL.
func NewRow(cells ...*string) Row {
	return Row{Cells: cells}
}

// Clone returns an independent copy of the row. Cell pointers themselves are
// never mutated in place (cells are replaced wholesale on update), so a
// shallow copy of the pointer slice is sufficient to make the clone safe to
// hand to a reader that outlives the table's write lock.
func (r Row) Clone() Row {
	cells := make([]*string, len(r.Cells))
	copy(cells, r.Cells)
	return Row{Cells: cells}
}

// At returns the cell at index, or nil if index is out of range.
func (r Row) At(index int) *string {
	if index < 0 || index >= len(r.Cells) {
		return nil
	}
	return r.Cells[index]
}

// Text returns the textual form of the cell at index, or "" for NULL / out
// of range. Used for primary-key projection and display.
func (r Row) Text(index int) string {
	cell := r.At(index)
	if cell == nil {
		return ""
	}
	return *cell
}

// PrimaryKeyString joins the cell values at the given column indices with
// "|", the composite primary-key encoding described in spec.md glossary.
// The separator is not escaped, a known open question (see DESIGN.md).
func (r Row) PrimaryKeyString(indices []int) string {
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = r.Text(idx)
	}
	return strings.Join(parts, "|")
}

// CloneRows copies a slice of rows, each row independently.
func CloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		out[i] = row.Clone()
	}
	return out
}
