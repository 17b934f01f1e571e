package persistence

import (
	"sort"

	"github.com/ferrumdb/ferrum/internal/ferrors"
)

// TableReader is an immutable, derived view over a snapshot of rows. Every
// operation on a TableReader returns a new TableReader; none of them ever
// reach back into the table that produced the original snapshot (spec.md
// §4.4). This is what lets SELECT pipelines compose FILTER → SELECT →
// ORDER BY → LIMIT/OFFSET without re-acquiring any table lock mid-pipeline.
type TableReader struct {
	schema *Schema
	rows   []Row
}

// Schema returns the reader's current schema (which may differ from any
// table's schema once Select or a function call has reshaped it).
func (r *TableReader) Schema() *Schema { return r.schema }

// Rows returns an independent copy of the reader's current rows.
func (r *TableReader) Rows() []Row { return CloneRows(r.rows) }

// Len returns the number of rows currently held by the reader.
func (r *TableReader) Len() int { return len(r.rows) }

// Filter returns a new reader containing only the rows matching pred.
func (r *TableReader) Filter(pred RowPredicate) *TableReader {
	var out []Row
	for _, row := range r.rows {
		if pred(row) {
			out = append(out, row)
		}
	}
	return &TableReader{schema: r.schema, rows: out}
}

// Select projects the reader down to the named columns, in the given order,
// reshaping both rows and schema (spec.md §4.4).
func (r *TableReader) Select(names []string) (*TableReader, error) {
	projected, indices, err := r.schema.Projected(names)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, len(r.rows))
	for i, row := range r.rows {
		cells := make([]*string, len(indices))
		for j, idx := range indices {
			cells[j] = row.At(idx)
		}
		rows[i] = Row{Cells: cells}
	}
	return &TableReader{schema: projected, rows: rows}, nil
}

// compareCells orders two cells by lexicographic comparison of their text
// form, regardless of column datatype (spec.md §4.4: "reordered by
// lexicographic comparison of successive column indices"). This matches
// aggregators.Min/Max, which compare the same way for the same reason.
func compareCells(a, b *string) int {
	av, bv := "", ""
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	switch {
	case av < bv:
		return -1
	case av > bv:
		return 1
	default:
		return 0
	}
}

// OrderBy returns a new reader with rows sorted by terms in priority order,
// left to right. Callers (internal/sqlexec) must not invoke this when any
// requested sort key had an unspecified direction — spec.md §4.4 says the
// entire clause is ignored in that case, so the caller simply skips this
// call rather than this function implementing the skip itself.
func (r *TableReader) OrderBy(terms []OrderTerm) *TableReader {
	if len(terms) == 0 {
		return r
	}
	sorted := CloneRows(r.rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		for _, term := range terms {
			cmp := compareCells(sorted[i].At(term.ColumnIndex), sorted[j].At(term.ColumnIndex))
			if cmp == 0 {
				continue
			}
			if term.Ascending {
				return cmp < 0
			}
			return cmp > 0
		}
		return false
	})
	return &TableReader{schema: r.schema, rows: sorted}
}

// Limit returns a new reader truncated to at most n rows. A negative n is
// treated as no limit.
func (r *TableReader) Limit(n int) *TableReader {
	if n < 0 || n >= len(r.rows) {
		return r
	}
	return &TableReader{schema: r.schema, rows: CloneRows(r.rows[:n])}
}

// Offset returns a new reader with the first n rows dropped. A negative or
// out-of-range n behaves as no offset / empty result respectively.
func (r *TableReader) Offset(n int) *TableReader {
	if n <= 0 {
		return r
	}
	if n >= len(r.rows) {
		return &TableReader{schema: r.schema, rows: nil}
	}
	return &TableReader{schema: r.schema, rows: CloneRows(r.rows[n:])}
}

// PerformFunction evaluates each scalar call against every row and appends
// one result column per call to both rows and schema (spec.md §4.4).
func (r *TableReader) PerformFunction(resolver FunctionResolver, calls []ScalarCall) (*TableReader, error) {
	if len(calls) == 0 {
		return r, nil
	}

	schema := r.schema
	fns := make([]ScalarFunc, len(calls))
	argIndices := make([]int, len(calls))
	for i, call := range calls {
		fn, ok := resolver.ResolveScalar(call.FuncName)
		if !ok {
			return nil, ferrors.NewFunction("unknown scalar function %q", call.FuncName)
		}
		idx, ok := schema.IndexOf(call.Column)
		if !ok {
			return nil, ferrors.NewSchema("unknown column %q", call.Column)
		}
		fns[i] = fn
		argIndices[i] = idx
		schema = schema.Appended(call.ResultName(), ColumnInfo{Datatype: Text, Nullable: true})
	}

	rows := make([]Row, len(r.rows))
	for i, row := range r.rows {
		cells := make([]*string, len(row.Cells), len(row.Cells)+len(calls))
		copy(cells, row.Cells)
		for c, call := range calls {
			result, err := fns[c](row.Text(argIndices[c]), call.Args)
			if err != nil {
				return nil, ferrors.NewFunction("%s: %v", call.FuncName, err)
			}
			stored := result
			cells = append(cells, &stored)
		}
		rows[i] = Row{Cells: cells}
	}

	return &TableReader{schema: schema, rows: rows}, nil
}
