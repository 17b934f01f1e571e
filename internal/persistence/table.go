package persistence

import (
	"strconv"
	"sync"

	"github.com/ferrumdb/ferrum/internal/diagnostics"
	"github.com/ferrumdb/ferrum/internal/ferrors"
)

// Table is one named collection of rows conforming to a Schema. Row-vector
// mutations (Insert/Update/Delete and friends) are serialized by mu, which
// also guards the primary-key index so the two never drift apart (spec.md
// §4.2, §5). Schema mutation (foreign-key resolution) goes through the
// Schema's own lock instead, per the lock-ordering rule in spec.md §5.
type Table struct {
	name      string
	schema    *Schema
	mu        sync.RWMutex
	rows      []Row
	pkIndices []int
	isIndexed bool
	index     *Index
}

// NewTable parses definitions into a Schema and collects whichever columns
// are marked pk into the table's composite primary key. A table with no pk
// column is still usable — reads and filtered writes work identically — but
// loses O(1) point lookups and logs a warning, per spec.md §4.3.
func NewTable(name string, definitions []string) (*Table, error) {
	schema, err := NewSchema(definitions)
	if err != nil {
		return nil, err
	}

	var pkIndices []int
	for i, def := range definitions {
		if IsPrimaryKeyDefinition(def) {
			pkIndices = append(pkIndices, i)
		}
	}

	t := &Table{
		name:      name,
		schema:    schema,
		rows:      nil,
		pkIndices: pkIndices,
		isIndexed: len(pkIndices) > 0,
		index:     NewIndex(),
	}
	if !t.isIndexed {
		diagnostics.Warnf("table %q declares no primary key; lookups and updates will scan linearly", name)
	}
	return t, nil
}

// Name returns the table's name.
func (t *Table) Name() string { return t.name }

// Schema returns the table's schema.
func (t *Table) Schema() *Schema { return t.schema }

// validateCell checks a single raw text value against a column's declared
// type, returning the stored cell pointer (nil for NULL) or a validation
// error (spec.md §4.1, §6).
func validateCell(info ColumnInfo, value string) (*string, error) {
	if value == "" {
		if info.Nullable {
			return nil, nil
		}
		return nil, ferrors.NewValidation("empty value not permitted for non-nullable column")
	}

	switch info.Datatype {
	case Number:
		if _, err := strconv.ParseUint(value, 10, 64); err != nil {
			return nil, ferrors.NewValidation("value %q is not a valid non-negative integer", value)
		}
	case Text:
		if info.MaxLen != nil && len(value) > *info.MaxLen {
			return nil, ferrors.NewValidation("value %q exceeds maximum length %d", value, *info.MaxLen)
		}
	}
	stored := value
	return &stored, nil
}

// validateRow checks a full set of raw values against the schema, cell by
// cell, in column order.
func (t *Table) validateRow(values []string) (Row, error) {
	if len(values) != t.schema.Len() {
		return Row{}, ferrors.NewValidation("expected %d values, got %d", t.schema.Len(), len(values))
	}
	cells := make([]*string, len(values))
	for i, v := range values {
		col, _ := t.schema.At(i)
		cell, err := validateCell(col.Info, v)
		if err != nil {
			return Row{}, ferrors.NewValidation("column %q: %v", col.Name, err)
		}
		cells[i] = cell
	}
	return Row{Cells: cells}, nil
}

// Insert validates and appends one row, rejecting a duplicate primary key
// rather than overwriting the existing row (spec.md §3 invariant; see
// DESIGN.md for why this supersedes the narrower §4.3/§9 aside).
func (t *Table) Insert(values []string) (Row, error) {
	row, err := t.validateRow(values)
	if err != nil {
		return Row{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var key string
	if t.isIndexed {
		key = row.PrimaryKeyString(t.pkIndices)
		if t.index.PkExists(key) {
			return Row{}, ferrors.NewKey("duplicate primary key %q in table %q", key, t.name)
		}
	}

	pos := len(t.rows)
	t.rows = append(t.rows, row)
	if t.isIndexed {
		t.index.Insert(key, pos)
	}
	return row.Clone(), nil
}

// InsertMany inserts each row in order, stopping at the first failure. It
// returns the number of rows successfully inserted before any failure
// (spec.md §4.3: "non-atomic; a failure partway through leaves prior
// successful inserts in place").
func (t *Table) InsertMany(rowsValues [][]string) (int, error) {
	count := 0
	for _, values := range rowsValues {
		if _, err := t.Insert(values); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// pkPartsOf extracts the primary-key component values from row, following
// the table's own notion of identity: the declared pk columns if indexed,
// otherwise the first column as a fallback identity.
func (t *Table) pkPartsOf(row Row) []string {
	if t.isIndexed {
		parts := make([]string, len(t.pkIndices))
		for i, idx := range t.pkIndices {
			parts[i] = row.Text(idx)
		}
		return parts
	}
	return []string{row.Text(0)}
}

// locate resolves pkParts to a row position. Callers must hold at least a
// read lock on mu. For an indexed table this is the O(1) index lookup;
// otherwise it falls back to a linear scan against the first column.
func (t *Table) locate(pkParts []string) (pos int, key string, err error) {
	if len(pkParts) == 0 {
		return 0, "", ferrors.NewKey("empty primary key")
	}
	if t.isIndexed {
		key = joinKey(pkParts)
		p, ok := t.index.Get(key)
		if !ok {
			return 0, key, ferrors.NewKey("no row matches key %q in table %q", key, t.name)
		}
		return p, key, nil
	}

	key = pkParts[0]
	for i, row := range t.rows {
		if row.Text(0) == key {
			return i, key, nil
		}
	}
	return 0, key, ferrors.NewKey("no row matches key %q in table %q", key, t.name)
}

func joinKey(parts []string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += "|" + p
	}
	return out
}

// Update applies the named column updates to the single row identified by
// pkParts, returning the number of columns actually updated.
func (t *Table) Update(pkParts []string, updates map[string]string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	pos, _, err := t.locate(pkParts)
	if err != nil {
		return 0, err
	}

	row := t.rows[pos]
	count := 0
	for colName, newVal := range updates {
		idx, ok := t.schema.IndexOf(colName)
		if !ok {
			return count, ferrors.NewSchema("unknown column %q", colName)
		}
		col, _ := t.schema.At(idx)
		cell, verr := validateCell(col.Info, newVal)
		if verr != nil {
			return count, ferrors.NewValidation("column %q: %v", colName, verr)
		}
		row.Cells[idx] = cell
		count++
	}
	t.rows[pos] = row
	return count, nil
}

// UpdateAll applies the same column updates to every row, non-atomically:
// a validation failure partway through leaves prior rows already updated
// (spec.md §4.3). Returns the number of rows touched before any failure.
func (t *Table) UpdateAll(updates map[string]string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	count := 0
	for i := range t.rows {
		row := t.rows[i]
		for colName, newVal := range updates {
			idx, ok := t.schema.IndexOf(colName)
			if !ok {
				return count, ferrors.NewSchema("unknown column %q", colName)
			}
			col, _ := t.schema.At(idx)
			cell, verr := validateCell(col.Info, newVal)
			if verr != nil {
				return count, ferrors.NewValidation("column %q: %v", colName, verr)
			}
			row.Cells[idx] = cell
		}
		t.rows[i] = row
		count++
	}
	return count, nil
}

// RowPredicate reports whether a row matches a filter, used by FilterRows,
// DeleteWithFilter and the update-with-filter path in Database.
type RowPredicate func(Row) bool

// FilterRows returns the primary-key parts of every row matching pred, read
// under a shared lock. Used as the first pass of the two-pass read-then-
// write discipline spec.md §5 requires for filtered updates/deletes, so the
// read lock is never held while a write lock is subsequently requested.
func (t *Table) FilterRows(pred RowPredicate) [][]string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out [][]string
	for _, row := range t.rows {
		if pred(row) {
			out = append(out, t.pkPartsOf(row))
		}
	}
	return out
}

// Delete removes the single row identified by pkParts, returning a copy of
// the removed row.
func (t *Table) Delete(pkParts []string) (Row, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	pos, key, err := t.locate(pkParts)
	if err != nil {
		return Row{}, err
	}

	removed := t.rows[pos]
	t.rows = append(t.rows[:pos], t.rows[pos+1:]...)
	if t.isIndexed {
		t.index.Remove(key)
		t.index.ShiftDown(pos)
	}
	return removed.Clone(), nil
}

// DeleteWithFilter deletes every row matching pred, using the two-pass
// discipline: FilterRows under a read lock first, then Delete each matched
// key individually under its own write lock. Non-atomic; a failure partway
// through (e.g. a concurrent mutation already removed a matched row) stops
// and returns the count of rows removed so far (spec.md §4.3).
func (t *Table) DeleteWithFilter(pred RowPredicate) (int, error) {
	keys := t.FilterRows(pred)
	count := 0
	for _, pk := range keys {
		if _, err := t.Delete(pk); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// DeleteAll removes every row and clears the index together, preserving the
// position invariant between rows and index (spec.md §9 open question,
// resolved in DESIGN.md). Returns the number of rows removed.
func (t *Table) DeleteAll() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := len(t.rows)
	t.rows = nil
	t.index.Clear()
	return n
}

// PkExists reports whether value matches an existing row's identity column.
// For an indexed table this is the composite key component at pkIndices[0]
// joined alone — used only for single-column foreign-key referent checks,
// per spec.md §4.1 (foreign keys always reference a single column).
func (t *Table) PkExists(columnIndex int, value string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.isIndexed && len(t.pkIndices) == 1 && t.pkIndices[0] == columnIndex {
		return t.index.PkExists(value)
	}
	for _, row := range t.rows {
		if row.Text(columnIndex) == value {
			return true
		}
	}
	return false
}

// Reader returns a TableReader snapshotting the table's current rows. The
// snapshot is cloned under a read lock and never reflects subsequent writes
// (spec.md §4.4: "a reader never mutates its parent table").
func (t *Table) Reader() *TableReader {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return &TableReader{schema: t.schema, rows: CloneRows(t.rows)}
}

// PerformAggregate evaluates each requested aggregate call against a
// snapshot of the table's current rows and returns a single-row reader
// whose schema has one column per call, named by ResultName (spec.md §4.3).
func (t *Table) PerformAggregate(resolver FunctionResolver, calls []AggregateCall) (*TableReader, error) {
	t.mu.RLock()
	snapshot := CloneRows(t.rows)
	schema := t.schema
	t.mu.RUnlock()

	if len(calls) == 0 {
		return nil, ferrors.NewFunction("no aggregate calls requested")
	}

	resultCells := make([]*string, len(calls))
	resultSchema := &Schema{}
	for i, call := range calls {
		fn, ok := resolver.ResolveAggregator(call.FuncName)
		if !ok {
			return nil, ferrors.NewFunction("unknown aggregate function %q", call.FuncName)
		}
		colIndex := -1
		if !call.Wildcard {
			idx, ok := schema.IndexOf(call.Column)
			if !ok {
				return nil, ferrors.NewSchema("unknown column %q", call.Column)
			}
			colIndex = idx
		}
		value, err := fn(call.Wildcard, colIndex, snapshot)
		if err != nil {
			return nil, ferrors.NewFunction("%s: %v", call.FuncName, err)
		}
		stored := value
		resultCells[i] = &stored
		resultSchema = resultSchema.Appended(call.ResultName(), ColumnInfo{Datatype: Text, Nullable: true})
	}

	return &TableReader{schema: resultSchema, rows: []Row{{Cells: resultCells}}}, nil
}
