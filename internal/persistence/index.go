package persistence

// Index maps a primary-key string to the position of its row in the owning
// table's row vector (spec.md §4.2). It holds no lock of its own: callers
// mutate it only while already holding the table's row-vector write lock,
// so every insert/delete stays a single atomic section from an observer's
// point of view (spec.md §5).
type Index struct {
	positions map[string]int
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{positions: make(map[string]int)}
}

// Insert records key at position, overwriting any prior position for the
// same key. Callers must check PkExists first to reject duplicates; Index
// itself performs no uniqueness enforcement (spec.md §4.2).
func (idx *Index) Insert(key string, position int) {
	idx.positions[key] = position
}

// Get returns the row position for key, and whether it was found.
func (idx *Index) Get(key string) (int, bool) {
	pos, ok := idx.positions[key]
	return pos, ok
}

// Remove deletes key from the index, returning its former position if
// present.
func (idx *Index) Remove(key string) (int, bool) {
	pos, ok := idx.positions[key]
	if ok {
		delete(idx.positions, key)
	}
	return pos, ok
}

// ShiftDown decrements every stored position strictly greater than start.
// This is the invariant-preserving step after a row at position start is
// removed from the rows vector (spec.md §4.2, §8).
func (idx *Index) ShiftDown(start int) {
	for key, pos := range idx.positions {
		if pos > start {
			idx.positions[key] = pos - 1
		}
	}
}

// PkExists reports whether key is present in the index.
func (idx *Index) PkExists(key string) bool {
	_, ok := idx.positions[key]
	return ok
}

// Clear empties the index. Used by Table.DeleteAll, which must clear both
// the row vector and the index together to preserve the positional
// invariant (spec.md §9 open question, resolved in DESIGN.md).
func (idx *Index) Clear() {
	idx.positions = make(map[string]int)
}

// Len returns the number of keys currently indexed.
func (idx *Index) Len() int {
	return len(idx.positions)
}
