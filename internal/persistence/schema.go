package persistence

import (
	"strings"
	"sync"

	"github.com/ferrumdb/ferrum/internal/ferrors"
)

// DataType is one of the two logical cell datatypes spec.md §3 defines.
type DataType int

const (
	// Number is a non-negative decimal integer in text form, validated as a
	// 64-bit unsigned integer.
	Number DataType = iota
	// Text is UTF-8 text with an optional maximum length.
	Text
)

func (d DataType) String() string {
	if d == Number {
		return "NUM"
	}
	return "TXT"
}

// defaultTextMaxLen is the default maximum length applied to a txt column
// that does not otherwise specify one (spec.md §4.1).
const defaultTextMaxLen = 50

// reservedNames may never be used as column names (spec.md §3).
var reservedNames = map[string]bool{"pk": true, "fk": true, "num": true, "txt": true}

// ForeignKeyConstraint names the table and column a column's values must
// exist in, and records the referent's resolved column index once it can be
// validated against an existing table (spec.md §4.1).
type ForeignKeyConstraint struct {
	TableName   string
	ColumnName  string
	ColumnIndex int
	Resolved    bool
}

// ColumnInfo is the (datatype, max length, nullability, foreign key)
// quadruple spec.md §3 attaches to every schema column.
type ColumnInfo struct {
	Datatype   DataType
	MaxLen     *int
	Nullable   bool
	ForeignKey *ForeignKeyConstraint
}

// Column pairs a column name with its ColumnInfo. Order is significant:
// schema equality, projection by position, and primary-key extraction all
// treat column order as part of identity (spec.md §3).
type Column struct {
	Name string
	Info ColumnInfo
}

// Schema is the ordered list of a table's columns. It carries its own lock
// because foreign-key column indices are resolved lazily, after
// construction, by Database.CreateTable — a mutation distinct from, and
// narrower than, the table's row-vector mutations (spec.md §5: "must not
// hold a read on Schema while asking for a write on the same Schema").
type Schema struct {
	mu      sync.RWMutex
	columns []Column
}

// NewSchema parses each column-definition token string ("name type [key]
// [ref]") into a Schema. Each definition is validated independently;
// see parseColumnDefinition for the grammar and failure modes.
func NewSchema(definitions []string) (*Schema, error) {
	if len(definitions) == 0 {
		return nil, ferrors.NewSchema("empty column-definition list does not make a schema")
	}

	columns := make([]Column, 0, len(definitions))
	seen := make(map[string]bool, len(definitions))
	for _, def := range definitions {
		col, err := parseColumnDefinition(def)
		if err != nil {
			return nil, err
		}
		if seen[col.Name] {
			return nil, ferrors.NewSchema("duplicate column name %q", col.Name)
		}
		seen[col.Name] = true
		columns = append(columns, col)
	}

	return &Schema{columns: columns}, nil
}

// parseColumnDefinition parses a single "name type [key] [ref]" token
// string, per spec.md §4.1.
func parseColumnDefinition(def string) (Column, error) {
	tokens := strings.Fields(def)
	if len(tokens) < 2 {
		return Column{}, ferrors.NewSchema("malformed column definition %q: expected at least 'name type'", def)
	}

	name := tokens[0]
	if reservedNames[strings.ToLower(name)] {
		return Column{}, ferrors.NewSchema("malformed column definition %q: %q is a reserved keyword", def, name)
	}

	var info ColumnInfo
	switch strings.ToLower(tokens[1]) {
	case "num":
		info = ColumnInfo{Datatype: Number, MaxLen: nil, Nullable: false}
	case "txt":
		max := defaultTextMaxLen
		info = ColumnInfo{Datatype: Text, MaxLen: &max, Nullable: false}
	default:
		return Column{}, ferrors.NewSchema("malformed column definition %q: unknown type %q", def, tokens[1])
	}

	if len(tokens) >= 3 {
		switch strings.ToLower(tokens[2]) {
		case "pk":
			if len(tokens) != 3 {
				return Column{}, ferrors.NewSchema("malformed column definition %q: pk takes no reference", def)
			}
		case "fk":
			if len(tokens) != 4 {
				return Column{}, ferrors.NewSchema("malformed column definition %q: fk requires a table.column reference", def)
			}
			ref := tokens[3]
			dot := strings.IndexByte(ref, '.')
			if dot <= 0 || dot == len(ref)-1 {
				return Column{}, ferrors.NewSchema("malformed column definition %q: fk reference %q is not table.column", def, ref)
			}
			info.ForeignKey = &ForeignKeyConstraint{
				TableName:  ref[:dot],
				ColumnName: ref[dot+1:],
			}
		default:
			return Column{}, ferrors.NewSchema("malformed column definition %q: key must be pk or fk, got %q", def, tokens[2])
		}
	} else if len(tokens) > 2 {
		return Column{}, ferrors.NewSchema("malformed column definition %q: unexpected trailing tokens", def)
	}

	return Column{Name: name, Info: info}, nil
}

// IsPrimaryKeyDefinition reports whether the raw column-definition string
// declares a pk column, used by NewTable to collect primary-key indices
// without re-deriving them from the parsed Schema.
func IsPrimaryKeyDefinition(def string) bool {
	tokens := strings.Fields(def)
	return len(tokens) >= 3 && strings.ToLower(tokens[2]) == "pk"
}

// Len returns the number of columns in the schema.
func (s *Schema) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.columns)
}

// At returns the column at the given position.
func (s *Schema) At(index int) (Column, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.columns) {
		return Column{}, false
	}
	return s.columns[index], true
}

// IndexOf returns the position of the named column, case-sensitive.
func (s *Schema) IndexOf(name string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i, c := range s.columns {
		if c.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Names returns the schema's column names in order.
func (s *Schema) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.Name
	}
	return names
}

// Columns returns a defensive copy of the schema's columns in order.
func (s *Schema) Columns() []Column {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// ForeignKeys returns the (column index, constraint) pairs for every column
// that declares a foreign key, in schema order.
func (s *Schema) ForeignKeys() []struct {
	Index      int
	Constraint ForeignKeyConstraint
} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []struct {
		Index      int
		Constraint ForeignKeyConstraint
	}
	for i, c := range s.columns {
		if c.Info.ForeignKey != nil {
			out = append(out, struct {
				Index      int
				Constraint ForeignKeyConstraint
			}{Index: i, Constraint: *c.Info.ForeignKey})
		}
	}
	return out
}

// ForeignKeyFor returns the foreign-key constraint declared on the named
// column, if any.
func (s *Schema) ForeignKeyFor(columnName string) (ForeignKeyConstraint, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.columns {
		if c.Name == columnName && c.Info.ForeignKey != nil {
			return *c.Info.ForeignKey, true
		}
	}
	return ForeignKeyConstraint{}, false
}

// ResolveForeignKeyIndex records the referenced column's index on the
// foreign-key constraint declared at schemaIndex, once the referent can be
// validated against an existing table (spec.md §4.1 "resolved lazily").
func (s *Schema) ResolveForeignKeyIndex(schemaIndex, referentColumnIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if schemaIndex < 0 || schemaIndex >= len(s.columns) {
		return
	}
	fk := s.columns[schemaIndex].Info.ForeignKey
	if fk == nil {
		return
	}
	fk.ColumnIndex = referentColumnIndex
	fk.Resolved = true
}

// Appended returns a new Schema with one more column, used by TableReader
// to build aggregate/scalar result schemas without mutating the source
// table's schema (spec.md §4.1 "append a column").
func (s *Schema) Appended(name string, info ColumnInfo) *Schema {
	s.mu.RLock()
	defer s.mu.RUnlock()
	columns := make([]Column, len(s.columns), len(s.columns)+1)
	copy(columns, s.columns)
	columns = append(columns, Column{Name: name, Info: info})
	return &Schema{columns: columns}
}

// Projected returns a new Schema containing only the named columns, in the
// requested order, for TableReader.Select.
func (s *Schema) Projected(names []string) (*Schema, []int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	indices := make([]int, len(names))
	columns := make([]Column, len(names))
	for i, name := range names {
		idx := -1
		for j, c := range s.columns {
			if c.Name == name {
				idx = j
				break
			}
		}
		if idx == -1 {
			return nil, nil, ferrors.NewSchema("unknown column %q", name)
		}
		indices[i] = idx
		columns[i] = s.columns[idx]
	}
	return &Schema{columns: columns}, indices, nil
}

// String renders the schema the way the original engine's Schema Display
// impl did: "name (DATATYPE) | name (DATATYPE) | ...".
func (s *Schema) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	parts := make([]string, len(s.columns))
	for i, c := range s.columns {
		parts[i] = c.Name + " (" + c.Info.Datatype.String() + ")"
	}
	return strings.Join(parts, " | ")
}
