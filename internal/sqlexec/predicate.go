// Package sqlexec translates one parsed statement (internal/sqlfront) into
// calls against a Session/Database/Table/TableReader, assembling a query
// pipeline for SELECT and a single mutation call for INSERT/UPDATE/DELETE
// (spec.md §4.8).
package sqlexec

import (
	"github.com/ferrumdb/ferrum/internal/ferrors"
	"github.com/ferrumdb/ferrum/internal/persistence"
	"github.com/ferrumdb/ferrum/internal/sqlfront"
)

// compilePredicate reduces a sqlfront.Expr tree into an opaque row
// predicate closure, resolving column references against schema up front so
// that an unknown column fails immediately rather than per row (spec.md
// §4.8.1).
func compilePredicate(expr sqlfront.Expr, schema *persistence.Schema) (persistence.RowPredicate, error) {
	switch e := expr.(type) {
	case sqlfront.BinaryExpr:
		switch e.Op {
		case "AND":
			left, err := compilePredicate(e.Left, schema)
			if err != nil {
				return nil, err
			}
			right, err := compilePredicate(e.Right, schema)
			if err != nil {
				return nil, err
			}
			return func(row persistence.Row) bool { return left(row) && right(row) }, nil
		case "OR":
			left, err := compilePredicate(e.Left, schema)
			if err != nil {
				return nil, err
			}
			right, err := compilePredicate(e.Right, schema)
			if err != nil {
				return nil, err
			}
			return func(row persistence.Row) bool { return left(row) || right(row) }, nil
		case "EQ", "NEQ":
			return compileComparison(e, schema)
		default:
			return nil, ferrors.NewUnsupported("unsupported filter operator %q", e.Op)
		}
	default:
		return nil, ferrors.NewUnsupported("unsupported filter expression")
	}
}

// compileComparison resolves an EQ/NEQ binary expression's column side to a
// schema index and its literal side to a text value, in either operand
// order, then emits a predicate comparing the row's cell at that index
// (spec.md §4.8.1: "resolve the left side to a column index ... and the
// right side to a text literal").
func compileComparison(e sqlfront.BinaryExpr, schema *persistence.Schema) (persistence.RowPredicate, error) {
	colIndex, literal, err := resolveColumnAndLiteral(e.Left, e.Right, schema)
	if err != nil {
		return nil, err
	}

	negate := e.Op == "NEQ"
	return func(row persistence.Row) bool {
		matches := row.Text(colIndex) == literal
		if negate {
			return !matches
		}
		return matches
	}, nil
}

func resolveColumnAndLiteral(left, right sqlfront.Expr, schema *persistence.Schema) (int, string, error) {
	if col, ok := left.(sqlfront.ColumnRef); ok {
		if lit, ok := right.(sqlfront.Literal); ok {
			idx, ok := schema.IndexOf(col.Name)
			if !ok {
				return 0, "", ferrors.NewSchema("unknown column %q", col.Name)
			}
			return idx, lit.Text, nil
		}
	}
	if col, ok := right.(sqlfront.ColumnRef); ok {
		if lit, ok := left.(sqlfront.Literal); ok {
			idx, ok := schema.IndexOf(col.Name)
			if !ok {
				return 0, "", ferrors.NewSchema("unknown column %q", col.Name)
			}
			return idx, lit.Text, nil
		}
	}
	return 0, "", ferrors.NewUnsupported("comparison must be between a column and a literal")
}
