// Package ferrors defines the diagnostic error kinds surfaced to the REPL,
// grouped the way spec.md §7 groups them: schema, validation, referential,
// key, function, catalog, and unsupported-construct errors.
package ferrors

import "fmt"

// SchemaError reports a problem with a schema definition: an unknown column,
// an unknown table, a duplicate name, a reserved keyword used as a name, or
// a malformed column/foreign-key definition.
type SchemaError struct {
	Detail string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("schema error: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("schema error: %s", e.Detail)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// NewSchema builds a SchemaError from a formatted detail message.
func NewSchema(format string, args ...any) *SchemaError {
	return &SchemaError{Detail: fmt.Sprintf(format, args...)}
}

// ValidationError reports a cell that fails its column's datatype,
// nullability, or length constraint.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("validation error: %s", e.Detail) }

func NewValidation(format string, args ...any) *ValidationError {
	return &ValidationError{Detail: fmt.Sprintf(format, args...)}
}

// ReferentialError reports a foreign key pointing at a non-existent
// referent, or a written value with no matching primary key.
type ReferentialError struct {
	Detail string
}

func (e *ReferentialError) Error() string { return fmt.Sprintf("referential error: %s", e.Detail) }

func NewReferential(format string, args ...any) *ReferentialError {
	return &ReferentialError{Detail: fmt.Sprintf(format, args...)}
}

// KeyError reports a missing row for a primary key on update/delete, or a
// primary-key tuple of the wrong arity.
type KeyError struct {
	Detail string
}

func (e *KeyError) Error() string { return fmt.Sprintf("key error: %s", e.Detail) }

func NewKey(format string, args ...any) *KeyError {
	return &KeyError{Detail: fmt.Sprintf(format, args...)}
}

// FunctionError reports an unknown function name, wrong arity, or a
// wildcard used where one is not permitted.
type FunctionError struct {
	Detail string
}

func (e *FunctionError) Error() string { return fmt.Sprintf("function error: %s", e.Detail) }

func NewFunction(format string, args ...any) *FunctionError {
	return &FunctionError{Detail: fmt.Sprintf(format, args...)}
}

// CatalogError reports a database or table that already exists (without
// IF NOT EXISTS) or does not exist where one is required.
type CatalogError struct {
	Detail string
}

func (e *CatalogError) Error() string { return fmt.Sprintf("catalog error: %s", e.Detail) }

func NewCatalog(format string, args ...any) *CatalogError {
	return &CatalogError{Detail: fmt.Sprintf(format, args...)}
}

// UnsupportedError reports a statement or sub-clause the executor does not
// handle: nested function calls, an unknown operator, a non-identifier
// projection, and the like.
type UnsupportedError struct {
	Detail string
}

func (e *UnsupportedError) Error() string { return fmt.Sprintf("unsupported: %s", e.Detail) }

func NewUnsupported(format string, args ...any) *UnsupportedError {
	return &UnsupportedError{Detail: fmt.Sprintf(format, args...)}
}
