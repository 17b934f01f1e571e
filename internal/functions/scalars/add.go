// Package scalars holds the built-in per-row functions: ADD (spec.md §4.4,
// grounded on original_source/src/functions/scalars/add.rs).
package scalars

import (
	"strconv"

	"github.com/ferrumdb/ferrum/internal/ferrors"
)

// AddName is the registry key for ADD.
const AddName = "ADD"

// Add returns resolvedArg (the cell at the function's argument column)
// plus the single literal integer argument, both parsed as non-negative
// integers (spec.md §4.4: scalars receive the resolved column as text,
// then any literal arguments).
func Add(resolvedArg string, literalArgs []string) (string, error) {
	if len(literalArgs) != 1 {
		return "", ferrors.NewFunction("%s takes exactly one literal argument", AddName)
	}
	base, err := strconv.ParseUint(resolvedArg, 10, 64)
	if err != nil {
		return "", ferrors.NewFunction("%s: column value %q is not an integer", AddName, resolvedArg)
	}
	delta, err := strconv.ParseUint(literalArgs[0], 10, 64)
	if err != nil {
		return "", ferrors.NewFunction("%s: argument %q is not an integer", AddName, literalArgs[0])
	}
	return strconv.FormatUint(base+delta, 10), nil
}
