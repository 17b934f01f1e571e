package aggregators

import (
	"github.com/ferrumdb/ferrum/internal/ferrors"
	"github.com/ferrumdb/ferrum/internal/persistence"
)

// MinName is the registry key for MIN.
const MinName = "MIN"

// Min returns the lexicographically smallest non-null cell at colIndex
// (spec.md §4.3: "operates on text form"). A wildcard argument is rejected.
func Min(wildcard bool, colIndex int, rows []persistence.Row) (string, error) {
	if wildcard {
		return "", ferrors.NewFunction("%s does not accept a wildcard argument", MinName)
	}
	var min *string
	for _, row := range rows {
		value := row.At(colIndex)
		if value == nil {
			continue
		}
		if min == nil || *value < *min {
			min = value
		}
	}
	if min == nil {
		return "", ferrors.NewFunction("%s found no non-null values to compare", MinName)
	}
	return *min, nil
}
