package aggregators

import (
	"github.com/ferrumdb/ferrum/internal/ferrors"
	"github.com/ferrumdb/ferrum/internal/persistence"
)

// MaxName is the registry key for MAX.
const MaxName = "MAX"

// Max returns the lexicographically largest non-null cell at colIndex
// (spec.md §4.3: "operates on text form"). A wildcard argument is rejected.
func Max(wildcard bool, colIndex int, rows []persistence.Row) (string, error) {
	if wildcard {
		return "", ferrors.NewFunction("%s does not accept a wildcard argument", MaxName)
	}
	var max *string
	for _, row := range rows {
		value := row.At(colIndex)
		if value == nil {
			continue
		}
		if max == nil || *value > *max {
			max = value
		}
	}
	if max == nil {
		return "", ferrors.NewFunction("%s found no non-null values to compare", MaxName)
	}
	return *max, nil
}
