// Package aggregators holds the built-in over-rows functions: COUNT, MIN,
// MAX (spec.md §4.3, grounded on original_source/src/functions/aggregators).
package aggregators

import (
	"strconv"

	"github.com/ferrumdb/ferrum/internal/persistence"
)

// CountName is the registry key for COUNT.
const CountName = "COUNT"

// Count implements COUNT(*) (total row count) and COUNT(col) (number of
// non-null cells at col), per spec.md §4.3's authoritative clarification.
func Count(wildcard bool, colIndex int, rows []persistence.Row) (string, error) {
	if wildcard {
		return strconv.Itoa(len(rows)), nil
	}
	total := 0
	for _, row := range rows {
		if row.At(colIndex) != nil {
			total++
		}
	}
	return strconv.Itoa(total), nil
}
