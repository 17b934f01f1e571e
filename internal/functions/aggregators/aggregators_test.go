package aggregators_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrumdb/ferrum/internal/functions/aggregators"
	"github.com/ferrumdb/ferrum/internal/persistence"
)

func strPtr(s string) *string { return &s }

func TestCountWildcardCountsAllRows(t *testing.T) {
	rows := []persistence.Row{
		persistence.NewRow(strPtr("a")),
		persistence.NewRow(nil),
	}
	result, err := aggregators.Count(true, 0, rows)
	require.NoError(t, err)
	assert.Equal(t, "2", result)
}

func TestCountColumnCountsOnlyNonNullCells(t *testing.T) {
	rows := []persistence.Row{
		persistence.NewRow(strPtr("a")),
		persistence.NewRow(nil),
		persistence.NewRow(strPtr("c")),
	}
	result, err := aggregators.Count(false, 0, rows)
	require.NoError(t, err)
	assert.Equal(t, "2", result)
}

func TestMinIgnoresNullsAndComparesLexicographically(t *testing.T) {
	rows := []persistence.Row{
		persistence.NewRow(strPtr("banana")),
		persistence.NewRow(nil),
		persistence.NewRow(strPtr("apple")),
	}
	result, err := aggregators.Min(false, 0, rows)
	require.NoError(t, err)
	assert.Equal(t, "apple", result)
}

func TestMinRejectsWildcard(t *testing.T) {
	_, err := aggregators.Min(true, 0, nil)
	assert.Error(t, err)
}

func TestMinErrorsWhenAllNull(t *testing.T) {
	rows := []persistence.Row{persistence.NewRow(nil)}
	_, err := aggregators.Min(false, 0, rows)
	assert.Error(t, err)
}

func TestMaxComparesLexicographically(t *testing.T) {
	rows := []persistence.Row{
		persistence.NewRow(strPtr("9")),
		persistence.NewRow(strPtr("10")),
	}
	result, err := aggregators.Max(false, 0, rows)
	require.NoError(t, err)
	assert.Equal(t, "9", result, "lexicographic comparison puts \"9\" after \"10\"")
}

func TestMaxRejectsWildcard(t *testing.T) {
	_, err := aggregators.Max(true, 0, nil)
	assert.Error(t, err)
}
