package persistence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ferrumdb/ferrum/internal/persistence"
)

func strPtr(s string) *string { return &s }

func TestRowTextAndAt(t *testing.T) {
	row := persistence.NewRow(strPtr("alice"), nil, strPtr("30"))

	assert.Equal(t, "alice", row.Text(0))
	assert.Equal(t, "", row.Text(1))
	assert.Nil(t, row.At(1))
	assert.Nil(t, row.At(99))
}

func TestRowPrimaryKeyString(t *testing.T) {
	row := persistence.NewRow(strPtr("a"), strPtr("b"), strPtr("c"))
	assert.Equal(t, "a|c", row.PrimaryKeyString([]int{0, 2}))
}

func TestRowCloneIsIndependent(t *testing.T) {
	row := persistence.NewRow(strPtr("x"))
	clone := row.Clone()
	clone.Cells[0] = strPtr("y")

	assert.Equal(t, "x", row.Text(0))
	assert.Equal(t, "y", clone.Text(0))
}

func TestCloneRows(t *testing.T) {
	rows := []persistence.Row{persistence.NewRow(strPtr("1")), persistence.NewRow(strPtr("2"))}
	cloned := persistence.CloneRows(rows)
	cloned[0].Cells[0] = strPtr("changed")

	assert.Equal(t, "1", rows[0].Text(0))
	assert.Equal(t, "changed", cloned[0].Text(0))
}
