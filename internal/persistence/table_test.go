package persistence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrumdb/ferrum/internal/persistence"
)

func newUsersTable(t *testing.T) *persistence.Table {
	t.Helper()
	table, err := persistence.NewTable("users", []string{"id num pk", "name txt", "bio txt"})
	require.NoError(t, err)
	return table
}

func TestTableInsertAndDuplicateKeyRejected(t *testing.T) {
	table := newUsersTable(t)

	_, err := table.Insert([]string{"1", "alice", "dev"})
	require.NoError(t, err)

	_, err = table.Insert([]string{"1", "bob", "dev"})
	assert.Error(t, err, "duplicate primary key must be rejected, not overwritten")
}

func TestTableInsertValidatesCells(t *testing.T) {
	table := newUsersTable(t)

	_, err := table.Insert([]string{"not-a-number", "alice", "dev"})
	assert.Error(t, err)

	_, err = table.Insert([]string{"1", "", ""})
	assert.Error(t, err, "non-nullable empty text must be rejected")

	_, err = table.Insert([]string{"1", "alice"})
	assert.Error(t, err, "wrong cell count must be rejected")
}

func TestTableInsertManyStopsAtFirstFailure(t *testing.T) {
	table := newUsersTable(t)

	count, err := table.InsertMany([][]string{
		{"1", "alice", "dev"},
		{"2", "bob", "dev"},
		{"bad", "carl", "dev"},
		{"3", "dave", "dev"},
	})
	assert.Error(t, err)
	assert.Equal(t, 2, count)
}

func TestTableUpdateAndDelete(t *testing.T) {
	table := newUsersTable(t)
	_, err := table.Insert([]string{"1", "alice", "dev"})
	require.NoError(t, err)

	n, err := table.Update([]string{"1"}, map[string]string{"name": "alicia"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	reader := table.Reader()
	assert.Equal(t, "alicia", reader.Rows()[0].Text(1))

	_, err = table.Update([]string{"999"}, map[string]string{"name": "x"})
	assert.Error(t, err)

	removed, err := table.Delete([]string{"1"})
	require.NoError(t, err)
	assert.Equal(t, "alicia", removed.Text(1))

	_, err = table.Delete([]string{"1"})
	assert.Error(t, err)
}

func TestTableUpdateUnknownColumn(t *testing.T) {
	table := newUsersTable(t)
	_, err := table.Insert([]string{"1", "alice", "dev"})
	require.NoError(t, err)

	_, err = table.Update([]string{"1"}, map[string]string{"nope": "x"})
	assert.Error(t, err)
}

func TestTableUpdateAll(t *testing.T) {
	table := newUsersTable(t)
	_, _ = table.Insert([]string{"1", "alice", "dev"})
	_, _ = table.Insert([]string{"2", "bob", "dev"})

	n, err := table.UpdateAll(map[string]string{"bio": "updated"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, row := range table.Reader().Rows() {
		assert.Equal(t, "updated", row.Text(2))
	}
}

func TestTableFilterRowsAndDeleteWithFilter(t *testing.T) {
	table := newUsersTable(t)
	_, _ = table.Insert([]string{"1", "alice", "dev"})
	_, _ = table.Insert([]string{"2", "bob", "dev"})
	_, _ = table.Insert([]string{"3", "alice", "dev"})

	pred := func(row persistence.Row) bool { return row.Text(1) == "alice" }
	matches := table.FilterRows(pred)
	assert.Len(t, matches, 2)

	n, err := table.DeleteWithFilter(pred)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, table.Reader().Rows(), 1)
}

func TestTableDeleteAllClearsIndexAndRows(t *testing.T) {
	table := newUsersTable(t)
	_, _ = table.Insert([]string{"1", "alice", "dev"})
	_, _ = table.Insert([]string{"2", "bob", "dev"})

	n := table.DeleteAll()
	assert.Equal(t, 2, n)
	assert.Empty(t, table.Reader().Rows())

	// The index must have been cleared too: re-inserting key "1" must succeed,
	// not be rejected as a stale duplicate.
	_, err := table.Insert([]string{"1", "carl", "dev"})
	assert.NoError(t, err)
}

func TestTableUnindexedFallsBackToFirstColumn(t *testing.T) {
	table, err := persistence.NewTable("events", []string{"name txt", "detail txt"})
	require.NoError(t, err)

	_, err = table.Insert([]string{"login", "ok"})
	require.NoError(t, err)

	n, err := table.Update([]string{"login"}, map[string]string{"detail": "changed"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestTablePkExists(t *testing.T) {
	table := newUsersTable(t)
	_, _ = table.Insert([]string{"1", "alice", "dev"})

	assert.True(t, table.PkExists(0, "1"))
	assert.False(t, table.PkExists(0, "2"))
}

func TestTablePerformAggregate(t *testing.T) {
	table := newUsersTable(t)
	_, _ = table.Insert([]string{"1", "alice", "dev"})
	_, _ = table.Insert([]string{"2", "bob", "present"})

	resolver := stubResolver{
		aggregators: map[string]persistence.AggregatorFunc{
			"COUNT": func(wildcard bool, colIndex int, rows []persistence.Row) (string, error) {
				if wildcard {
					return "2", nil
				}
				return "1", nil
			},
		},
	}

	reader, err := table.PerformAggregate(resolver, []persistence.AggregateCall{
		{FuncName: "COUNT", Wildcard: true, Alias: "total"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, reader.Len())
	assert.Equal(t, "total (TXT)", reader.Schema().String())
	assert.Equal(t, "2", reader.Rows()[0].Text(0))
}

type stubResolver struct {
	aggregators map[string]persistence.AggregatorFunc
	scalars     map[string]persistence.ScalarFunc
}

func (s stubResolver) ResolveAggregator(name string) (persistence.AggregatorFunc, bool) {
	fn, ok := s.aggregators[name]
	return fn, ok
}

func (s stubResolver) ResolveScalar(name string) (persistence.ScalarFunc, bool) {
	fn, ok := s.scalars[name]
	return fn, ok
}
