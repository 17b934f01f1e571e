package sqlfront

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These exercise Parse against real SQL text, end to end through the
// rqlite/sql parser and translateStatement, covering the six scenarios
// spec.md §8 lists as literal end-to-end checks, at the parse layer only.
// executor_test.go tests the execution layer separately by constructing
// *Statement values directly; these pin down what Parse produces from text.

func TestParseScenario1CreateUseInsertSelectWhere(t *testing.T) {
	stmt, err := Parse("CREATE DATABASE IF NOT EXISTS x")
	require.NoError(t, err)
	create := stmt.(*CreateDatabaseStatement)
	assert.Equal(t, "x", create.Name)
	assert.True(t, create.IfNotExists)

	stmt, err = Parse("USE x")
	require.NoError(t, err)
	use := stmt.(*UseStatement)
	assert.Equal(t, "x", use.Name)

	stmt, err = Parse("CREATE TABLE t (id INT PRIMARY KEY, name VARCHAR(50))")
	require.NoError(t, err)
	createTable := stmt.(*CreateTableStatement)
	assert.Equal(t, "t", createTable.Table)
	require.Len(t, createTable.Columns, 2)
	assert.Equal(t, ColumnDefinition{Name: "id", Type: "num", PrimaryKey: true}, createTable.Columns[0])
	assert.Equal(t, "name", createTable.Columns[1].Name)
	assert.Equal(t, "txt", createTable.Columns[1].Type)
	assert.False(t, createTable.Columns[1].PrimaryKey)

	stmt, err = Parse("INSERT INTO t VALUES (1, 'a'), (2, 'b')")
	require.NoError(t, err)
	insert := stmt.(*InsertStatement)
	assert.Equal(t, "t", insert.Table)
	assert.Equal(t, [][]string{{"1", "a"}, {"2", "b"}}, insert.Rows)

	stmt, err = Parse("SELECT * FROM t WHERE id = 2")
	require.NoError(t, err)
	sel := stmt.(*SelectStatement)
	assert.Equal(t, "t", sel.Table)
	require.Len(t, sel.Projections, 1)
	assert.Equal(t, "*", sel.Projections[0].Column)
	where, ok := sel.Where.(BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "EQ", where.Op)
	assert.Equal(t, ColumnRef{Name: "id"}, where.Left)
	assert.Equal(t, Literal{Text: "2"}, where.Right)
}

func TestParseScenario2ForeignKeyTableConstraint(t *testing.T) {
	stmt, err := Parse("CREATE TABLE p (id INT PRIMARY KEY)")
	require.NoError(t, err)
	parent := stmt.(*CreateTableStatement)
	assert.Equal(t, "p", parent.Table)
	require.Len(t, parent.Columns, 1)
	assert.True(t, parent.Columns[0].PrimaryKey)

	stmt, err = Parse("CREATE TABLE c (id INT PRIMARY KEY, pid INT, FOREIGN KEY (pid) REFERENCES p(id))")
	require.NoError(t, err)
	child := stmt.(*CreateTableStatement)
	assert.Equal(t, "c", child.Table)
	require.Len(t, child.Columns, 2)
	assert.Equal(t, "pid", child.Columns[1].Name)
	assert.Equal(t, "p.id", child.Columns[1].ForeignKey)

	stmt, err = Parse("INSERT INTO c VALUES (1, 99)")
	require.NoError(t, err)
	insert := stmt.(*InsertStatement)
	assert.Equal(t, [][]string{{"1", "99"}}, insert.Rows)
}

func TestParseScenario3OrderByDescLimit(t *testing.T) {
	stmt, err := Parse("INSERT INTO t VALUES (1,'a'),(2,'b'),(3,'c')")
	require.NoError(t, err)
	insert := stmt.(*InsertStatement)
	assert.Equal(t, [][]string{{"1", "a"}, {"2", "b"}, {"3", "c"}}, insert.Rows)

	stmt, err = Parse("SELECT * FROM t ORDER BY id DESC LIMIT 2")
	require.NoError(t, err)
	sel := stmt.(*SelectStatement)
	require.Len(t, sel.OrderBy, 1)
	assert.Equal(t, "id", sel.OrderBy[0].Column)
	assert.Equal(t, Descending, sel.OrderBy[0].Direction)
	require.NotNil(t, sel.Limit)
	assert.Equal(t, 2, *sel.Limit)
}

func TestParseScenario4CountStarWithAlias(t *testing.T) {
	stmt, err := Parse("SELECT COUNT(*) AS n FROM t")
	require.NoError(t, err)
	sel := stmt.(*SelectStatement)
	assert.Equal(t, "t", sel.Table)
	require.Len(t, sel.Projections, 1)
	proj := sel.Projections[0]
	assert.True(t, proj.IsFunction)
	assert.Equal(t, "COUNT", proj.FuncName)
	assert.True(t, proj.Wildcard)
	assert.Equal(t, "n", proj.Alias)
}

func TestParseScenario5DeleteWhere(t *testing.T) {
	stmt, err := Parse("DELETE FROM t WHERE id = 2")
	require.NoError(t, err)
	del := stmt.(*DeleteStatement)
	assert.Equal(t, "t", del.Table)
	where, ok := del.Where.(BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "EQ", where.Op)
	assert.Equal(t, ColumnRef{Name: "id"}, where.Left)
	assert.Equal(t, Literal{Text: "2"}, where.Right)
}

func TestParseScenario6UpdateOrWhereAndSelectColumn(t *testing.T) {
	stmt, err := Parse("UPDATE t SET name='z' WHERE id=1 OR id=2")
	require.NoError(t, err)
	upd := stmt.(*UpdateStatement)
	assert.Equal(t, "t", upd.Table)
	require.Len(t, upd.Assignments, 1)
	assert.Equal(t, Assignment{Column: "name", Value: "z"}, upd.Assignments[0])

	where, ok := upd.Where.(BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "OR", where.Op)
	left, ok := where.Left.(BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "EQ", left.Op)
	right, ok := where.Right.(BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "EQ", right.Op)

	stmt, err = Parse("SELECT name FROM t")
	require.NoError(t, err)
	sel := stmt.(*SelectStatement)
	require.Len(t, sel.Projections, 1)
	assert.Equal(t, "name", sel.Projections[0].Column)
	assert.False(t, sel.Projections[0].IsFunction)
}

func TestParseFallsThroughToRqliteForOrdinarySQL(t *testing.T) {
	stmt, err := Parse("SELECT * FROM users WHERE name = 'bob'")
	require.NoError(t, err)
	_, ok := stmt.(*SelectStatement)
	assert.True(t, ok)
}

func TestParseUnsupportedStatementKind(t *testing.T) {
	_, err := Parse("CREATE INDEX idx ON t (id)")
	assert.Error(t, err)
}
