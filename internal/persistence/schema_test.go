package persistence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrumdb/ferrum/internal/persistence"
)

func TestNewSchemaParsesColumnDefinitions(t *testing.T) {
	schema, err := persistence.NewSchema([]string{"id num pk", "name txt", "manager_id num fk users.id"})
	require.NoError(t, err)
	require.Equal(t, 3, schema.Len())

	col, ok := schema.At(0)
	require.True(t, ok)
	assert.Equal(t, "id", col.Name)
	assert.Equal(t, persistence.Number, col.Info.Datatype)

	col, ok = schema.At(1)
	require.True(t, ok)
	assert.Equal(t, persistence.Text, col.Info.Datatype)
	require.NotNil(t, col.Info.MaxLen)
	assert.Equal(t, 50, *col.Info.MaxLen)

	col, ok = schema.At(2)
	require.True(t, ok)
	require.NotNil(t, col.Info.ForeignKey)
	assert.Equal(t, "users", col.Info.ForeignKey.TableName)
	assert.Equal(t, "id", col.Info.ForeignKey.ColumnName)
	assert.False(t, col.Info.ForeignKey.Resolved)
}

func TestNewSchemaRejectsReservedNames(t *testing.T) {
	_, err := persistence.NewSchema([]string{"pk num"})
	assert.Error(t, err)
}

func TestNewSchemaRejectsDuplicateColumnNames(t *testing.T) {
	_, err := persistence.NewSchema([]string{"id num", "id txt"})
	assert.Error(t, err)
}

func TestNewSchemaRejectsMalformedDefinitions(t *testing.T) {
	cases := []string{
		"onlyname",
		"id weird",
		"id num notakey",
		"id num fk badref",
		"id num fk users.",
	}
	for _, def := range cases {
		_, err := persistence.NewSchema([]string{def})
		assert.Errorf(t, err, "expected error for definition %q", def)
	}
}

func TestSchemaIndexOfAndNames(t *testing.T) {
	schema, err := persistence.NewSchema([]string{"id num pk", "name txt"})
	require.NoError(t, err)

	idx, ok := schema.IndexOf("name")
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = schema.IndexOf("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"id", "name"}, schema.Names())
}

func TestSchemaProjected(t *testing.T) {
	schema, err := persistence.NewSchema([]string{"id num pk", "name txt", "age num"})
	require.NoError(t, err)

	projected, indices, err := schema.Projected([]string{"age", "id"})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0}, indices)
	assert.Equal(t, 2, projected.Len())

	_, _, err = schema.Projected([]string{"nope"})
	assert.Error(t, err)
}

func TestSchemaResolveForeignKeyIndex(t *testing.T) {
	schema, err := persistence.NewSchema([]string{"manager_id num fk users.id"})
	require.NoError(t, err)

	schema.ResolveForeignKeyIndex(0, 3)
	fk, ok := schema.ForeignKeyFor("manager_id")
	require.True(t, ok)
	assert.True(t, fk.Resolved)
	assert.Equal(t, 3, fk.ColumnIndex)
}

func TestSchemaString(t *testing.T) {
	schema, err := persistence.NewSchema([]string{"id num pk", "name txt"})
	require.NoError(t, err)
	assert.Equal(t, "id (NUM) | name (TXT)", schema.String())
}

func TestIsPrimaryKeyDefinition(t *testing.T) {
	assert.True(t, persistence.IsPrimaryKeyDefinition("id num pk"))
	assert.False(t, persistence.IsPrimaryKeyDefinition("id num"))
	assert.False(t, persistence.IsPrimaryKeyDefinition("id num fk users.id"))
}
