package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/modelgen/internal/database"
	"github.com/koustreak/modelgen/internal/schema"
	"github.com/koustreak/modelgen/internal/typemap"
)

func strPtr(s string) *string { return &s }

func mysqlMapper(t *testing.T) *typemap.Mapper {
	t.Helper()
	m, err := typemap.For(database.DriverMySQL)
	require.NoError(t, err)
	return m
}

func TestBuild(t *testing.T) {
	table := schema.Table{
		Name: "users",
		Columns: []schema.Row{
			{TableName: "users", ColumnName: "id", SQLType: "int"},
			{TableName: "users", ColumnName: "created_at", SQLType: "datetime", IsNullable: true},
			{TableName: "users", ColumnName: "score", SQLType: "decimal", DefaultValue: strPtr("0")},
		},
	}

	class := Build(table, mysqlMapper(t))

	assert.Equal(t, "User", class.Name)
	assert.Equal(t, "users", class.Table)
	require.Len(t, class.Properties, 3)

	assert.Equal(t, Property{Name: "id", Column: "id", SQLType: "int", Kind: typemap.Number}, class.Properties[0])

	createdAt := class.Properties[1]
	assert.Equal(t, "createdAt", createdAt.Name)
	assert.Equal(t, typemap.DateTime, createdAt.Kind)
	assert.True(t, createdAt.Nullable)
	assert.Nil(t, createdAt.Default)

	score := class.Properties[2]
	require.NotNil(t, score.Default)
	assert.Equal(t, "0", *score.Default)
	assert.Empty(t, class.Unmapped())
}

func TestBuild_EmptyStringDefaultIsPresent(t *testing.T) {
	table := schema.Table{
		Name:    "notes",
		Columns: []schema.Row{{TableName: "notes", ColumnName: "body", SQLType: "text", DefaultValue: strPtr("")}},
	}

	class := Build(table, mysqlMapper(t))
	require.NotNil(t, class.Properties[0].Default)
	assert.Equal(t, "", *class.Properties[0].Default)
	assert.True(t, class.Properties[0].HasDefault())
}

func TestProperty_HasDefault(t *testing.T) {
	assert.False(t, Property{}.HasDefault())
	assert.True(t, Property{Default: strPtr("0")}.HasDefault())
}

func TestBuild_Duplicates(t *testing.T) {
	table := schema.Table{
		Name: "posts",
		Columns: []schema.Row{
			{TableName: "posts", ColumnName: "tag", SQLType: "varchar"},
			{TableName: "posts", ColumnName: "user_id", SQLType: "int"},
			{TableName: "posts", ColumnName: "tags", SQLType: "json"},
			{TableName: "posts", ColumnName: "userId", SQLType: "int"},
			{TableName: "posts", ColumnName: "title", SQLType: "varchar"},
		},
	}

	class := Build(table, mysqlMapper(t))

	require.Len(t, class.Properties, 5)
	assert.Equal(t, []Duplicate{
		{Property: "tag", Columns: []string{"tag", "tags"}},
		{Property: "userId", Columns: []string{"user_id", "userId"}},
	}, class.Duplicates())
}

func TestBuild_NoDuplicates(t *testing.T) {
	table := schema.Table{
		Name:    "users",
		Columns: []schema.Row{{ColumnName: "id", SQLType: "int"}, {ColumnName: "email", SQLType: "varchar"}},
	}
	assert.Empty(t, Build(table, mysqlMapper(t)).Duplicates())
}

func TestBuild_InvalidIdentifiers(t *testing.T) {
	table := schema.Table{
		Name: "2024_sales",
		Columns: []schema.Row{
			{TableName: "2024_sales", ColumnName: "$", SQLType: "int"},
			{TableName: "2024_sales", ColumnName: "1st_place", SQLType: "varchar"},
		},
	}

	class := Build(table, mysqlMapper(t))

	assert.Equal(t, "_2024Sale", class.Name)
	assert.Equal(t, "_", class.Properties[0].Name)
	assert.Equal(t, "_1stPlace", class.Properties[1].Name)
}

func TestBuild_UnmappedType(t *testing.T) {
	table := schema.Table{
		Name: "places",
		Columns: []schema.Row{
			{TableName: "places", ColumnName: "id", SQLType: "int"},
			{TableName: "places", ColumnName: "location", SQLType: "geometry"},
		},
	}

	class := Build(table, mysqlMapper(t))

	assert.Equal(t, "Place", class.Name)
	unmapped := class.Unmapped()
	require.Len(t, unmapped, 1)
	assert.Equal(t, "location", unmapped[0].Name)
	assert.Equal(t, typemap.Unknown, unmapped[0].Kind)
}

func TestBuild_NoColumns(t *testing.T) {
	class := Build(schema.Table{Name: "empties"}, mysqlMapper(t))
	assert.Equal(t, "Empty", class.Name)
	assert.NotNil(t, class.Properties)
	assert.Empty(t, class.Properties)
}
