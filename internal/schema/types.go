package schema

// Row is one column of one table as reported by a metadata query.
type Row struct {
	TableName    string
	ColumnName   string
	SQLType      string // vendor token: int, varchar, timestamptz, ...
	IsNullable   bool
	DefaultValue *string // nil if the column has no default
}

// Table is the ordered set of rows that belong to one table.
type Table struct {
	Name    string
	Columns []Row
}
