package mssql

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/microsoft/go-mssqldb" // register "sqlserver" driver

	"github.com/koustreak/modelgen/internal/database"
	"github.com/koustreak/modelgen/internal/errs"
	"github.com/koustreak/modelgen/internal/schema"
)

const defaultSchema = "dbo"

// columnsQuery lists every column of every base table in one schema.
const columnsQuery = `
	SELECT
		c.TABLE_NAME,
		c.COLUMN_NAME,
		c.DATA_TYPE,
		CAST(CASE WHEN c.IS_NULLABLE = 'YES' THEN 1 ELSE 0 END AS bit) AS IS_NULLABLE,
		c.COLUMN_DEFAULT
	FROM INFORMATION_SCHEMA.COLUMNS c
	JOIN INFORMATION_SCHEMA.TABLES t
	  ON t.TABLE_SCHEMA = c.TABLE_SCHEMA
	 AND t.TABLE_NAME   = c.TABLE_NAME
	WHERE c.TABLE_SCHEMA = @p1
	  AND t.TABLE_TYPE   = 'BASE TABLE'
	ORDER BY c.TABLE_NAME, c.ORDINAL_POSITION`

// Source implements schema.Source for SQL Server using database/sql
type Source struct {
	sqlDB *sql.DB
	cfg   *database.Config
}

var _ schema.Source = (*Source)(nil)

// New creates a new SQL Server source (does not connect yet)
func New(cfg *database.Config) *Source {
	return &Source{cfg: cfg}
}

// Connect opens and verifies the single introspection connection
func (s *Source) Connect(ctx context.Context) error {
	sqlDB, err := buildPool(s.cfg)
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return mapError(err, "ping failed")
	}
	s.sqlDB = sqlDB
	return nil
}

// Columns runs the metadata query once and returns every column row.
// SQL Server reports defaults wrapped in parentheses, e.g. ((0)); the
// wrapping is removed so defaults read the same as on other engines.
func (s *Source) Columns(ctx context.Context) ([]schema.Row, error) {
	if s.sqlDB == nil {
		return nil, errs.New(errs.ErrKindConnectionFailed, "mssql source is not connected")
	}

	rows, err := s.sqlDB.QueryContext(ctx, columnsQuery, s.cfg.SchemaOr(defaultSchema))
	if err != nil {
		return nil, mapError(err, "metadata query failed")
	}

	result, err := database.ScanColumns(&mssqlRows{rows: rows})
	if err != nil {
		return nil, err
	}
	for i := range result {
		if d := result[i].DefaultValue; d != nil {
			unwrapped := unwrapDefault(*d)
			result[i].DefaultValue = &unwrapped
		}
	}
	return result, nil
}

// Close shuts down the connection pool
func (s *Source) Close(_ context.Context) error {
	if s.sqlDB == nil {
		return nil
	}
	err := s.sqlDB.Close()
	s.sqlDB = nil
	return mapError(err, "close failed")
}

// unwrapDefault strips balanced outer parentheses: ((0)) -> 0,
// (getdate()) -> getdate(), ('a') -> 'a'. (a)+(b) is left alone.
func unwrapDefault(v string) string {
	for len(v) >= 2 && v[0] == '(' && v[len(v)-1] == ')' && outerPairMatches(v) {
		v = strings.TrimSpace(v[1 : len(v)-1])
	}
	return v
}

// outerPairMatches reports whether the first '(' closes at the last byte.
func outerPairMatches(v string) bool {
	depth := 0
	inString := false
	for i := 0; i < len(v); i++ {
		switch c := v[i]; {
		case c == '\'':
			inString = !inString
		case inString:
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i == len(v)-1
			}
		}
	}
	return false
}

// --- mssqlRows wraps *sql.Rows ---

type mssqlRows struct{ rows *sql.Rows }

func (r *mssqlRows) Next() bool             { return r.rows.Next() }
func (r *mssqlRows) Scan(dest ...any) error { return mapError(r.rows.Scan(dest...), "scan failed") }
func (r *mssqlRows) Close()                 { _ = r.rows.Close() }
func (r *mssqlRows) Err() error             { return mapError(r.rows.Err(), "row iteration failed") }
