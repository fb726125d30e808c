package mysql

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql" // register driver

	"github.com/koustreak/modelgen/internal/database"
	"github.com/koustreak/modelgen/internal/errs"
	"github.com/koustreak/modelgen/internal/schema"
)

// columnsQuery lists every column of every base table in one schema.
// An empty schema argument falls back to the connection's default database.
const columnsQuery = `
	SELECT
		c.table_name,
		c.column_name,
		c.data_type,
		c.is_nullable = 'YES' AS is_nullable,
		c.column_default
	FROM information_schema.columns c
	JOIN information_schema.tables t
	  ON t.table_schema = c.table_schema
	 AND t.table_name   = c.table_name
	WHERE c.table_schema = COALESCE(NULLIF(?, ''), DATABASE())
	  AND t.table_type   = 'BASE TABLE'
	ORDER BY c.table_name, c.ordinal_position`

// Source implements schema.Source for MySQL using database/sql.
type Source struct {
	sqlDB *sql.DB
	cfg   *database.Config
}

var _ schema.Source = (*Source)(nil)

// New creates a new MySQL source (does not connect yet)
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
func (s *Source) Columns(ctx context.Context) ([]schema.Row, error) {
	if s.sqlDB == nil {
		return nil, errs.New(errs.ErrKindConnectionFailed, "mysql source is not connected")
	}

	rows, err := s.sqlDB.QueryContext(ctx, columnsQuery, s.cfg.SchemaOr(s.cfg.Database))
	if err != nil {
		return nil, mapError(err, "metadata query failed")
	}
	return database.ScanColumns(&mysqlRows{rows: rows})
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

// --- mysqlRows wraps *sql.Rows ---

type mysqlRows struct{ rows *sql.Rows }

func (r *mysqlRows) Next() bool             { return r.rows.Next() }
func (r *mysqlRows) Scan(dest ...any) error { return mapError(r.rows.Scan(dest...), "scan failed") }
func (r *mysqlRows) Close()                 { _ = r.rows.Close() }
func (r *mysqlRows) Err() error             { return mapError(r.rows.Err(), "row iteration failed") }
