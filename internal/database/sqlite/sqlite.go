// Package sqlite reads column metadata from a SQLite database file.
//
// SQLite has no information_schema; the catalog is sqlite_master joined
// with the pragma_table_info table-valued function. Declared types are
// free text, so they are lower-cased and stripped of any size suffix
// before they reach the type mapper: VARCHAR(255) becomes varchar.
package sqlite

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3" // register "sqlite3" driver

	"github.com/koustreak/modelgen/internal/database"
	"github.com/koustreak/modelgen/internal/errs"
	"github.com/koustreak/modelgen/internal/schema"
)

const columnsQuery = `
	SELECT
		m.name,
		p.name,
		p.type,
		p."notnull" = 0 AS is_nullable,
		p.dflt_value
	FROM sqlite_master m
	JOIN pragma_table_info(m.name) p
	WHERE m.type = 'table'
	  AND m.name NOT LIKE 'sqlite_%'
	ORDER BY m.name, p.cid`

// Source implements schema.Source for SQLite
type Source struct {
	sqlDB *sql.DB
	cfg   *database.Config
}

var _ schema.Source = (*Source)(nil)

// New creates a new SQLite source (does not open the file yet)
func New(cfg *database.Config) *Source {
	return &Source{cfg: cfg}
}

// Connect opens the database file read-only and verifies it
func (s *Source) Connect(ctx context.Context) error {
	dsn, err := buildDSN(s.cfg)
	if err != nil {
		return err
	}

	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return errs.Wrap(errs.ErrKindInvalidConfig, "failed to open sqlite", err)
	}
	sqlDB.SetMaxOpenConns(1)

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
		return nil, errs.New(errs.ErrKindConnectionFailed, "sqlite source is not connected")
	}

	rows, err := s.sqlDB.QueryContext(ctx, columnsQuery)
	if err != nil {
		return nil, mapError(err, "metadata query failed")
	}

	result, err := database.ScanColumns(&sqliteRows{rows: rows})
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].SQLType = normalizeType(result[i].SQLType)
	}
	return result, nil
}

// Close releases the database handle
func (s *Source) Close(_ context.Context) error {
	if s.sqlDB == nil {
		return nil
	}
	err := s.sqlDB.Close()
	s.sqlDB = nil
	return mapError(err, "close failed")
}

// buildDSN returns the explicit DSN, or a read-only file URI for the
// configured database path.
func buildDSN(cfg *database.Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	if cfg.Database == "" {
		return "", errs.New(errs.ErrKindInvalidConfig, "sqlite requires a database file path")
	}
	return "file:" + cfg.Database + "?mode=ro", nil
}

// normalizeType lower-cases a declared type and drops a trailing (n) or
// (n,m) size: "NUMERIC(10, 2)" -> "numeric".
func normalizeType(declared string) string {
	t := strings.ToLower(strings.TrimSpace(declared))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}

// --- sqliteRows wraps *sql.Rows ---

type sqliteRows struct{ rows *sql.Rows }

func (r *sqliteRows) Next() bool             { return r.rows.Next() }
func (r *sqliteRows) Scan(dest ...any) error { return mapError(r.rows.Scan(dest...), "scan failed") }
func (r *sqliteRows) Close()                 { _ = r.rows.Close() }
func (r *sqliteRows) Err() error             { return mapError(r.rows.Err(), "row iteration failed") }
