package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koustreak/modelgen/internal/database"
	"github.com/koustreak/modelgen/internal/errs"
	"github.com/koustreak/modelgen/internal/schema"
)

const defaultSchema = "public"

// columnsQuery lists every column of every base table in one schema.
// udt_name carries the short type token (int4, varchar, timestamptz) rather
// than the SQL-standard spelling in data_type.
const columnsQuery = `
	SELECT
		c.table_name::text,
		c.column_name::text,
		c.udt_name::text,
		c.is_nullable = 'YES' AS is_nullable,
		c.column_default::text
	FROM information_schema.columns c
	JOIN information_schema.tables t
	  ON t.table_schema = c.table_schema
	 AND t.table_name   = c.table_name
	WHERE c.table_schema = $1
	  AND t.table_type   = 'BASE TABLE'
	ORDER BY c.table_name, c.ordinal_position`

// Source implements schema.Source for PostgreSQL using pgxpool
type Source struct {
	pool *pgxpool.Pool
	cfg  *database.Config
}

var _ schema.Source = (*Source)(nil)

// New creates a new Postgres source (does not connect yet)
func New(cfg *database.Config) *Source {
	return &Source{cfg: cfg}
}

// Connect establishes the pool and verifies it with a ping
func (s *Source) Connect(ctx context.Context) error {
	pool, err := buildPool(ctx, s.cfg)
	if err != nil {
		return err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return mapError(err, "ping failed")
	}
	s.pool = pool
	return nil
}

// Columns runs the metadata query once and returns every column row.
func (s *Source) Columns(ctx context.Context) ([]schema.Row, error) {
	if s.pool == nil {
		return nil, errs.New(errs.ErrKindConnectionFailed, "postgres source is not connected")
	}

	rows, err := s.pool.Query(ctx, columnsQuery, s.cfg.SchemaOr(defaultSchema))
	if err != nil {
		return nil, mapError(err, "metadata query failed")
	}
	return database.ScanColumns(&pgRows{rows: rows})
}

// Close shuts down the connection pool
func (s *Source) Close(_ context.Context) error {
	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}
	return nil
}

// --- pgRows wraps pgx.Rows ---

type pgRows struct{ rows pgx.Rows }

func (r *pgRows) Next() bool             { return r.rows.Next() }
func (r *pgRows) Scan(dest ...any) error { return mapError(r.rows.Scan(dest...), "scan failed") }
func (r *pgRows) Close()                 { r.rows.Close() }
func (r *pgRows) Err() error             { return mapError(r.rows.Err(), "row iteration failed") }
