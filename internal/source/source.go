// Package source selects the schema.Source implementation for a driver.
package source

import (
	"github.com/koustreak/modelgen/internal/database"
	"github.com/koustreak/modelgen/internal/database/mssql"
	"github.com/koustreak/modelgen/internal/database/mysql"
	"github.com/koustreak/modelgen/internal/database/postgres"
	"github.com/koustreak/modelgen/internal/database/sqlite"
	"github.com/koustreak/modelgen/internal/errs"
	"github.com/koustreak/modelgen/internal/schema"
)

// Open returns an unconnected source for cfg.Driver. An unsupported driver
// is rejected before any I/O.
func Open(cfg *database.Config) (schema.Source, error) {
	if cfg == nil {
		return nil, errs.New(errs.ErrKindInvalidConfig, "database config is required")
	}

	switch cfg.Driver {
	case database.DriverMySQL:
		return mysql.New(cfg), nil
	case database.DriverMSSQL:
		return mssql.New(cfg), nil
	case database.DriverPostgres:
		return postgres.New(cfg), nil
	case database.DriverSQLite:
		return sqlite.New(cfg), nil
	default:
		return nil, errs.Newf(errs.ErrKindInvalidConfig, "unsupported driver %q", cfg.Driver)
	}
}
