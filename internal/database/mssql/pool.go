package mssql

import (
	"database/sql"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/koustreak/modelgen/internal/database"
	"github.com/koustreak/modelgen/internal/errs"
)

const (
	defaultMaxOpenConns    = 1
	defaultConnMaxLifetime = 30 * time.Minute
	defaultHost            = "localhost"
	defaultPort            = 1433
)

// buildPool configures and returns a *sql.DB with pool settings
func buildPool(cfg *database.Config) (*sql.DB, error) {
	db, err := sql.Open("sqlserver", buildDSN(cfg))
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidConfig, "failed to open sqlserver", err)
	}

	maxOpen := int(cfg.MaxConns)
	if maxOpen == 0 {
		maxOpen = defaultMaxOpenConns
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)

	return db, nil
}

// buildDSN constructs a sqlserver:// URL. An explicit DSN is returned untouched.
func buildDSN(cfg *database.Config) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}

	host := cfg.Host
	if host == "" {
		host = defaultHost
	}
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}

	query := url.Values{}
	if cfg.Database != "" {
		query.Add("database", cfg.Database)
	}
	if cfg.ConnectTimeout > 0 {
		query.Add("connection timeout", strconv.Itoa(int(cfg.ConnectTimeout/time.Second)))
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(host, strconv.Itoa(port)),
		RawQuery: query.Encode(),
	}
	return u.String()
}
