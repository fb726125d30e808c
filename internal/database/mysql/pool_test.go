package mysql

import (
	"context"

	"testing"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/modelgen/internal/database"
	"github.com/koustreak/modelgen/internal/errs"
)

func TestBuildDSN_FromFields(t *testing.T) {
	dsn, err := buildDSN(&database.Config{
		Driver:         database.DriverMySQL,
		Host:           "db.internal",
		Port:           3307,
		User:           "modelgen",
		Password:       "s3cret",
		Database:       "shop",
		ConnectTimeout: 5 * time.Second,
	})
	require.NoError(t, err)

	parsed, err := gomysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "modelgen", parsed.User)
	assert.Equal(t, "s3cret", parsed.Passwd)
	assert.Equal(t, "tcp", parsed.Net)
	assert.Equal(t, "db.internal:3307", parsed.Addr)
	assert.Equal(t, "shop", parsed.DBName)
	assert.Equal(t, 5*time.Second, parsed.Timeout)
}

func TestBuildDSN_Defaults(t *testing.T) {
	dsn, err := buildDSN(&database.Config{Driver: database.DriverMySQL, User: "root"})
	require.NoError(t, err)

	parsed, err := gomysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "localhost:3306", parsed.Addr)
}

func TestBuildDSN_ExplicitDSNWins(t *testing.T) {
	const raw = "app:pw@tcp(127.0.0.1:3306)/inventory"

	dsn, err := buildDSN(&database.Config{DSN: raw, Host: "ignored", Database: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, raw, dsn)
}

func TestBuildDSN_InvalidDSN(t *testing.T) {
	_, err := buildDSN(&database.Config{DSN: "app:pw@tcp(127.0.0.1:3306"})
	require.Error(t, err)
	assert.True(t, errs.IsInvalidConfig(err))
}

func TestColumns_NotConnected(t *testing.T) {
	src := New(database.DefaultConfig(database.DriverMySQL, ""))

	_, err := src.Columns(context.Background())
	require.Error(t, err)
	assert.True(t, errs.IsConnectionFailed(err))
	assert.NoError(t, src.Close(context.Background()))
}
