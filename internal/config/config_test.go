package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/modelgen/internal/database"
	"github.com/koustreak/modelgen/internal/errs"
	"github.com/koustreak/modelgen/internal/filestore"
)

const sampleYAML = `
driver: postgres
connection:
  host: db.internal
  port: 5433
  user: reader
  password: s3cret
  database: shop
  schema: sales
  sslmode: require
  connect_timeout: 3s
output: ./generated
namespace: Shop.Models
strict_types: true
storage:
  provider: minio
  endpoint: localhost:9000
  access_key: minio
  secret_key: minio123
  bucket: models
  prefix: shop/v1
log:
  level: debug
  format: json
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func noEnv(string) (string, bool) { return "", false }

func mapEnv(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestLoad_File(t *testing.T) {
	cfg, err := Load(writeFile(t, "modelgen.yaml", sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Driver)
	assert.Equal(t, Connection{
		Host:           "db.internal",
		Port:           5433,
		User:           "reader",
		Password:       "s3cret",
		Database:       "shop",
		Schema:         "sales",
		SSLMode:        "require",
		ConnectTimeout: 3 * time.Second,
	}, cfg.Connection)
	assert.Equal(t, "./generated", cfg.Output)
	assert.Equal(t, "Shop.Models", cfg.Namespace)
	assert.Equal(t, ".ts", cfg.Extension, "unset keys keep their defaults")
	assert.True(t, cfg.StrictTypes)
	assert.Equal(t, "minio", cfg.Storage.Provider)
	assert.Equal(t, "shop/v1", cfg.Storage.Prefix)
	assert.Equal(t, Log{Level: "debug", Format: "json"}, cfg.Log)
	require.NoError(t, cfg.Validate())
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	_, err := Load(writeFile(t, "modelgen.yaml", "driver: mysql\nnamespcae: Typo\n"))
	require.Error(t, err)
	assert.True(t, errs.IsInvalidConfig(err))
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, "modelgen.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default().Output, cfg.Output)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errs.IsInvalidConfig(err))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("MODELGEN_DRIVER", "mysql")
	t.Setenv("MODELGEN_PORT", "3307")
	t.Setenv("MODELGEN_DRY_RUN", "true")

	cfg, err := Load(writeFile(t, "modelgen.yaml", sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Driver)
	assert.Equal(t, 3307, cfg.Connection.Port)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, "db.internal", cfg.Connection.Host)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(mapEnv(map[string]string{
		"MODELGEN_DSN":               "postgres://u:p@h/db",
		"MODELGEN_CONNECT_TIMEOUT":   "250ms",
		"MODELGEN_NAMESPACE":         "Billing",
		"MODELGEN_STRICT_TYPES":      "1",
		"MODELGEN_STORAGE_PROVIDER":  "minio",
		"MODELGEN_STORAGE_USE_SSL":   "true",
		"MODELGEN_STORAGE_BUCKET":    "out",
		"MODELGEN_LOG_LEVEL":         "warn",
		"UNRELATED_STORAGE_PROVIDER": "s3",
	}))
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@h/db", cfg.Connection.DSN)
	assert.Equal(t, 250*time.Millisecond, cfg.Connection.ConnectTimeout)
	assert.Equal(t, "Billing", cfg.Namespace)
	assert.True(t, cfg.StrictTypes)
	assert.Equal(t, "minio", cfg.Storage.Provider)
	assert.True(t, cfg.Storage.UseSSL)
	assert.Equal(t, "out", cfg.Storage.Bucket)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"port", "MODELGEN_PORT", "fifty"},
		{"bool", "MODELGEN_DRY_RUN", "maybe"},
		{"duration", "MODELGEN_CONNECT_TIMEOUT", "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Default().ApplyEnv(mapEnv(map[string]string{tt.key: tt.val}))
			require.Error(t, err)
			assert.True(t, errs.IsInvalidConfig(err))
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestApplyEnv_NothingSet(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(noEnv))
	assert.Equal(t, Default(), cfg)
}

func TestLoadDotEnv(t *testing.T) {
	const key = "MODELGEN_DOTENV_PROBE"
	t.Cleanup(func() { os.Unsetenv(key) })

	path := writeFile(t, ".env", key+"=from-dotenv\n")
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-dotenv", os.Getenv(key))

	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")), "missing file is ignored")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid local",
			mutate: func(c *Config) { c.Driver = "mysql" },
		},
		{
			name:    "missing driver",
			mutate:  func(c *Config) {},
			wantErr: "driver is required",
		},
		{
			name:    "unsupported driver",
			mutate:  func(c *Config) { c.Driver = "oracle" },
			wantErr: `unsupported driver "oracle"`,
		},
		{
			name: "port out of range",
			mutate: func(c *Config) {
				c.Driver = "mysql"
				c.Connection.Port = 70000
			},
			wantErr: "out of range",
		},
		{
			name: "local without output",
			mutate: func(c *Config) {
				c.Driver = "sqlite"
				c.Output = ""
			},
			wantErr: "output directory is required",
		},
		{
			name: "dry run needs no output",
			mutate: func(c *Config) {
				c.Driver = "sqlite"
				c.Output = ""
				c.DryRun = true
			},
		},
		{
			name: "minio without bucket",
			mutate: func(c *Config) {
				c.Driver = "postgres"
				c.Storage = Storage{Provider: ProviderMinIO, Endpoint: "localhost:9000"}
			},
			wantErr: "storage.bucket is required",
		},
		{
			name: "unknown provider",
			mutate: func(c *Config) {
				c.Driver = "postgres"
				c.Storage.Provider = "ftp"
			},
			wantErr: `unsupported storage provider "ftp"`,
		},
		{
			name: "unknown log format",
			mutate: func(c *Config) {
				c.Driver = "mssql"
				c.Log.Format = "xml"
			},
			wantErr: "unsupported log format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errs.IsInvalidConfig(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConversions(t *testing.T) {
	cfg, err := Load(writeFile(t, "modelgen.yaml", sampleYAML))
	require.NoError(t, err)

	db := cfg.Database()
	assert.Equal(t, database.DriverPostgres, db.Driver)
	assert.Equal(t, "db.internal", db.Host)
	assert.Equal(t, "sales", db.Schema)
	assert.Equal(t, int32(1), db.MaxConns)
	assert.Equal(t, 3*time.Second, db.ConnectTimeout)

	gen := cfg.Generator()
	assert.Equal(t, database.DriverPostgres, gen.Driver)
	assert.Equal(t, "Shop.Models", gen.Namespace)
	assert.True(t, gen.Strict)

	store := cfg.FileStore()
	require.NotNil(t, store)
	assert.Equal(t, filestore.ProviderMinIO, store.Provider)
	assert.Equal(t, "models", store.Bucket)

	cfg.Storage.Provider = ProviderLocal
	assert.Nil(t, cfg.FileStore())
}
