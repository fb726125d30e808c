// Package config loads modelgen settings from a YAML file, an optional .env
// file and MODELGEN_* environment variables, in that order of precedence
// (later wins). CLI flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v3"

	"github.com/koustreak/modelgen/internal/database"
	"github.com/koustreak/modelgen/internal/errs"
	"github.com/koustreak/modelgen/internal/filestore"
	"github.com/koustreak/modelgen/internal/generator"
	"github.com/koustreak/modelgen/internal/render"
)

// DefaultFile is the config file looked up when none is given.
const DefaultFile = "modelgen.yaml"

// Storage providers. ProviderLocal writes to Config.Output on disk.
const (
	ProviderLocal = "local"
	ProviderMinIO = string(filestore.ProviderMinIO)
)

// Config mirrors modelgen.yaml.
type Config struct {
	Driver      string     `yaml:"driver"`
	Connection  Connection `yaml:"connection"`
	Output      string     `yaml:"output"`
	Namespace   string     `yaml:"namespace"`
	Extension   string     `yaml:"extension"`
	DryRun      bool       `yaml:"dry_run"`
	StrictTypes bool       `yaml:"strict_types"`
	Storage     Storage    `yaml:"storage"`
	Log         Log        `yaml:"log"`
}

// Connection describes how to reach the database.
type Connection struct {
	DSN            string        `yaml:"dsn"`
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	User           string        `yaml:"user"`
	Password       string        `yaml:"password"`
	Database       string        `yaml:"database"`
	Schema         string        `yaml:"schema"`
	SSLMode        string        `yaml:"sslmode"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// Storage selects where generated files go.
type Storage struct {
	Provider  string `yaml:"provider"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
}

// Log configures the zerolog logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the settings used when nothing else is configured.
func Default() *Config {
	return &Config{
		Output:    "./models",
		Namespace: render.DefaultNamespace,
		Extension: generator.DefaultExtension,
		Connection: Connection{
			ConnectTimeout: 10 * time.Second,
		},
		Storage: Storage{Provider: ProviderLocal},
		Log:     Log{Level: "info", Format: "console"},
	}
}

// Load reads path over the defaults and then applies environment overrides.
// An empty path skips the file. A missing file is only tolerated when path
// is DefaultFile.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			if !(path == DefaultFile && errors.Is(err, fs.ErrNotExist)) {
				return nil, err
			}
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errs.Wrap(errs.ErrKindInvalidConfig, fmt.Sprintf("config file %s not found", path), err)
		}
		return errs.Wrap(errs.ErrKindInvalidConfig, fmt.Sprintf("open %s", path), err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return errs.Wrap(errs.ErrKindInvalidConfig, fmt.Sprintf("parse %s", path), err)
	}
	return nil
}

// LoadDotEnv loads KEY=value pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errs.Wrap(errs.ErrKindInvalidConfig, fmt.Sprintf("load %s", path), err)
	}
	return nil
}

// Validate rejects unsupported drivers and storage providers and checks
// that each provider has what it needs.
func (c *Config) Validate() error {
	if c.Driver == "" {
		return errs.New(errs.ErrKindInvalidConfig, "driver is required")
	}
	if !database.Driver(c.Driver).Valid() {
		return errs.Newf(errs.ErrKindInvalidConfig, "unsupported driver %q (want one of %v)", c.Driver, database.Drivers())
	}
	if c.Connection.Port < 0 || c.Connection.Port > 65535 {
		return errs.Newf(errs.ErrKindInvalidConfig, "connection.port %d out of range", c.Connection.Port)
	}
	if c.Connection.ConnectTimeout < 0 {
		return errs.New(errs.ErrKindInvalidConfig, "connection.connect_timeout must not be negative")
	}

	switch c.Storage.Provider {
	case "", ProviderLocal:
		if c.Output == "" && !c.DryRun {
			return errs.New(errs.ErrKindInvalidConfig, "output directory is required")
		}
	case ProviderMinIO:
		if c.Storage.Endpoint == "" {
			return errs.New(errs.ErrKindInvalidConfig, "storage.endpoint is required for minio")
		}
		if c.Storage.Bucket == "" {
			return errs.New(errs.ErrKindInvalidConfig, "storage.bucket is required for minio")
		}
	default:
		return errs.Newf(errs.ErrKindInvalidConfig, "unsupported storage provider %q", c.Storage.Provider)
	}

	switch c.Log.Format {
	case "", "console", "json":
	default:
		return errs.Newf(errs.ErrKindInvalidConfig, "unsupported log format %q", c.Log.Format)
	}
	return nil
}

// Database returns the connection settings for the schema source.
func (c *Config) Database() *database.Config {
	cfg := database.DefaultConfig(database.Driver(c.Driver), c.Connection.DSN)
	cfg.Host = c.Connection.Host
	cfg.Port = c.Connection.Port
	cfg.User = c.Connection.User
	cfg.Password = c.Connection.Password
	cfg.Database = c.Connection.Database
	cfg.Schema = c.Connection.Schema
	cfg.SSLMode = c.Connection.SSLMode
	cfg.ConnectTimeout = c.Connection.ConnectTimeout
	return cfg
}

// Generator returns the run settings.
func (c *Config) Generator() generator.Config {
	return generator.Config{
		Driver:    database.Driver(c.Driver),
		Namespace: c.Namespace,
		Extension: c.Extension,
		DryRun:    c.DryRun,
		Strict:    c.StrictTypes,
	}
}

// FileStore returns the object store settings, or nil for local output.
func (c *Config) FileStore() *filestore.Config {
	if c.Storage.Provider != ProviderMinIO {
		return nil
	}
	cfg := filestore.DefaultConfig(c.Storage.Endpoint, c.Storage.AccessKey, c.Storage.SecretKey)
	cfg.UseSSL = c.Storage.UseSSL
	cfg.Region = c.Storage.Region
	cfg.Bucket = c.Storage.Bucket
	return cfg
}
