package config

import (
	"strconv"
	"time"

	"github.com/koustreak/modelgen/internal/errs"
)

// EnvPrefix is prepended to every override variable.
const EnvPrefix = "MODELGEN"

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// EnvKey returns the environment variable name for key.
func EnvKey(key string) string {
	return EnvPrefix + "_" + key
}

// ApplyEnv overrides fields from MODELGEN_* variables found through lookup.
// A set but unparsable value is an error.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	env := envReader{lookup: lookup}

	env.str("DRIVER", &c.Driver)
	env.str("DSN", &c.Connection.DSN)
	env.str("HOST", &c.Connection.Host)
	env.integer("PORT", &c.Connection.Port)
	env.str("USER", &c.Connection.User)
	env.str("PASSWORD", &c.Connection.Password)
	env.str("DATABASE", &c.Connection.Database)
	env.str("SCHEMA", &c.Connection.Schema)
	env.str("SSLMODE", &c.Connection.SSLMode)
	env.duration("CONNECT_TIMEOUT", &c.Connection.ConnectTimeout)

	env.str("OUTPUT", &c.Output)
	env.str("NAMESPACE", &c.Namespace)
	env.str("EXTENSION", &c.Extension)
	env.boolean("DRY_RUN", &c.DryRun)
	env.boolean("STRICT_TYPES", &c.StrictTypes)

	env.str("STORAGE_PROVIDER", &c.Storage.Provider)
	env.str("STORAGE_ENDPOINT", &c.Storage.Endpoint)
	env.str("STORAGE_ACCESS_KEY", &c.Storage.AccessKey)
	env.str("STORAGE_SECRET_KEY", &c.Storage.SecretKey)
	env.boolean("STORAGE_USE_SSL", &c.Storage.UseSSL)
	env.str("STORAGE_REGION", &c.Storage.Region)
	env.str("STORAGE_BUCKET", &c.Storage.Bucket)
	env.str("STORAGE_PREFIX", &c.Storage.Prefix)

	env.str("LOG_LEVEL", &c.Log.Level)
	env.str("LOG_FORMAT", &c.Log.Format)

	return env.err
}

// envReader keeps the first parse error so ApplyEnv reads as a flat list.
type envReader struct {
	lookup LookupFunc
	err    error
}

func (r *envReader) get(key string) (string, string, bool) {
	name := EnvKey(key)
	v, ok := r.lookup(name)
	return name, v, ok
}

func (r *envReader) str(key string, dst *string) {
	if _, v, ok := r.get(key); ok {
		*dst = v
	}
}

func (r *envReader) integer(key string, dst *int) {
	name, v, ok := r.get(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(name, v, err)
		return
	}
	*dst = n
}

func (r *envReader) boolean(key string, dst *bool) {
	name, v, ok := r.get(key)
	if !ok || v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(name, v, err)
		return
	}
	*dst = b
}

func (r *envReader) duration(key string, dst *time.Duration) {
	name, v, ok := r.get(key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(name, v, err)
		return
	}
	*dst = d
}

func (r *envReader) fail(name, value string, cause error) {
	if r.err == nil {
		r.err = errs.Wrap(errs.ErrKindInvalidConfig, name+"="+strconv.Quote(value)+" is not valid", cause)
	}
}
