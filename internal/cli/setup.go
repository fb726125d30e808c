package cli

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/koustreak/modelgen/internal/config"
	"github.com/koustreak/modelgen/internal/logger"
	"github.com/koustreak/modelgen/internal/schema"
	"github.com/koustreak/modelgen/internal/source"
)

// loadConfig resolves settings in order: config file, .env, MODELGEN_*
// variables, then whatever override applies from command flags.
func loadConfig(g *globalOptions, override func(*config.Config)) (*config.Config, error) {
	if err := config.LoadDotEnv(g.envFile); err != nil {
		return nil, err
	}

	path := g.configPath
	if path == "" {
		path = config.DefaultFile
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.logFormat != "" {
		cfg.Log.Format = g.logFormat
	}
	if override != nil {
		override(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, out io.Writer) *logger.Logger {
	lc := logger.DefaultConfig()
	lc.Level = cfg.Log.Level
	if cfg.Log.Format != "" {
		lc.Format = cfg.Log.Format
	}
	lc.Output = out
	return logger.New(lc)
}

// openSource returns the source for cfg with connection.connect_timeout
// applied to Connect.
func openSource(cfg *config.Config) (schema.Source, error) {
	src, err := source.Open(cfg.Database())
	if err != nil {
		return nil, err
	}
	return &connectTimeout{Source: src, timeout: cfg.Connection.ConnectTimeout}, nil
}

// connectTimeout bounds Connect only. The metadata query itself is not
// limited.
type connectTimeout struct {
	schema.Source
	timeout time.Duration
}

func (s *connectTimeout) Connect(ctx context.Context) error {
	if s.timeout <= 0 {
		return s.Source.Connect(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.Source.Connect(ctx)
}

// stringFlag copies a flag into dst only when the user set it.
func stringFlag(cmd *cobra.Command, name string, dst *string, val string) {
	if cmd.Flags().Changed(name) {
		*dst = val
	}
}

func boolFlag(cmd *cobra.Command, name string, dst *bool, val bool) {
	if cmd.Flags().Changed(name) {
		*dst = val
	}
}
