package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/koustreak/modelgen/internal/config"
	"github.com/koustreak/modelgen/internal/preview"
	"github.com/koustreak/modelgen/internal/schema"
)

type previewOptions struct {
	addr   string
	driver string
	dsn    string
}

// PreviewCmd serves rendered models over HTTP without writing files.
func PreviewCmd(g *globalOptions) *cobra.Command {
	opts := &previewOptions{}

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Serve generated models over HTTP",
		Long: `Serve generated models over HTTP. Every request runs a fresh dry run
against the database.

  GET /healthz          liveness
  GET /models           JSON list of models
  GET /models/{class}   TypeScript source of one model`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(g, func(c *config.Config) {
				stringFlag(cmd, "driver", &c.Driver, opts.driver)
				stringFlag(cmd, "dsn", &c.Connection.DSN, opts.dsn)
				c.DryRun = true
			})
			if err != nil {
				return err
			}
			log := newLogger(cfg, cmd.ErrOrStderr())

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			open := func() (schema.Source, error) { return openSource(cfg) }
			return preview.New(cfg.Generator(), open, log).ListenAndServe(ctx, opts.addr)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVarP(&opts.driver, "driver", "d", "", "Database driver (mysql, mssql, postgres, sqlite)")
	cmd.Flags().StringVar(&opts.dsn, "dsn", "", "Data source name")

	return cmd
}
