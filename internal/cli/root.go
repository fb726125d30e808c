// Package cli wires the modelgen commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/koustreak/modelgen/internal/errs"
	"github.com/koustreak/modelgen/internal/version"
)

type globalOptions struct {
	configPath string
	envFile    string
	logLevel   string
	logFormat  string
}

// RootCmd returns the modelgen command tree.
func RootCmd() *cobra.Command {
	g := &globalOptions{}

	root := &cobra.Command{
		Use:     "modelgen",
		Short:   "Generate TypeScript model classes from a database schema",
		Version: version.String(),
		Long: `modelgen reads table and column metadata from a MySQL, SQL Server,
PostgreSQL or SQLite catalog and writes one TypeScript class per table.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Config file (default ./modelgen.yaml if present)")
	root.PersistentFlags().StringVar(&g.envFile, "env-file", ".env", "Environment file loaded before MODELGEN_* overrides")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "", "Log format (console, json)")

	root.AddCommand(GenerateCmd(g))
	root.AddCommand(PreviewCmd(g))
	root.AddCommand(TypesCmd())
	root.AddCommand(VersionCmd())

	return root
}

// VersionCmd prints build information.
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the modelgen version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// ExitCode maps a command error to the process exit status: 0 on success,
// 2 when the run completed but some files could not be written, 1 otherwise.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case !errs.Fatal(err):
		return 2
	default:
		return 1
	}
}
