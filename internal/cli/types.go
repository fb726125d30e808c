package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/koustreak/modelgen/internal/database"
	"github.com/koustreak/modelgen/internal/render"
	"github.com/koustreak/modelgen/internal/typemap"
)

// TypesCmd prints the type vocabulary of one driver.
func TypesCmd() *cobra.Command {
	var driver string

	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the column types a driver maps and their TypeScript types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mapper, err := typemap.For(database.Driver(driver))
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SQL TYPE\tKIND\tTYPESCRIPT")
			for _, tok := range mapper.Tokens() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", tok.Name, tok.Kind, render.TSType(tok.Kind))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d type(s) mapped for %s\n", len(mapper.Tokens()), mapper.Driver())
			return nil
		},
	}

	cmd.Flags().StringVarP(&driver, "driver", "d", "", "Database driver (mysql, mssql, postgres, sqlite)")
	_ = cmd.MarkFlagRequired("driver")

	return cmd
}
