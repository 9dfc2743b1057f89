package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/squill/pkg/ast"
	"github.com/leapstack-labs/squill/pkg/format"
	"github.com/leapstack-labs/squill/pkg/parser"
)

func formatStatement(stmt ast.Statement) string {
	return format.Statement(stmt) + ";"
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand() *cobra.Command {
	var expression string
	cmd := &cobra.Command{
		Use:   "fmt [files...]",
		Short: "Rewrite SQL in canonical form",
		Long: `Parse SQL and print it back in canonical form: upper-case
keywords, normalised spacing and commas, original quoting and
literal forms preserved.`,
		Example: `  squill fmt query.sql
  squill -d duckdb fmt -e "select a,b, from t"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := selectedDialect()
			if err != nil {
				return err
			}

			if expression != "" {
				stmts, err := parser.Parse(expression, d)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), format.Statements(stmts))
				return nil
			}

			if len(args) == 0 {
				return fmt.Errorf("no input: pass files or use -e")
			}
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				stmts, err := parser.Parse(string(data), d)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), format.Statements(stmts))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&expression, "expression", "e", "", "Format this SQL string instead of files")
	return cmd
}
