package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/squill/pkg/parser"
	"github.com/leapstack-labs/squill/pkg/token"
)

// NewTokensCommand creates the tokens command.
func NewTokensCommand() *cobra.Command {
	var expression string
	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Dump the token stream for SQL input",
		Long: `Run only the tokenizer and print each token with its type,
literal, and source position. Useful for debugging dialect
tokenization rules.`,
		Example: `  squill tokens query.sql
  squill -d postgres tokens -e "SELECT x'CAFE', $1"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := selectedDialect()
			if err != nil {
				return err
			}

			input := expression
			if input == "" {
				if len(args) != 1 {
					return fmt.Errorf("no input: pass a file or use -e")
				}
				data, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				input = string(data)
			}

			tokens, err := parser.NewLexer(input, d).Tokenize()
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"#", "Type", "Literal", "Line", "Col"})
			for i, tok := range tokens {
				if tok.Type == token.EOF {
					break
				}
				t.AppendRow(table.Row{i + 1, tok.Type.String(), tok.Literal, tok.Pos.Line, tok.Pos.Column})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVarP(&expression, "expression", "e", "", "Tokenize this SQL string instead of a file")
	return cmd
}
