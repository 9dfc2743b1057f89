package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/squill/internal/cli/output"
	"github.com/leapstack-labs/squill/pkg/ast"
	"github.com/leapstack-labs/squill/pkg/parser"
)

// ParseOptions holds options for the parse command.
type ParseOptions struct {
	Expression string // Inline SQL instead of files
	JSON       bool   // Emit the AST as JSON
}

// fileResult is the parse outcome for one input file.
type fileResult struct {
	path  string
	stmts []ast.Statement
	err   error
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}
	cmd := &cobra.Command{
		Use:   "parse [files...]",
		Short: "Parse SQL files and report syntax errors",
		Long: `Parse SQL files with the configured dialect. Files are parsed
concurrently; the first syntax error per file is reported with its
line and column. With --json the syntax tree is printed.`,
		Example: `  # Check every migration
  squill parse migrations/*.sql

  # Parse inline SQL as MySQL
  squill -d mysql parse -e "SELECT 1"

  # Dump the syntax tree
  squill parse -e "SELECT a FROM t" --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.Expression, "expression", "e", "", "Parse this SQL string instead of files")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print the syntax tree as JSON")
	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	render := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr())
	d, err := selectedDialect()
	if err != nil {
		return err
	}

	if opts.Expression != "" {
		stmts, err := parser.Parse(opts.Expression, d)
		if err != nil {
			return err
		}
		return emit(cmd, stmts, opts.JSON)
	}

	if len(args) == 0 {
		return fmt.Errorf("no input: pass files or use -e")
	}

	// Parse the inputs concurrently; each file is independent.
	results := make([]fileResult, len(args))
	var mu sync.Mutex
	g := &errgroup.Group{}
	g.SetLimit(runtime.NumCPU())

	for i, path := range args {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			var stmts []ast.Statement
			if err == nil {
				stmts, err = parser.Parse(string(data), d)
			}
			mu.Lock()
			results[i] = fileResult{path: path, stmts: stmts, err: err}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].path < results[j].path })
	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			render.Errorf("%s: %v", r.path, r.err)
			continue
		}
		if cfg.Verbose {
			render.Printf("%s: %d statements\n", r.path, len(r.stmts))
		}
		if opts.JSON {
			if err := emit(cmd, r.stmts, true); err != nil {
				return err
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to parse", failed, len(results))
	}
	render.Successf("%d files parsed", len(results))
	return nil
}

// emit prints statements as JSON or as canonical SQL.
func emit(cmd *cobra.Command, stmts []ast.Statement, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(stmts)
	}
	for _, stmt := range stmts {
		fmt.Fprintln(cmd.OutOrStdout(), formatStatement(stmt))
	}
	return nil
}
