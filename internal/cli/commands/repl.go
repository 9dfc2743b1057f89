package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/squill/pkg/dialect"
	"github.com/leapstack-labs/squill/pkg/format"
	"github.com/leapstack-labs/squill/pkg/parser"
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactively parse and print SQL",
		Long: `Read SQL statements interactively, parse them with the current
dialect, and print the canonical rendering. Statements may span
lines and end with a semicolon.

Dot-commands:
  .dialect [name]   show or switch the dialect
  .help             show this help
  .quit             exit`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd)
		},
	}
}

func runREPL(cmd *cobra.Command) error {
	d, err := selectedDialect()
	if err != nil {
		return err
	}

	completer := readline.NewPrefixCompleter(
		readline.PcItem(".dialect"),
		readline.PcItem(".help"),
		readline.PcItem(".quit"),
	)
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "squill> ",
		HistoryFile:     ".squill_history",
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "squill REPL (dialect: %s)\n", d.Name())
	fmt.Fprintln(out, "Type .help for commands, .quit to exit")

	var buffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buffer.Reset()
			rl.SetPrompt("squill> ")
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") && buffer.Len() == 0 {
			switch {
			case line == ".quit" || line == ".exit":
				return nil
			case line == ".help":
				fmt.Fprintln(out, ".dialect [name]   show or switch the dialect")
				fmt.Fprintln(out, ".quit             exit")
			case line == ".dialect":
				fmt.Fprintf(out, "dialect: %s (known: %s)\n", d.Name(), strings.Join(dialect.List(), ", "))
			case strings.HasPrefix(line, ".dialect "):
				name := strings.TrimSpace(strings.TrimPrefix(line, ".dialect"))
				next, ok := dialect.Get(name)
				if !ok {
					fmt.Fprintf(out, "unknown dialect %q\n", name)
					continue
				}
				d = next
				fmt.Fprintf(out, "dialect: %s\n", d.Name())
			default:
				fmt.Fprintf(out, "unknown command %q\n", line)
			}
			continue
		}

		buffer.WriteString(line)
		buffer.WriteString("\n")
		if !strings.HasSuffix(line, ";") {
			rl.SetPrompt("   ...> ")
			continue
		}

		sql := buffer.String()
		buffer.Reset()
		rl.SetPrompt("squill> ")

		stmts, err := parser.Parse(sql, d)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		fmt.Fprintln(out, format.Statements(stmts))
	}
}
