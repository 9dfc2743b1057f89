// Package cli provides the command-line interface for squill.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/squill/internal/cli/commands"
	"github.com/leapstack-labs/squill/internal/cli/config"

	// Register the bundled dialects.
	_ "github.com/leapstack-labs/squill/pkg/dialects/duckdb"
	_ "github.com/leapstack-labs/squill/pkg/dialects/mysql"
	_ "github.com/leapstack-labs/squill/pkg/dialects/postgres"
	_ "github.com/leapstack-labs/squill/pkg/dialects/snowflake"
)

// Version information (set at build time).
var (
	Version = "0.1.0"
)

var cfgFile string

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "squill",
		Short: "squill - multi-dialect SQL parser",
		Long: `squill parses SQL into a typed syntax tree and renders it back to
canonical SQL. The parser is parameterised by a dialect; run
"squill dialects" to list the bundled ones.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			commands.SetConfig(cfg)
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Path to config file (default squill.yaml)")
	flags.StringP("dialect", "d", config.DefaultDialect, "SQL dialect to parse with")
	flags.String("output", config.DefaultOutput, "Output format: text, json")
	flags.BoolP("verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(
		commands.NewParseCommand(),
		commands.NewFmtCommand(),
		commands.NewTokensCommand(),
		commands.NewREPLCommand(),
		commands.NewDialectsCommand(),
	)
	return rootCmd
}
