// Package commands implements the squill subcommands.
package commands

import (
	"fmt"

	"github.com/leapstack-labs/squill/internal/cli/config"
	"github.com/leapstack-labs/squill/pkg/dialect"
)

// cfg is the loaded CLI configuration, set by the root command before
// any subcommand runs.
var cfg = &config.Config{
	Dialect: config.DefaultDialect,
	Output:  config.DefaultOutput,
}

// SetConfig installs the loaded configuration.
func SetConfig(c *config.Config) { cfg = c }

// selectedDialect resolves the configured dialect name.
func selectedDialect() (*dialect.Dialect, error) {
	d, ok := dialect.Get(cfg.Dialect)
	if !ok {
		return nil, fmt.Errorf("unknown dialect %q (known: %v)", cfg.Dialect, dialect.List())
	}
	return d, nil
}
