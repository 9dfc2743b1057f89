// Command squill is the CLI for the squill SQL parser.
package main

import (
	"fmt"
	"os"

	"github.com/leapstack-labs/squill/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
