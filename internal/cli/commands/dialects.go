package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/squill/pkg/dialect"
)

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List the registered SQL dialects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			def := dialect.Default()
			for _, name := range dialect.List() {
				marker := ""
				if def != nil && name == def.Name() {
					marker = " (default)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", name, marker)
			}
			return nil
		},
	}
}
