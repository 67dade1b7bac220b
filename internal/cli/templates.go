package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"nazcraft_server/internal/catalog"
)

func templatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the available templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, e := range catalog.Entries() {
				fmt.Fprintf(out, "- %-11s %s: %s\n", e.Template, e.Name, e.Description)
			}
			return nil
		},
	}
}
