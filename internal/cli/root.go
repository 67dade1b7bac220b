package cli

import (
	"os"

	"github.com/spf13/cobra"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configDir string

	cmd := &cobra.Command{
		Use:          "nazcraft",
		Short:        "Nazcraft: generate single-page websites from a template and a description",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configDir, "config", ".", "directory holding config.yaml")

	cmd.AddCommand(serveCmd(&configDir))
	cmd.AddCommand(generateCmd(&configDir))
	cmd.AddCommand(templatesCmd())
	return cmd
}
