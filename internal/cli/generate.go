package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"nazcraft_server/internal/ai"
	aiutils "nazcraft_server/internal/ai/utils"
	"nazcraft_server/internal/catalog"
	"nazcraft_server/internal/types"
)

func generateCmd(configDir *string) *cobra.Command {
	var (
		template string
		prompt   string
		outDir   string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one site and write it to disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tmpl, err := catalog.Parse(template)
			if err != nil {
				// The generator reports it, after the credential check.
				tmpl = catalog.Template(template)
			}

			a, err := bootstrap(*configDir)
			if err != nil {
				return err
			}
			defer a.close()

			html, err := a.newGenerator().GenerateSite(cmd.Context(), ai.SiteRequest{Template: tmpl, Prompt: prompt})
			if err != nil {
				return err
			}

			site := types.GeneratedSite{
				ID:          uuid.New().String(),
				Template:    tmpl.String(),
				Prompt:      prompt,
				HTML:        html,
				GeneratedAt: time.Now(),
			}
			path, err := aiutils.SaveSiteDisk(outDir, site, a.log)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "template id (business, minimalist, crypto, ecommerce, chat)")
	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "what the site should be about")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	_ = cmd.MarkFlagRequired("template")
	return cmd
}
