package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gpt-interface/gpt-interface-go/internal/config"
	"github.com/gpt-interface/gpt-interface-go/internal/routing"
)

func newModelsCmd(root *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the model catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.Config)
			if err != nil {
				return err
			}
			models, err := routing.LoadCatalog(cfg.ModelsPath)
			if err != nil {
				return err
			}
			for _, m := range models {
				if m.Description != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", m.Name, m.Description)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), m.Name)
			}
			return nil
		},
	}
}
