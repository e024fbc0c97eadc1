package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newCatalogCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the attribute catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Load the catalog and check weights and families",
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := root.loadCatalog()
			if err != nil {
				return err
			}
			if err := catalog.Validate(); err != nil {
				return fmt.Errorf("invalid catalog: %w", err)
			}

			source := root.catalogPath
			if source == "" {
				source = "built-in"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s catalog %s: %d colors, %d styles, %d color families, weights total %d\n",
				color.GreenString("OK"),
				source,
				len(catalog.ColorOptions),
				len(catalog.StyleOptions),
				len(catalog.ColorFamilies),
				catalog.Weights.Total(),
			)
			return nil
		},
	})
	return cmd
}
