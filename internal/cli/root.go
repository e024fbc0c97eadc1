// Package cli implements wardrobectl, an offline front end to the analysis engine.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/analysis"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/infrastructure/catalog/yamlfile"
)

// Version is set at build time.
var Version = "0.1.0"

type rootOptions struct {
	catalogPath string
}

func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "wardrobectl",
		Short: "Duplicate and variety analysis for wardrobe items",
		Long: `wardrobectl runs the wardrobe analysis engine against local JSON files.

Examples:
  wardrobectl analyze --candidate candidate.json --wardrobe wardrobe.json
  wardrobectl prompt --category top --subcategory shirt
  echo "color: navy" | wardrobectl extract --category top
  wardrobectl catalog validate --catalog configs/catalog.yaml`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "", "attribute catalog YAML (built-in defaults when empty)")

	cmd.AddCommand(
		newAnalyzeCommand(opts),
		newExtractCommand(opts),
		newPromptCommand(opts),
		newCatalogCommand(opts),
	)
	return cmd
}

func (o *rootOptions) loadCatalog() (analysis.Catalog, error) {
	if o.catalogPath == "" {
		return analysis.DefaultCatalog(), nil
	}
	catalog, err := yamlfile.Load(o.catalogPath)
	if err != nil {
		return analysis.Catalog{}, fmt.Errorf("load catalog: %w", err)
	}
	return catalog, nil
}

func (o *rootOptions) engine() (*analysis.Engine, error) {
	catalog, err := o.loadCatalog()
	if err != nil {
		return nil, err
	}
	return analysis.NewEngine(catalog)
}
