package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
)

func newExtractCommand(root *rootOptions) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Validate a model answer against the attribute catalog",
		Long: `Extract reads "key: value" lines produced by a language model from a file,
or from stdin when no file is given, and prints the resolved attributes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(category) == "" {
				return errors.New("--category is required")
			}
			engine, err := root.engine()
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			text, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("read response: %w", err)
			}

			attrs, ok := engine.ParseExtractionResponse(string(text), category)
			out := cmd.OutOrStdout()
			printAttribute(out, "color", attrs.Color)
			printAttribute(out, "silhouette", attrs.Silhouette)
			printAttribute(out, "style", attrs.Style)
			if !ok {
				return domain.ErrExtractionUnresolved
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "item category")
	return cmd
}

func printAttribute(out io.Writer, name string, v domain.AttributeValue) {
	if v.Value == "" {
		fmt.Fprintf(out, "%s: %s\n", name, color.New(color.Faint).Sprint("unresolved"))
		return
	}
	fmt.Fprintf(out, "%s: %s (confidence %d)\n", name, color.CyanString(v.Value), v.Confidence)
}

func newPromptCommand(root *rootOptions) *cobra.Command {
	var category, subcategory string

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the attribute extraction prompt for a category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(category) == "" {
				return errors.New("--category is required")
			}
			engine, err := root.engine()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), engine.GenerateExtractionPrompt(category, subcategory))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "item category")
	cmd.Flags().StringVar(&subcategory, "subcategory", "", "item subcategory")
	return cmd
}
