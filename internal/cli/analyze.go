package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
)

func newAnalyzeCommand(root *rootOptions) *cobra.Command {
	var (
		candidatePath string
		wardrobePath  string
		jsonOutput    bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a candidate item against an owned wardrobe",
		Long: `Analyze reads a candidate item and a JSON array of owned items and prints
duplicates, variety impact and the purchase recommendation.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if candidatePath == "" {
				return errors.New("--candidate is required")
			}
			engine, err := root.engine()
			if err != nil {
				return err
			}

			var candidate domain.CandidateItem
			if err := readJSONFile(candidatePath, &candidate); err != nil {
				return fmt.Errorf("read candidate: %w", err)
			}
			if strings.TrimSpace(candidate.Category) == "" {
				return errors.New("candidate category is required")
			}

			var wardrobe []domain.WardrobeItem
			if wardrobePath != "" {
				if err := readJSONFile(wardrobePath, &wardrobe); err != nil {
					return fmt.Errorf("read wardrobe: %w", err)
				}
			}

			result := engine.Analyze(candidate, wardrobe)
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&candidatePath, "candidate", "c", "", "candidate item JSON file")
	cmd.Flags().StringVarP(&wardrobePath, "wardrobe", "w", "", "owned items JSON array file")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the raw analysis result as JSON")
	return cmd
}

func readJSONFile(path string, dst any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(dst)
}

func printResult(out io.Writer, result domain.AnalysisResult) {
	bold := color.New(color.Bold)
	rec := result.Recommendation

	bold.Fprint(out, "Recommendation: ")
	actionColor(rec.Action).Fprint(out, string(rec.Action))
	fmt.Fprintf(out, " (%s, confidence %d)\n", rec.Reason, rec.Confidence)
	fmt.Fprintf(out, "  %s\n", rec.Message)

	dup := result.DuplicateAnalysis
	bold.Fprint(out, "Duplicates: ")
	fmt.Fprintf(out, "%d found, severity %s, verdict %s\n", dup.Count, dup.Severity, dup.Verdict)
	for _, m := range dup.Matches {
		name := m.Item.Name
		if name == "" {
			name = m.Item.ID
		}
		fmt.Fprintf(out, "  - %s (score %d): %s\n", name, m.SimilarityScore, strings.Join(m.OverlapFactors, ", "))
	}

	variety := result.VarietyImpact
	bold.Fprint(out, "Variety score: ")
	fmt.Fprintf(out, "%d/10\n", variety.VarietyScore)
	if variety.ImpactMessage != "" {
		fmt.Fprintf(out, "  %s\n", variety.ImpactMessage)
	}
}

func actionColor(action domain.Action) *color.Color {
	switch action {
	case domain.ActionSkip:
		return color.New(color.FgRed, color.Bold)
	case domain.ActionConsider:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgGreen, color.Bold)
	}
}
