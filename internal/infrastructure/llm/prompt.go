// Package llm holds prompt text and error handling shared by the language model providers.
package llm

import (
	"fmt"
	"strings"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
)

// BuildAdvicePrompt asks for a short shopping note grounded in a finished analysis.
// The model must not change the verdict.
func BuildAdvicePrompt(candidate domain.CandidateItem, result domain.AnalysisResult) string {
	var b strings.Builder
	b.WriteString("You are a personal stylist helping someone decide whether to buy a clothing item.\n")
	b.WriteString("Write two or three friendly sentences that explain the recommendation below.\n")
	b.WriteString("Do not contradict the recommendation and do not invent items.\n\n")

	b.WriteString("Candidate item:\n")
	writeAttr(&b, "category", candidate.Category)
	writeAttr(&b, "subcategory", candidate.Subcategory)
	writeAttr(&b, "color", candidate.Color)
	writeAttr(&b, "silhouette", candidate.Silhouette)
	writeAttr(&b, "style", candidate.Style)
	writeAttr(&b, "material", candidate.Material)
	if len(candidate.Seasons) > 0 {
		writeAttr(&b, "seasons", strings.Join(candidate.Seasons, ", "))
	}

	rec := result.Recommendation
	fmt.Fprintf(&b, "\nRecommendation: %s (%s, confidence %d)\n", rec.Action, rec.Reason, rec.Confidence)
	fmt.Fprintf(&b, "Summary: %s\n", rec.Message)
	fmt.Fprintf(&b, "Variety score: %d/10 (%s)\n", result.VarietyImpact.VarietyScore, result.VarietyImpact.ImpactMessage)

	if matches := result.DuplicateAnalysis.Matches; len(matches) > 0 {
		b.WriteString("\nClosest owned items:\n")
		for i, m := range matches {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "- %s (similarity %d): %s\n", itemLabel(m.Item), m.SimilarityScore, strings.Join(m.OverlapFactors, "; "))
		}
	}
	return b.String()
}

func writeAttr(b *strings.Builder, name, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(b, "- %s: %s\n", name, value)
}

func itemLabel(item domain.WardrobeItem) string {
	if item.Name != "" {
		return item.Name
	}
	return item.ID
}
