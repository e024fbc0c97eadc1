package analysis

import (
	"fmt"
	"strings"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
)

const (
	// dominancePercent is the share of a category above which one value dominates it.
	dominancePercent = 60

	goodVarietyMessage = "Good variety maintained"
)

// AnalyzeVariety measures how adding the candidate would concentrate color and
// silhouette within its category.
func (e *Engine) AnalyzeVariety(candidate domain.CandidateItem, existing []domain.WardrobeItem) domain.VarietyImpact {
	restricted := make([]domain.WardrobeItem, 0, len(existing))
	for _, item := range existing {
		if item.Category == candidate.Category {
			restricted = append(restricted, item)
		}
	}

	colorImpact := dimensionImpact(candidate.Color, restricted, func(i domain.WardrobeItem) string { return i.Color })
	silhouetteImpact := dimensionImpact(candidate.Silhouette, restricted, func(i domain.WardrobeItem) string { return i.Silhouette })

	score := 10.0
	if len(restricted) > 0 {
		score -= dimensionPenalty(colorImpact)
		score -= dimensionPenalty(silhouetteImpact)
	}
	score = min(max(score, 0), 10)

	label := e.catalog.categoryLabel(candidate.Category)
	var concerns []string
	if colorImpact.IsDominant {
		concerns = append(concerns, fmt.Sprintf("%d%% of your %s would be the same color", colorImpact.PercentageOfCategory, label))
	}
	if silhouetteImpact.IsDominant {
		concerns = append(concerns, fmt.Sprintf("%d%% of your %s would have the same silhouette", silhouetteImpact.PercentageOfCategory, label))
	}
	message := goodVarietyMessage
	if len(concerns) > 0 {
		message = strings.Join(concerns, ", ")
	}

	return domain.VarietyImpact{
		Color:         colorImpact,
		Silhouette:    silhouetteImpact,
		VarietyScore:  roundHalfUp(score),
		ImpactMessage: message,
	}
}

// dimensionImpact counts one attribute over the category. A candidate with no
// value for the attribute adds nothing to it. Dominance needs at least one
// existing item in the category.
func dimensionImpact(value string, restricted []domain.WardrobeItem, attr func(domain.WardrobeItem) string) domain.DimensionImpact {
	distinct := make(map[string]struct{})
	target := 0
	for _, item := range restricted {
		v := attr(item)
		if v == "" {
			continue
		}
		distinct[v] = struct{}{}
		if v == value {
			target++
		}
	}

	impact := domain.DimensionImpact{CurrentDistinct: len(distinct)}
	if value == "" {
		return impact
	}

	denominator := len(restricted) + 1
	impact.TargetCount = target
	impact.AfterAddition = target + 1
	impact.PercentageOfCategory = roundHalfUp(100 * float64(impact.AfterAddition) / float64(denominator))
	impact.IsDominant = len(restricted) > 0 && impact.AfterAddition*100 >= dominancePercent*denominator
	return impact
}

func dimensionPenalty(impact domain.DimensionImpact) float64 {
	penalty := 0.0
	if impact.IsDominant {
		penalty += 3
	}
	penalty += max(0, float64(impact.PercentageOfCategory-40)/10)
	return penalty
}
