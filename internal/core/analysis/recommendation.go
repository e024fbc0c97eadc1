package analysis

import (
	"fmt"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
)

// Recommend turns duplicate and variety findings into a purchase verdict.
// The rules are evaluated top to bottom and the first match wins.
func Recommend(duplicates domain.DuplicateAnalysis, variety domain.VarietyImpact) domain.Recommendation {
	critical := criticalCount(duplicates)

	switch {
	case duplicates.Severity == domain.SeverityExcessive:
		return domain.Recommendation{
			Action:     domain.ActionSkip,
			Reason:     domain.ReasonExcessiveDuplication,
			Message:    fmt.Sprintf("You already own %s that are nearly identical. Adding another would be excessive duplication.", countItems(critical)),
			Confidence: 95,
		}
	case duplicates.Severity == domain.SeverityHigh && variety.VarietyScore <= 3:
		return domain.Recommendation{
			Action:     domain.ActionSkip,
			Reason:     domain.ReasonHighDuplicationLowVariety,
			Message:    fmt.Sprintf("You already own %s that are nearly identical and variety is low: %s.", countItems(critical), variety.ImpactMessage),
			Confidence: 88,
		}
	case duplicates.Verdict == domain.VerdictCriticalDuplicates:
		return domain.Recommendation{
			Action:     domain.ActionConsider,
			Reason:     domain.ReasonModerateDuplication,
			Message:    fmt.Sprintf("You already own %s very close to this one. Consider whether it adds something new.", countItems(critical)),
			Confidence: 70,
		}
	case duplicates.Verdict == domain.VerdictSimilarItems && variety.VarietyScore <= 5:
		return domain.Recommendation{
			Action:     domain.ActionConsider,
			Reason:     domain.ReasonVarietyConcern,
			Message:    fmt.Sprintf("You own %s similar to this one and variety is limited: %s.", countItems(duplicates.Count), variety.ImpactMessage),
			Confidence: 65,
		}
	default:
		return domain.Recommendation{
			Action:     domain.ActionRecommend,
			Reason:     domain.ReasonNoCriticalDuplicates,
			Message:    fmt.Sprintf("No critical duplicates found. %s.", variety.ImpactMessage),
			Confidence: 80,
		}
	}
}

func countItems(n int) string {
	if n == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", n)
}
