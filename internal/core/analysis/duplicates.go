package analysis

import (
	"cmp"
	"slices"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
)

const (
	CriticalThreshold = 85
	SimilarThreshold  = 70
)

func (e *Engine) scoreMatches(candidate domain.CandidateItem, existing []domain.WardrobeItem, keep func(score int) bool) []domain.DuplicateMatch {
	matches := []domain.DuplicateMatch{}
	for _, item := range existing {
		pair, ok := e.compare(candidate, item)
		if !ok {
			continue
		}
		score := e.normalize(pair.credited)
		if !keep(score) {
			continue
		}
		matches = append(matches, domain.DuplicateMatch{
			Item:            item,
			SimilarityScore: score,
			OverlapFactors:  pair.factors,
		})
	}
	slices.SortStableFunc(matches, func(a, b domain.DuplicateMatch) int {
		return cmp.Compare(b.SimilarityScore, a.SimilarityScore)
	})
	return matches
}

// FindCriticalDuplicates returns items scoring at least CriticalThreshold, best first.
func (e *Engine) FindCriticalDuplicates(candidate domain.CandidateItem, existing []domain.WardrobeItem) []domain.DuplicateMatch {
	return e.scoreMatches(candidate, existing, func(score int) bool {
		return score >= CriticalThreshold
	})
}

// FindSimilarItems returns items scoring in [SimilarThreshold, CriticalThreshold), best first.
func (e *Engine) FindSimilarItems(candidate domain.CandidateItem, existing []domain.WardrobeItem) []domain.DuplicateMatch {
	return e.scoreMatches(candidate, existing, func(score int) bool {
		return score >= SimilarThreshold && score < CriticalThreshold
	})
}

func (e *Engine) AnalyzeDuplicates(candidate domain.CandidateItem, existing []domain.WardrobeItem) domain.DuplicateAnalysis {
	critical := e.FindCriticalDuplicates(candidate, existing)
	similar := e.FindSimilarItems(candidate, existing)

	matches := make([]domain.DuplicateMatch, 0, len(critical)+len(similar))
	matches = append(matches, critical...)
	matches = append(matches, similar...)

	verdict := domain.VerdictNoDuplicates
	switch {
	case len(critical) > 0:
		verdict = domain.VerdictCriticalDuplicates
	case len(similar) > 0:
		verdict = domain.VerdictSimilarItems
	}

	return domain.DuplicateAnalysis{
		Found:    len(matches) > 0,
		Count:    len(matches),
		Matches:  matches,
		Severity: severityFor(len(critical)),
		Verdict:  verdict,
	}
}

// severityFor grades duplication by critical matches only.
func severityFor(criticalCount int) domain.Severity {
	switch {
	case criticalCount >= 3:
		return domain.SeverityExcessive
	case criticalCount == 2:
		return domain.SeverityHigh
	case criticalCount == 1:
		return domain.SeverityModerate
	default:
		return domain.SeverityNone
	}
}

func criticalCount(analysis domain.DuplicateAnalysis) int {
	n := 0
	for _, m := range analysis.Matches {
		if m.SimilarityScore >= CriticalThreshold {
			n++
		}
	}
	return n
}
