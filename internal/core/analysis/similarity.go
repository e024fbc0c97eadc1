package analysis

import (
	"fmt"
	"math"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
)

// comparison holds the credited weight and the factors of one pair.
// Score and factors must come from the same predicate calls.
type comparison struct {
	credited int
	factors  []string
}

func (e *Engine) compare(candidate domain.CandidateItem, existing domain.WardrobeItem) (comparison, bool) {
	if candidate.Category != existing.Category || candidate.Subcategory != existing.Subcategory {
		return comparison{}, false
	}

	w := e.catalog.Weights
	pair := comparison{factors: []string{}}

	if e.ColorsMatch(candidate.Color, existing.Color) {
		pair.credited += w.Color
		pair.factors = append(pair.factors, pairFactor("color", candidate.Color, existing.Color))
	}
	if e.SilhouettesMatch(candidate.Silhouette, existing.Silhouette) {
		pair.credited += w.Silhouette
		if candidate.Silhouette == existing.Silhouette {
			pair.factors = append(pair.factors, fmt.Sprintf("Same silhouette (%s)", candidate.Silhouette))
		} else {
			pair.factors = append(pair.factors, fmt.Sprintf("Similar silhouette (%s / %s)", candidate.Silhouette, existing.Silhouette))
		}
	}
	if candidate.Style != "" && candidate.Style == existing.Style {
		pair.credited += w.Style
		pair.factors = append(pair.factors, fmt.Sprintf("Same style (%s)", candidate.Style))
	}
	if candidate.Material != "" && candidate.Material == existing.Material {
		pair.credited += w.Material
		pair.factors = append(pair.factors, fmt.Sprintf("Same material (%s)", candidate.Material))
	}
	return pair, true
}

func pairFactor(dimension, a, b string) string {
	if a == b {
		return fmt.Sprintf("Same %s (%s)", dimension, a)
	}
	return fmt.Sprintf("Same %s family (%s / %s)", dimension, a, b)
}

// SimilarityScore returns 0..100. Items of a different category or
// subcategory always score 0.
func (e *Engine) SimilarityScore(candidate domain.CandidateItem, existing domain.WardrobeItem) int {
	pair, ok := e.compare(candidate, existing)
	if !ok {
		return 0
	}
	return e.normalize(pair.credited)
}

// OverlapFactors explains which attributes contributed to SimilarityScore.
func (e *Engine) OverlapFactors(candidate domain.CandidateItem, existing domain.WardrobeItem) []string {
	pair, ok := e.compare(candidate, existing)
	if !ok {
		return []string{}
	}
	return pair.factors
}

func (e *Engine) normalize(credited int) int {
	total := e.catalog.Weights.Total()
	if total <= 0 {
		return 0
	}
	return roundHalfUp(100 * float64(credited) / float64(total))
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
