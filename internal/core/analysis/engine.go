// Package analysis decides whether a candidate clothing item duplicates what
// a user already owns and how it would change the variety of their wardrobe.
//
// The engine is pure: it performs no I/O, keeps no state between calls and
// never mutates its inputs, so one Engine can be shared by any number of
// goroutines.
package analysis

import (
	"fmt"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
)

type Engine struct {
	catalog Catalog
}

func NewEngine(catalog Catalog) (*Engine, error) {
	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("new analysis engine: %w", err)
	}
	return &Engine{catalog: catalog.Clone()}, nil
}

// Catalog returns a copy of the tables the engine was built with.
func (e *Engine) Catalog() Catalog {
	return e.catalog.Clone()
}

// Analyze runs duplicate detection, variety analysis and the recommendation
// ladder for one candidate against a snapshot of the wardrobe.
func (e *Engine) Analyze(candidate domain.CandidateItem, existing []domain.WardrobeItem) domain.AnalysisResult {
	duplicates := e.AnalyzeDuplicates(candidate, existing)
	variety := e.AnalyzeVariety(candidate, existing)
	return domain.AnalysisResult{
		DuplicateAnalysis: duplicates,
		VarietyImpact:     variety,
		Recommendation:    Recommend(duplicates, variety),
	}
}
