package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/analysis"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/ports"
)

type AnalyzeUseCase struct {
	repo      ports.WardrobeRepository
	engine    *analysis.Engine
	generator ports.TextGenerator
	advisor   ports.AdviceGenerator
	observer  ports.AnalysisObserver
}

// NewAnalyzeUseCase wires the analysis flow. generator, advisor and observer
// may be nil. Without a generator, candidates are analyzed with whatever
// attributes they carry.
func NewAnalyzeUseCase(
	repo ports.WardrobeRepository,
	engine *analysis.Engine,
	generator ports.TextGenerator,
	advisor ports.AdviceGenerator,
	observer ports.AnalysisObserver,
) *AnalyzeUseCase {
	return &AnalyzeUseCase{
		repo:      repo,
		engine:    engine,
		generator: generator,
		advisor:   advisor,
		observer:  observer,
	}
}

func (uc *AnalyzeUseCase) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisReport, error) {
	candidate, err := normalizeCandidate(req)
	if err != nil {
		return nil, err
	}
	report := &domain.AnalysisReport{Candidate: candidate}

	description := strings.TrimSpace(req.Description)
	if needsExtraction(candidate) && description != "" && uc.generator != nil {
		attrs, err := extractAttributes(ctx, uc.engine, uc.generator, candidate.Category, candidate.Subcategory, description)
		if err != nil {
			if domain.IsKind(err, domain.ErrExtractionUnresolved) {
				uc.observeExtraction(extractionOutcomeSkipped)
				report.DuplicateCheckSkipped = true
				return report, nil
			}
			uc.observeExtraction(extractionOutcomeFailed)
			return nil, err
		}
		uc.observeExtraction(extractionOutcomeReady)
		report.Extracted = &attrs
		candidate = mergeExtracted(candidate, attrs)
		report.Candidate = candidate
	}

	existing, err := uc.repo.ListByUser(ctx, req.UserID, domain.ItemFilter{Category: candidate.Category})
	if err != nil {
		return nil, fmt.Errorf("load wardrobe: %w", err)
	}

	result := uc.engine.Analyze(candidate, existing)
	report.Result = &result
	if uc.observer != nil {
		uc.observer.ObserveAnalysis(result)
	}

	if req.WithAdvice && uc.advisor != nil {
		advice, err := uc.advisor.GenerateAdvice(ctx, candidate, result)
		if err != nil {
			slog.Warn("analysis_advice_failed", "user_id", req.UserID, "error", err)
		} else {
			report.Advice = advice
		}
	}

	return report, nil
}

func normalizeCandidate(req domain.AnalysisRequest) (domain.CandidateItem, error) {
	c := req.Candidate
	candidate := domain.CandidateItem{
		Category:    normalizeCategory(c.Category),
		Subcategory: normalizeCategory(c.Subcategory),
		Color:       strings.TrimSpace(c.Color),
		Silhouette:  strings.TrimSpace(c.Silhouette),
		Style:       strings.TrimSpace(c.Style),
		Material:    strings.TrimSpace(c.Material),
		Seasons:     normalizeSeasons(c.Seasons),
	}

	switch {
	case strings.TrimSpace(req.UserID) == "":
		return domain.CandidateItem{}, domain.WrapError(domain.ErrInvalidInput, "analyze candidate", errors.New("user id is required"))
	case candidate.Category == "" || candidate.Subcategory == "":
		return domain.CandidateItem{}, domain.WrapError(domain.ErrInvalidInput, "analyze candidate", errors.New("category and subcategory are required"))
	}
	return candidate, nil
}

func needsExtraction(c domain.CandidateItem) bool {
	return c.Color == "" || c.Style == ""
}

// mergeExtracted fills only the attributes the caller left empty.
func mergeExtracted(c domain.CandidateItem, attrs domain.ExtractedAttributes) domain.CandidateItem {
	if c.Color == "" {
		c.Color = attrs.Color.Value
	}
	if c.Silhouette == "" {
		c.Silhouette = attrs.Silhouette.Value
	}
	if c.Style == "" {
		c.Style = attrs.Style.Value
	}
	return c
}

func (uc *AnalyzeUseCase) observeExtraction(outcome string) {
	if uc.observer != nil {
		uc.observer.ObserveExtraction(outcome)
	}
}
