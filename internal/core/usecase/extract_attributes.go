package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/analysis"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/ports"
)

type ExtractAttributesUseCase struct {
	repo      ports.WardrobeRepository
	engine    *analysis.Engine
	generator ports.TextGenerator
	observer  ports.AnalysisObserver
}

func NewExtractAttributesUseCase(
	repo ports.WardrobeRepository,
	engine *analysis.Engine,
	generator ports.TextGenerator,
	observer ports.AnalysisObserver,
) *ExtractAttributesUseCase {
	return &ExtractAttributesUseCase{
		repo:      repo,
		engine:    engine,
		generator: generator,
		observer:  observer,
	}
}

// ExtractByID fills the missing color, silhouette and style of a stored item
// from its description. Values the user entered are never replaced. An answer
// that cannot be validated leaves the item untouched and marks it skipped.
func (uc *ExtractAttributesUseCase) ExtractByID(ctx context.Context, itemID string) error {
	item, err := uc.repo.GetByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("fetch wardrobe item: %w", err)
	}

	if strings.TrimSpace(item.Description) == "" {
		uc.observe(extractionOutcomeSkipped)
		return uc.markStatus(ctx, itemID, domain.ExtractionSkipped, "no description to extract from")
	}

	attrs, err := extractAttributes(ctx, uc.engine, uc.generator, item.Category, item.Subcategory, item.Description)
	if err != nil {
		if domain.IsKind(err, domain.ErrExtractionUnresolved) {
			uc.observe(extractionOutcomeSkipped)
			return uc.markStatus(ctx, itemID, domain.ExtractionSkipped, err.Error())
		}
		uc.observe(extractionOutcomeFailed)
		return uc.fail(ctx, itemID, err)
	}

	if err := uc.repo.UpdateAttributes(ctx, itemID, onlyMissing(*item, attrs)); err != nil {
		uc.observe(extractionOutcomeFailed)
		return uc.fail(ctx, itemID, fmt.Errorf("save attributes: %w", err))
	}

	uc.observe(extractionOutcomeReady)
	return uc.markStatus(ctx, itemID, domain.ExtractionReady, "")
}

// onlyMissing drops extracted values for attributes the item already has.
func onlyMissing(item domain.WardrobeItem, attrs domain.ExtractedAttributes) domain.ExtractedAttributes {
	if strings.TrimSpace(item.Color) != "" {
		attrs.Color = domain.AttributeValue{}
	}
	if strings.TrimSpace(item.Silhouette) != "" {
		attrs.Silhouette = domain.AttributeValue{}
	}
	if strings.TrimSpace(item.Style) != "" {
		attrs.Style = domain.AttributeValue{}
	}
	return attrs
}

func (uc *ExtractAttributesUseCase) markStatus(ctx context.Context, itemID string, status domain.ExtractionStatus, errMessage string) error {
	if err := uc.repo.UpdateExtractionStatus(ctx, itemID, status, errMessage); err != nil {
		return fmt.Errorf("set status=%s: %w", status, err)
	}
	return nil
}

func (uc *ExtractAttributesUseCase) fail(ctx context.Context, itemID string, extractErr error) error {
	if failErr := uc.markStatus(ctx, itemID, domain.ExtractionFailed, extractErr.Error()); failErr != nil {
		return fmt.Errorf("%w; mark failed status: %v", extractErr, failErr)
	}
	return extractErr
}

func (uc *ExtractAttributesUseCase) observe(outcome string) {
	if uc.observer != nil {
		uc.observer.ObserveExtraction(outcome)
	}
}
