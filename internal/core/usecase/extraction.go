package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/analysis"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/ports"
)

const (
	extractionOutcomeReady   = "ready"
	extractionOutcomeSkipped = "skipped"
	extractionOutcomeFailed  = "failed"
)

// extractAttributes asks the model for color, silhouette and style of a
// described item and validates the answer against the catalog.
func extractAttributes(
	ctx context.Context,
	engine *analysis.Engine,
	generator ports.TextGenerator,
	category, subcategory, description string,
) (domain.ExtractedAttributes, error) {
	prompt := engine.GenerateExtractionPrompt(category, subcategory) + "\nItem description:\n" + description + "\n"

	response, err := generator.GenerateFromPrompt(ctx, prompt)
	if err != nil {
		return domain.ExtractedAttributes{}, fmt.Errorf("generate attributes: %w", err)
	}

	attrs, ok := engine.ParseExtractionResponse(response, category)
	if !ok {
		return domain.ExtractedAttributes{}, domain.WrapError(
			domain.ErrExtractionUnresolved,
			"parse attributes",
			errors.New("color or style missing from model response"),
		)
	}
	return attrs, nil
}
