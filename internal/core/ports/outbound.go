package ports

import (
	"context"
	"io"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
)

// WardrobeRepository persists and reads wardrobe items.
type WardrobeRepository interface {
	Create(ctx context.Context, item *domain.WardrobeItem) error
	GetByID(ctx context.Context, id string) (*domain.WardrobeItem, error)
	ListByUser(ctx context.Context, userID string, filter domain.ItemFilter) ([]domain.WardrobeItem, error)
	UpdateAttributes(ctx context.Context, id string, attrs domain.ExtractedAttributes) error
	UpdateExtractionStatus(ctx context.Context, id string, status domain.ExtractionStatus, errMessage string) error
}

// MessageQueue publishes/consumes item-added events.
type MessageQueue interface {
	PublishItemAdded(ctx context.Context, itemID string) error
	SubscribeItemAdded(ctx context.Context, handler func(context.Context, string) error) error
}

// TextGenerator sends a prompt to a language model.
type TextGenerator interface {
	GenerateFromPrompt(ctx context.Context, prompt string) (string, error)
}

// AdviceGenerator writes a short narrative around an analysis result.
type AdviceGenerator interface {
	GenerateAdvice(ctx context.Context, candidate domain.CandidateItem, result domain.AnalysisResult) (string, error)
}

// SpreadsheetReader decodes wardrobe rows from a spreadsheet.
type SpreadsheetReader interface {
	ReadItems(body io.Reader) ([]domain.SpreadsheetRow, error)
}

// AnalysisObserver receives analysis outcomes, typically for metrics.
type AnalysisObserver interface {
	ObserveAnalysis(result domain.AnalysisResult)
	ObserveExtraction(outcome string)
}
