package ports

import (
	"context"
	"io"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
)

// WardrobeCatalogue is the inbound contract for managing owned items.
type WardrobeCatalogue interface {
	AddItem(ctx context.Context, item domain.NewItem) (*domain.WardrobeItem, error)
	GetItem(ctx context.Context, userID, id string) (*domain.WardrobeItem, error)
	ListItems(ctx context.Context, userID string, filter domain.ItemFilter) ([]domain.WardrobeItem, error)
}

// ItemAnalyzer is the inbound contract for duplicate and variety analysis of a candidate.
type ItemAnalyzer interface {
	Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisReport, error)
}

// AttributeProcessor is the inbound contract for asynchronous attribute extraction.
type AttributeProcessor interface {
	ExtractByID(ctx context.Context, itemID string) error
}

// WardrobeImporter bulk-loads an existing wardrobe from a spreadsheet.
type WardrobeImporter interface {
	Import(ctx context.Context, userID string, body io.Reader) (*domain.ImportSummary, error)
}
