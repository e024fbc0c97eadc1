package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/ports"
)

type ImportWardrobeUseCase struct {
	reader ports.SpreadsheetReader
	items  ports.WardrobeCatalogue
}

func NewImportWardrobeUseCase(reader ports.SpreadsheetReader, items ports.WardrobeCatalogue) *ImportWardrobeUseCase {
	return &ImportWardrobeUseCase{reader: reader, items: items}
}

// Import adds every spreadsheet row to the user's wardrobe. Invalid rows are
// reported in the summary and do not abort the import.
func (uc *ImportWardrobeUseCase) Import(ctx context.Context, userID string, body io.Reader) (*domain.ImportSummary, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "import wardrobe", errors.New("user id is required"))
	}

	rows, err := uc.reader.ReadItems(body)
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet: %w", err)
	}

	summary := &domain.ImportSummary{
		Imported: []domain.WardrobeItem{},
		Failed:   []domain.ImportRowError{},
	}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		in := row.Item
		in.UserID = userID
		item, err := uc.items.AddItem(ctx, in)
		if err != nil {
			if !domain.IsKind(err, domain.ErrInvalidInput) {
				return nil, fmt.Errorf("import row %d: %w", row.Row, err)
			}
			summary.Failed = append(summary.Failed, domain.ImportRowError{Row: row.Row, Error: err.Error()})
			continue
		}
		summary.Imported = append(summary.Imported, *item)
	}
	return summary, nil
}
