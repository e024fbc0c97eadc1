// Package xlsx decodes wardrobe rows from the first sheet of an Excel workbook.
package xlsx

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
)

var knownColumns = map[string]string{
	"name":        "name",
	"item":        "name",
	"category":    "category",
	"subcategory": "subcategory",
	"type":        "subcategory",
	"color":       "color",
	"colour":      "color",
	"silhouette":  "silhouette",
	"fit":         "silhouette",
	"style":       "style",
	"material":    "material",
	"fabric":      "material",
	"seasons":     "seasons",
	"season":      "seasons",
	"description": "description",
	"notes":       "description",
}

type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

// ReadItems expects a header row. Blank rows are skipped; unknown columns are ignored.
func (r *Reader) ReadItems(body io.Reader) ([]domain.SpreadsheetRow, error) {
	f, err := excelize.OpenReader(body)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "open workbook", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "open workbook", errors.New("workbook has no sheets"))
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return []domain.SpreadsheetRow{}, nil
	}

	columns, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	out := make([]domain.SpreadsheetRow, 0, len(rows)-1)
	for idx, cells := range rows[1:] {
		if isBlankRow(cells) {
			continue
		}
		out = append(out, domain.SpreadsheetRow{
			Row:  idx + 2,
			Item: decodeRow(columns, cells),
		})
	}
	return out, nil
}

func mapHeader(header []string) (map[int]string, error) {
	columns := make(map[int]string, len(header))
	seen := make(map[string]bool, len(header))
	for idx, cell := range header {
		field, ok := knownColumns[strings.ToLower(strings.TrimSpace(cell))]
		if !ok || seen[field] {
			continue
		}
		seen[field] = true
		columns[idx] = field
	}

	var missing []string
	for _, required := range []string{"name", "category", "subcategory"} {
		if !seen[required] {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, domain.WrapError(
			domain.ErrInvalidInput,
			"read header",
			fmt.Errorf("missing columns: %s", strings.Join(missing, ", ")),
		)
	}
	return columns, nil
}

func decodeRow(columns map[int]string, cells []string) domain.NewItem {
	var item domain.NewItem
	for idx, raw := range cells {
		field, ok := columns[idx]
		if !ok {
			continue
		}
		value := strings.TrimSpace(raw)
		switch field {
		case "name":
			item.Name = value
		case "category":
			item.Category = value
		case "subcategory":
			item.Subcategory = value
		case "color":
			item.Color = value
		case "silhouette":
			item.Silhouette = value
		case "style":
			item.Style = value
		case "material":
			item.Material = value
		case "seasons":
			item.Seasons = splitList(value)
		case "description":
			item.Description = value
		}
	}
	return item
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ';' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
