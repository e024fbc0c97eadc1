package domain

import "time"

type ExtractionStatus string

const (
	ExtractionPending ExtractionStatus = "pending"
	ExtractionReady   ExtractionStatus = "ready"
	ExtractionSkipped ExtractionStatus = "skipped"
	ExtractionFailed  ExtractionStatus = "failed"
)

// CandidateItem is an item the user is thinking about acquiring.
// Every attribute except Category and Subcategory is optional.
type CandidateItem struct {
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Color       string   `json:"color,omitempty"`
	Silhouette  string   `json:"silhouette,omitempty"`
	Style       string   `json:"style,omitempty"`
	Material    string   `json:"material,omitempty"`
	Seasons     []string `json:"seasons,omitempty"`
}

// WardrobeItem is an item the user already owns.
type WardrobeItem struct {
	ID          string   `json:"id"`
	UserID      string   `json:"user_id,omitempty"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Color       string   `json:"color,omitempty"`
	Silhouette  string   `json:"silhouette,omitempty"`
	Style       string   `json:"style,omitempty"`
	Material    string   `json:"material,omitempty"`
	Seasons     []string `json:"seasons,omitempty"`
	Description string   `json:"description,omitempty"`

	ExtractionStatus ExtractionStatus `json:"extraction_status,omitempty"`
	ExtractionError  string           `json:"extraction_error,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Candidate projects a stored item onto the attributes used for comparison.
func (i WardrobeItem) Candidate() CandidateItem {
	return CandidateItem{
		Category:    i.Category,
		Subcategory: i.Subcategory,
		Color:       i.Color,
		Silhouette:  i.Silhouette,
		Style:       i.Style,
		Material:    i.Material,
		Seasons:     i.Seasons,
	}
}

// NewItem is the input for adding an item to a wardrobe.
type NewItem struct {
	UserID      string
	Name        string
	Category    string
	Subcategory string
	Color       string
	Silhouette  string
	Style       string
	Material    string
	Seasons     []string
	Description string
}

type ItemFilter struct {
	Category    string
	Subcategory string
}

type ImportRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type ImportSummary struct {
	Imported []WardrobeItem   `json:"imported"`
	Failed   []ImportRowError `json:"failed"`
}

// SpreadsheetRow is one decoded data row; Row is 1-based and counts the header.
type SpreadsheetRow struct {
	Row  int
	Item NewItem
}
