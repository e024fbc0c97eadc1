package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
)

func TestColorsMatch(t *testing.T) {
	engine := newTestEngine(t)

	cases := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "exact", a: "Black", b: "Black", want: true},
		{name: "same family", a: "Grey", b: "Black", want: true},
		{name: "different family", a: "Black", b: "Navy", want: false},
		{name: "unknown but equal", a: "Teal", b: "Teal", want: true},
		{name: "unknown and different", a: "Teal", b: "Black", want: false},
		{name: "empty left", a: "", b: "Black", want: false},
		{name: "empty right", a: "Black", b: "", want: false},
		{name: "both empty", a: "", b: "", want: false},
		{name: "case sensitive", a: "black", b: "Black", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, engine.ColorsMatch(tc.a, tc.b))
		})
	}
}

func TestSilhouettesMatch(t *testing.T) {
	engine := newTestEngine(t)

	assert.True(t, engine.SilhouettesMatch("Skinny", "Slim Fit"))
	assert.True(t, engine.SilhouettesMatch("Oversized", "Boxy"))
	assert.False(t, engine.SilhouettesMatch("Skinny", "Wide Leg"))
	assert.False(t, engine.SilhouettesMatch("", "Skinny"))
}

func TestFirstMatchingFamilyWins(t *testing.T) {
	catalog := DefaultCatalog()
	catalog.ColorFamilies = []Family{
		{Name: "first", Members: []string{"Teal", "Navy"}},
		{Name: "second", Members: []string{"Teal", "Green", "Olive"}},
	}
	engine, err := NewEngine(catalog)
	require.NoError(t, err)

	assert.True(t, engine.ColorsMatch("Teal", "Navy"))
	assert.False(t, engine.ColorsMatch("Teal", "Green"))
	assert.True(t, engine.ColorsMatch("Green", "Teal"))
}

func TestSimilarityScoreCategoryGate(t *testing.T) {
	engine := newTestEngine(t)
	existing := blackTee("1")

	otherCategory := blackTeeCandidate()
	otherCategory.Category = "outerwear"
	assert.Zero(t, engine.SimilarityScore(otherCategory, existing))
	assert.Empty(t, engine.OverlapFactors(otherCategory, existing))

	otherSubcategory := blackTeeCandidate()
	otherSubcategory.Subcategory = "blouse"
	assert.Zero(t, engine.SimilarityScore(otherSubcategory, existing))
	assert.Empty(t, engine.OverlapFactors(otherSubcategory, existing))
}

func TestSimilarityScoreWeights(t *testing.T) {
	engine := newTestEngine(t)
	existing := blackTee("1")

	cases := []struct {
		name   string
		mutate func(*domain.CandidateItem)
		want   int
	}{
		{name: "all attributes", mutate: func(*domain.CandidateItem) {}, want: 100},
		{name: "no material", mutate: func(c *domain.CandidateItem) { c.Material = "Linen" }, want: 85},
		{name: "no style", mutate: func(c *domain.CandidateItem) { c.Style = "Sporty" }, want: 75},
		{name: "no silhouette", mutate: func(c *domain.CandidateItem) { c.Silhouette = "Loose" }, want: 70},
		{name: "no color", mutate: func(c *domain.CandidateItem) { c.Color = "Red" }, want: 70},
		{name: "color and silhouette only", mutate: func(c *domain.CandidateItem) {
			c.Style = "Sporty"
			c.Material = "Linen"
		}, want: 60},
		{name: "missing optional attributes", mutate: func(c *domain.CandidateItem) {
			c.Silhouette = ""
			c.Style = ""
			c.Material = ""
		}, want: 30},
		{name: "nothing in common", mutate: func(c *domain.CandidateItem) {
			c.Color = "Red"
			c.Silhouette = "Loose"
			c.Style = "Sporty"
			c.Material = "Linen"
		}, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			candidate := blackTeeCandidate()
			tc.mutate(&candidate)
			assert.Equal(t, tc.want, engine.SimilarityScore(candidate, existing))
		})
	}
}

func TestOverlapFactorsAgreeWithPredicates(t *testing.T) {
	engine := newTestEngine(t)
	existing := blackTee("1")
	existing.Silhouette = "Slim Fit"

	candidate := blackTeeCandidate()
	candidate.Color = "Grey"
	candidate.Material = "Linen"

	factors := engine.OverlapFactors(candidate, existing)
	assert.Equal(t, []string{
		"Same color family (Grey / Black)",
		"Similar silhouette (Fitted / Slim Fit)",
		"Same style (Casual)",
	}, factors)
	assert.Equal(t, 85, engine.SimilarityScore(candidate, existing))
}

func TestSimilarityScoreIsMonotonic(t *testing.T) {
	engine := newTestEngine(t)
	existing := blackTee("1")

	base := domain.CandidateItem{Category: "top", Subcategory: "t-shirt"}
	steps := []func(*domain.CandidateItem){
		func(c *domain.CandidateItem) { c.Material = "Cotton" },
		func(c *domain.CandidateItem) { c.Style = "Casual" },
		func(c *domain.CandidateItem) { c.Color = "Black" },
		func(c *domain.CandidateItem) { c.Silhouette = "Fitted" },
	}

	previous := engine.SimilarityScore(base, existing)
	for _, step := range steps {
		step(&base)
		score := engine.SimilarityScore(base, existing)
		assert.Greater(t, score, previous)
		previous = score
	}
	assert.Equal(t, 100, previous)
}

func TestSimilarityScoreRoundsHalfUp(t *testing.T) {
	catalog := DefaultCatalog()
	catalog.Weights = Weights{Color: 1, Silhouette: 1, Style: 1, Material: 97}
	engine, err := NewEngine(catalog)
	require.NoError(t, err)

	candidate := blackTeeCandidate()
	candidate.Silhouette = ""
	candidate.Style = ""
	candidate.Material = ""
	assert.Equal(t, 1, engine.SimilarityScore(candidate, blackTee("1")))
	assert.Equal(t, 2, roundHalfUp(1.5))
	assert.Equal(t, 3, roundHalfUp(2.5))
	assert.Equal(t, 2, roundHalfUp(2.49))
}
