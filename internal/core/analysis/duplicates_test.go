package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
)

// colorOnlyEngine scores a color-only match at exactly colorWeight.
func colorOnlyEngine(t *testing.T, colorWeight int) *Engine {
	t.Helper()
	catalog := DefaultCatalog()
	catalog.Weights = Weights{Color: colorWeight, Style: 100 - colorWeight}
	engine, err := NewEngine(catalog)
	require.NoError(t, err)
	return engine
}

func TestThresholdPartition(t *testing.T) {
	cases := []struct {
		score        int
		wantCritical bool
		wantSimilar  bool
	}{
		{score: 100, wantCritical: true},
		{score: 85, wantCritical: true},
		{score: 84, wantSimilar: true},
		{score: 70, wantSimilar: true},
		{score: 69},
		{score: 30},
	}

	existing := []domain.WardrobeItem{blackTee("1")}

	for _, tc := range cases {
		engine := colorOnlyEngine(t, tc.score)
		candidate := blackTeeCandidate()
		candidate.Style = "Elegant"
		require.Equal(t, tc.score, engine.SimilarityScore(candidate, existing[0]))

		critical := engine.FindCriticalDuplicates(candidate, existing)
		similar := engine.FindSimilarItems(candidate, existing)
		assert.Equal(t, tc.wantCritical, len(critical) == 1, "critical at %d", tc.score)
		assert.Equal(t, tc.wantSimilar, len(similar) == 1, "similar at %d", tc.score)
		assert.False(t, len(critical) == 1 && len(similar) == 1, "score %d landed in both buckets", tc.score)
	}
}

func TestFindDuplicatesSortsDescending(t *testing.T) {
	engine := newTestEngine(t)

	noMaterial := blackTee("85")
	noMaterial.Material = "Linen"
	exact := blackTee("100")
	noStyle := blackTee("75")
	noStyle.Style = "Sporty"
	noSilhouette := blackTee("70")
	noSilhouette.Silhouette = "Loose"
	unrelated := blackTee("0")
	unrelated.Category = "bottom"

	existing := []domain.WardrobeItem{noSilhouette, noMaterial, unrelated, noStyle, exact}

	critical := engine.FindCriticalDuplicates(blackTeeCandidate(), existing)
	require.Len(t, critical, 2)
	assert.Equal(t, "100", critical[0].Item.ID)
	assert.Equal(t, "85", critical[1].Item.ID)

	similar := engine.FindSimilarItems(blackTeeCandidate(), existing)
	require.Len(t, similar, 2)
	assert.Equal(t, "75", similar[0].Item.ID)
	assert.Equal(t, "70", similar[1].Item.ID)
}

func TestAnalyzeDuplicatesOrdersCriticalBeforeSimilar(t *testing.T) {
	engine := newTestEngine(t)
	similar := blackTee("similar")
	similar.Style = "Sporty"

	analysis := engine.AnalyzeDuplicates(blackTeeCandidate(), []domain.WardrobeItem{similar, blackTee("critical")})

	require.Len(t, analysis.Matches, 2)
	assert.Equal(t, "critical", analysis.Matches[0].Item.ID)
	assert.Equal(t, "similar", analysis.Matches[1].Item.ID)
	assert.Equal(t, 2, analysis.Count)
	assert.Equal(t, domain.SeverityModerate, analysis.Severity)
	assert.Equal(t, domain.VerdictCriticalDuplicates, analysis.Verdict)
}

func TestAnalyzeDuplicatesSeverityIgnoresSimilarItems(t *testing.T) {
	engine := newTestEngine(t)
	var existing []domain.WardrobeItem
	for _, id := range []string{"a", "b", "c", "d"} {
		item := blackTee(id)
		item.Style = "Sporty"
		existing = append(existing, item)
	}

	analysis := engine.AnalyzeDuplicates(blackTeeCandidate(), existing)

	assert.Equal(t, 4, analysis.Count)
	assert.True(t, analysis.Found)
	assert.Equal(t, domain.SeverityNone, analysis.Severity)
	assert.Equal(t, domain.VerdictSimilarItems, analysis.Verdict)
}

func TestSeverityFor(t *testing.T) {
	cases := map[int]domain.Severity{
		0: domain.SeverityNone,
		1: domain.SeverityModerate,
		2: domain.SeverityHigh,
		3: domain.SeverityExcessive,
		7: domain.SeverityExcessive,
	}
	for count, want := range cases {
		assert.Equal(t, want, severityFor(count), "critical count %d", count)
	}
}

func TestAnalyzeDuplicatesEmptyWardrobe(t *testing.T) {
	engine := newTestEngine(t)

	analysis := engine.AnalyzeDuplicates(blackTeeCandidate(), nil)

	assert.False(t, analysis.Found)
	assert.NotNil(t, analysis.Matches)
	assert.Equal(t, domain.SeverityNone, analysis.Severity)
	assert.Equal(t, domain.VerdictNoDuplicates, analysis.Verdict)
}
