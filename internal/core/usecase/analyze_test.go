package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
)

type adviceFake struct {
	advice string
	err    error
	calls  int
}

func (f *adviceFake) GenerateAdvice(context.Context, domain.CandidateItem, domain.AnalysisResult) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.advice, nil
}

func ownedBlackTee() domain.WardrobeItem {
	return domain.WardrobeItem{
		ID:          "tee-1",
		UserID:      "user-1",
		Name:        "Black tee",
		Category:    "top",
		Subcategory: "t-shirt",
		Color:       "Black",
		Silhouette:  "Fitted",
		Style:       "Casual",
		Material:    "Cotton",
	}
}

func ownedRedSkirt() domain.WardrobeItem {
	return domain.WardrobeItem{
		ID:          "skirt-1",
		UserID:      "user-1",
		Category:    "bottom",
		Subcategory: "skirt",
		Color:       "Red",
		Style:       "Elegant",
	}
}

func TestAnalyzeFlagsCriticalDuplicate(t *testing.T) {
	repo := &wardrobeRepoFake{items: map[string]domain.WardrobeItem{
		"tee-1":   ownedBlackTee(),
		"skirt-1": ownedRedSkirt(),
	}}
	observer := &observerFake{}
	uc := NewAnalyzeUseCase(repo, newTestEngine(t), nil, nil, observer)

	report, err := uc.Analyze(context.Background(), domain.AnalysisRequest{
		UserID: "user-1",
		Candidate: domain.CandidateItem{
			Category:    "Top",
			Subcategory: "T-Shirt",
			Color:       "Black",
			Silhouette:  "Fitted",
			Style:       "Casual",
			Material:    "Cotton",
		},
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if repo.listUserID != "user-1" || repo.listFilter.Category != "top" {
		t.Fatalf("expected category-scoped lookup, got user=%q filter=%+v", repo.listUserID, repo.listFilter)
	}
	if report.Result == nil {
		t.Fatalf("expected analysis result")
	}
	dup := report.Result.DuplicateAnalysis
	if dup.Verdict != domain.VerdictCriticalDuplicates || dup.Count != 1 {
		t.Fatalf("unexpected duplicate analysis: %+v", dup)
	}
	if dup.Matches[0].SimilarityScore != 100 {
		t.Fatalf("expected score 100, got %d", dup.Matches[0].SimilarityScore)
	}
	if report.Result.Recommendation.Action != domain.ActionConsider {
		t.Fatalf("expected CONSIDER, got %s", report.Result.Recommendation.Action)
	}
	if len(observer.analyses) != 1 {
		t.Fatalf("expected analysis to be observed once, got %d", len(observer.analyses))
	}
}

func TestAnalyzeExtractsMissingAttributes(t *testing.T) {
	repo := &wardrobeRepoFake{items: map[string]domain.WardrobeItem{"tee-1": ownedBlackTee()}}
	gen := &generatorFake{response: "color: grey\nsilhouette: fitted\nstyle: casual"}
	observer := &observerFake{}
	uc := NewAnalyzeUseCase(repo, newTestEngine(t), gen, nil, observer)

	report, err := uc.Analyze(context.Background(), domain.AnalysisRequest{
		UserID:      "user-1",
		Candidate:   domain.CandidateItem{Category: "top", Subcategory: "t-shirt", Material: "Cotton"},
		Description: "grey fitted cotton tee",
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if report.Extracted == nil {
		t.Fatalf("expected extracted attributes")
	}
	if report.Candidate.Color != "Grey" || report.Candidate.Style != "Casual" {
		t.Fatalf("expected extracted values merged into candidate, got %+v", report.Candidate)
	}
	if report.Result == nil || report.Result.DuplicateAnalysis.Count != 1 {
		t.Fatalf("expected one match against owned tee, got %+v", report.Result)
	}
	if len(observer.extractions) != 1 || observer.extractions[0] != "ready" {
		t.Fatalf("unexpected extraction outcomes: %v", observer.extractions)
	}
}

func TestAnalyzeKeepsCallerAttributesOverExtracted(t *testing.T) {
	repo := &wardrobeRepoFake{items: map[string]domain.WardrobeItem{}}
	gen := &generatorFake{response: "color: White\nsilhouette: Loose\nstyle: Sporty"}
	uc := NewAnalyzeUseCase(repo, newTestEngine(t), gen, nil, nil)

	report, err := uc.Analyze(context.Background(), domain.AnalysisRequest{
		UserID:      "user-1",
		Candidate:   domain.CandidateItem{Category: "top", Subcategory: "t-shirt", Color: "Navy"},
		Description: "sporty tee",
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if report.Candidate.Color != "Navy" || report.Candidate.Style != "Sporty" {
		t.Fatalf("unexpected merge result: %+v", report.Candidate)
	}
}

func TestAnalyzeSkipsDuplicateCheckWhenExtractionUnresolved(t *testing.T) {
	repo := &wardrobeRepoFake{items: map[string]domain.WardrobeItem{"tee-1": ownedBlackTee()}}
	gen := &generatorFake{response: "I am not sure what this is."}
	observer := &observerFake{}
	uc := NewAnalyzeUseCase(repo, newTestEngine(t), gen, nil, observer)

	report, err := uc.Analyze(context.Background(), domain.AnalysisRequest{
		UserID:      "user-1",
		Candidate:   domain.CandidateItem{Category: "top", Subcategory: "t-shirt"},
		Description: "a shirt",
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if !report.DuplicateCheckSkipped || report.Result != nil {
		t.Fatalf("expected skipped duplicate check, got %+v", report)
	}
	if len(observer.analyses) != 0 {
		t.Fatalf("skipped analysis must not be observed")
	}
	if len(observer.extractions) != 1 || observer.extractions[0] != "skipped" {
		t.Fatalf("unexpected extraction outcomes: %v", observer.extractions)
	}
}

func TestAnalyzeReturnsGeneratorError(t *testing.T) {
	errGen := domain.WrapError(domain.ErrTemporary, "ollama generate", errors.New("timeout"))
	uc := NewAnalyzeUseCase(&wardrobeRepoFake{}, newTestEngine(t), &generatorFake{err: errGen}, nil, nil)

	_, err := uc.Analyze(context.Background(), domain.AnalysisRequest{
		UserID:      "user-1",
		Candidate:   domain.CandidateItem{Category: "top", Subcategory: "t-shirt"},
		Description: "a shirt",
	})
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected ErrTemporary, got %v", err)
	}
}

func TestAnalyzeWithoutGeneratorUsesGivenAttributes(t *testing.T) {
	repo := &wardrobeRepoFake{items: map[string]domain.WardrobeItem{"tee-1": ownedBlackTee()}}
	uc := NewAnalyzeUseCase(repo, newTestEngine(t), nil, nil, nil)

	report, err := uc.Analyze(context.Background(), domain.AnalysisRequest{
		UserID:      "user-1",
		Candidate:   domain.CandidateItem{Category: "top", Subcategory: "t-shirt", Silhouette: "Oversized"},
		Description: "oversized tee",
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if report.Extracted != nil {
		t.Fatalf("expected no extraction without a generator")
	}
	if report.Result == nil || report.Result.DuplicateAnalysis.Found {
		t.Fatalf("expected no duplicates, got %+v", report.Result)
	}
}

func TestAnalyzeAddsAdviceWhenRequested(t *testing.T) {
	repo := &wardrobeRepoFake{items: map[string]domain.WardrobeItem{}}
	advisor := &adviceFake{advice: "Go for it."}
	uc := NewAnalyzeUseCase(repo, newTestEngine(t), nil, advisor, nil)

	req := domain.AnalysisRequest{
		UserID:    "user-1",
		Candidate: domain.CandidateItem{Category: "top", Subcategory: "t-shirt", Color: "Black", Style: "Casual"},
	}
	report, err := uc.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if report.Advice != "" || advisor.calls != 0 {
		t.Fatalf("advice must only be generated on request")
	}

	req.WithAdvice = true
	report, err = uc.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if report.Advice != "Go for it." {
		t.Fatalf("expected advice, got %q", report.Advice)
	}
}

func TestAnalyzeIgnoresAdviceFailure(t *testing.T) {
	repo := &wardrobeRepoFake{items: map[string]domain.WardrobeItem{}}
	advisor := &adviceFake{err: errors.New("model unavailable")}
	uc := NewAnalyzeUseCase(repo, newTestEngine(t), nil, advisor, nil)

	report, err := uc.Analyze(context.Background(), domain.AnalysisRequest{
		UserID:     "user-1",
		Candidate:  domain.CandidateItem{Category: "top", Subcategory: "t-shirt", Color: "Black", Style: "Casual"},
		WithAdvice: true,
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if report.Result == nil || report.Advice != "" {
		t.Fatalf("expected result without advice, got %+v", report)
	}
}

func TestAnalyzeValidatesRequest(t *testing.T) {
	uc := NewAnalyzeUseCase(&wardrobeRepoFake{}, newTestEngine(t), nil, nil, nil)

	cases := []domain.AnalysisRequest{
		{Candidate: domain.CandidateItem{Category: "top", Subcategory: "t-shirt"}},
		{UserID: "user-1", Candidate: domain.CandidateItem{Subcategory: "t-shirt"}},
		{UserID: "user-1", Candidate: domain.CandidateItem{Category: "top"}},
	}
	for _, req := range cases {
		_, err := uc.Analyze(context.Background(), req)
		if !domain.IsKind(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", req, err)
		}
	}
}

func TestAnalyzeWrapsRepositoryError(t *testing.T) {
	repo := &wardrobeRepoFake{listErr: errors.New("connection refused")}
	uc := NewAnalyzeUseCase(repo, newTestEngine(t), nil, nil, nil)

	_, err := uc.Analyze(context.Background(), domain.AnalysisRequest{
		UserID:    "user-1",
		Candidate: domain.CandidateItem{Category: "top", Subcategory: "t-shirt", Color: "Black", Style: "Casual"},
	})
	if err == nil || !strings.Contains(err.Error(), "load wardrobe") {
		t.Fatalf("expected wrapped repository error, got %v", err)
	}
}
