package mcpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/analysis"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
)

type analyzerFake struct {
	requests []domain.AnalysisRequest
	err      error
}

func (f *analyzerFake) Analyze(_ context.Context, req domain.AnalysisRequest) (*domain.AnalysisReport, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.AnalysisReport{
		Candidate: req.Candidate,
		Result: &domain.AnalysisResult{
			Recommendation: domain.Recommendation{Action: domain.ActionRecommend, Confidence: 80},
		},
	}, nil
}

func newTestServer(t *testing.T, analyzer *analyzerFake) *Server {
	t.Helper()
	engine, err := analysis.NewEngine(analysis.DefaultCatalog())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return NewServer(analyzer, engine, nil)
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatalf("expected tool content")
	}
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	default:
		t.Fatalf("unexpected content type %T", res.Content[0])
		return ""
	}
}

func TestAnalyzeCandidateToolBuildsRequest(t *testing.T) {
	analyzer := &analyzerFake{}
	srv := newTestServer(t, analyzer)

	res, err := srv.handleAnalyzeCandidate(context.Background(), callRequest("analyze_candidate", map[string]any{
		"user_id":     "user-1",
		"category":    "top",
		"subcategory": "t-shirt",
		"color":       "Black",
		"seasons":     "summer, spring ,",
		"with_advice": true,
	}))
	if err != nil {
		t.Fatalf("handleAnalyzeCandidate() error = %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	if len(analyzer.requests) != 1 {
		t.Fatalf("expected one analyzer call, got %d", len(analyzer.requests))
	}
	got := analyzer.requests[0]
	if got.Candidate.Color != "Black" || !got.WithAdvice || len(got.Candidate.Seasons) != 2 {
		t.Fatalf("unexpected analyzer request: %+v", got)
	}
	if !strings.Contains(resultText(t, res), `"action": "RECOMMEND"`) {
		t.Fatalf("expected recommendation in result, got %s", resultText(t, res))
	}
}

func TestAnalyzeCandidateToolRequiresArguments(t *testing.T) {
	analyzer := &analyzerFake{}
	srv := newTestServer(t, analyzer)

	res, err := srv.handleAnalyzeCandidate(context.Background(), callRequest("analyze_candidate", map[string]any{
		"user_id":  "user-1",
		"category": "top",
	}))
	if err != nil {
		t.Fatalf("handleAnalyzeCandidate() error = %v", err)
	}
	if !res.IsError {
		t.Fatalf("expected tool error for missing subcategory")
	}
	if len(analyzer.requests) != 0 {
		t.Fatalf("analyzer must not be called")
	}
}

func TestAnalyzeCandidateToolHidesInternalErrors(t *testing.T) {
	srv := newTestServer(t, &analyzerFake{err: errors.New("connection refused to 10.0.0.5")})

	res, err := srv.handleAnalyzeCandidate(context.Background(), callRequest("analyze_candidate", map[string]any{
		"user_id": "user-1", "category": "top", "subcategory": "shirt",
	}))
	if err != nil {
		t.Fatalf("handleAnalyzeCandidate() error = %v", err)
	}
	if !res.IsError || resultText(t, res) != "analysis failed" {
		t.Fatalf("expected generic tool error, got %q", resultText(t, res))
	}
}

func TestParseExtractionTool(t *testing.T) {
	srv := newTestServer(t, &analyzerFake{})

	res, err := srv.handleParseExtraction(context.Background(), callRequest("parse_extraction", map[string]any{
		"response": "color: navy\nstyle: casual",
		"category": "top",
	}))
	if err != nil {
		t.Fatalf("handleParseExtraction() error = %v", err)
	}
	if res.IsError || !strings.Contains(resultText(t, res), `"Casual"`) {
		t.Fatalf("unexpected result: %s", resultText(t, res))
	}

	res, err = srv.handleParseExtraction(context.Background(), callRequest("parse_extraction", map[string]any{
		"response": "nothing useful",
		"category": "top",
	}))
	if err != nil {
		t.Fatalf("handleParseExtraction() error = %v", err)
	}
	if !res.IsError {
		t.Fatalf("expected unresolved extraction to be a tool error")
	}
}

func TestExtractionPromptTool(t *testing.T) {
	srv := newTestServer(t, &analyzerFake{})

	res, err := srv.handleExtractionPrompt(context.Background(), callRequest("extraction_prompt", map[string]any{
		"category": "bottom",
	}))
	if err != nil {
		t.Fatalf("handleExtractionPrompt() error = %v", err)
	}
	if res.IsError || !strings.Contains(resultText(t, res), "silhouette") {
		t.Fatalf("expected prompt text, got %q", resultText(t, res))
	}
}

func listedTools(t *testing.T, srv *Server) string {
	t.Helper()
	msg := srv.MCPServer().HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal tools/list response: %v", err)
	}
	return string(raw)
}

func TestServerWithoutAnalyzerServesEngineToolsOnly(t *testing.T) {
	engine, err := analysis.NewEngine(analysis.DefaultCatalog())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	tools := listedTools(t, NewServer(nil, engine, nil))

	for _, name := range []string{`"parse_extraction"`, `"extraction_prompt"`} {
		if !strings.Contains(tools, name) {
			t.Fatalf("expected %s in tools/list: %s", name, tools)
		}
	}
	if strings.Contains(tools, `"analyze_candidate"`) {
		t.Fatalf("analyze_candidate must not be listed without an analyzer: %s", tools)
	}
}

func TestServerWithAnalyzerListsAnalyzeTool(t *testing.T) {
	tools := listedTools(t, newTestServer(t, &analyzerFake{}))
	if !strings.Contains(tools, `"analyze_candidate"`) {
		t.Fatalf("expected analyze_candidate in tools/list: %s", tools)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" summer ,, winter ")
	if len(got) != 2 || got[0] != "summer" || got[1] != "winter" {
		t.Fatalf("unexpected split: %v", got)
	}
	if splitList("   ") != nil {
		t.Fatalf("expected nil for blank input")
	}
}
