package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/analysis"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/ports"
)

const (
	serverName    = "wardrobe-assistant"
	serverVersion = "1.0.0"
)

// Server exposes wardrobe analysis as MCP tools. analyze_candidate is only
// registered when an analyzer is configured.
type Server struct {
	analyzer ports.ItemAnalyzer
	engine   *analysis.Engine
	logger   *slog.Logger
	mcp      *server.MCPServer
}

func NewServer(analyzer ports.ItemAnalyzer, engine *analysis.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		analyzer: analyzer,
		engine:   engine,
		logger:   logger,
		mcp:      server.NewMCPServer(serverName, serverVersion, server.WithToolCapabilities(false)),
	}
	s.registerTools()
	return s
}

func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio blocks until stdin is closed.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	if s.analyzer != nil {
		s.registerAnalyzeTool()
	}

	s.mcp.AddTool(mcp.NewTool("parse_extraction",
		mcp.WithDescription("Validate a model answer of key: value lines against the attribute catalog."),
		mcp.WithString("response", mcp.Required(), mcp.Description("Raw model answer")),
		mcp.WithString("category", mcp.Required(), mcp.Description("Category used to pick silhouette options")),
	), s.handleParseExtraction)

	s.mcp.AddTool(mcp.NewTool("extraction_prompt",
		mcp.WithDescription("Build the attribute extraction prompt for a category."),
		mcp.WithString("category", mcp.Required(), mcp.Description("Category of the item")),
		mcp.WithString("subcategory", mcp.Description("Subcategory of the item")),
	), s.handleExtractionPrompt)
}

func (s *Server) registerAnalyzeTool() {
	s.mcp.AddTool(mcp.NewTool("analyze_candidate",
		mcp.WithDescription("Check a candidate item against the user's wardrobe for duplicates and variety impact."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Owner of the wardrobe")),
		mcp.WithString("category", mcp.Required(), mcp.Description("Category, e.g. top or bottom")),
		mcp.WithString("subcategory", mcp.Required(), mcp.Description("Subcategory, e.g. t-shirt")),
		mcp.WithString("color", mcp.Description("Color of the candidate")),
		mcp.WithString("silhouette", mcp.Description("Silhouette of the candidate")),
		mcp.WithString("style", mcp.Description("Style of the candidate")),
		mcp.WithString("material", mcp.Description("Material of the candidate")),
		mcp.WithString("seasons", mcp.Description("Comma separated seasons")),
		mcp.WithString("description", mcp.Description("Free text used to extract missing attributes")),
		mcp.WithBoolean("with_advice", mcp.Description("Ask the language model for a short narrative")),
	), s.handleAnalyzeCandidate)
}

func (s *Server) handleAnalyzeCandidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := req.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	subcategory, err := req.RequireString("subcategory")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := s.analyzer.Analyze(ctx, domain.AnalysisRequest{
		UserID: userID,
		Candidate: domain.CandidateItem{
			Category:    category,
			Subcategory: subcategory,
			Color:       req.GetString("color", ""),
			Silhouette:  req.GetString("silhouette", ""),
			Style:       req.GetString("style", ""),
			Material:    req.GetString("material", ""),
			Seasons:     splitList(req.GetString("seasons", "")),
		},
		Description: req.GetString("description", ""),
		WithAdvice:  req.GetBool("with_advice", false),
	})
	if err != nil {
		if domain.IsKind(err, domain.ErrInvalidInput) || domain.IsKind(err, domain.ErrTemporary) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		s.logger.Error("mcp_analyze_failed", "user_id", userID, "error", err)
		return mcp.NewToolResultError("analysis failed"), nil
	}

	s.logger.Info("mcp_analyze_completed", "user_id", userID, "category", report.Candidate.Category)
	return jsonResult(report)
}

func (s *Server) handleParseExtraction(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	response, err := req.RequireString("response")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	attrs, ok := s.engine.ParseExtractionResponse(response, category)
	if !ok {
		return mcp.NewToolResultError(domain.ErrExtractionUnresolved.Error()), nil
	}
	return jsonResult(attrs)
}

func (s *Server) handleExtractionPrompt(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.engine.GenerateExtractionPrompt(category, req.GetString("subcategory", ""))), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
