package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/infrastructure/llm"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/infrastructure/resilience"
)

const defaultMaxTokens = 512

type Config struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int64
}

// Generator implements the text and advice ports over the Messages API.
type Generator struct {
	client    sdk.Client
	model     string
	maxTokens int64
	executor  *resilience.Executor
}

func NewGenerator(cfg Config, executor *resilience.Executor) (*Generator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "anthropic generator", errors.New("api key is required"))
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "anthropic generator", errors.New("model is required"))
	}

	// Retries are owned by the resilience executor.
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &Generator{
		client:    sdk.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: maxTokens,
		executor:  executor,
	}, nil
}

func (g *Generator) GenerateFromPrompt(ctx context.Context, prompt string) (string, error) {
	return g.complete(ctx, prompt, "generate")
}

func (g *Generator) GenerateAdvice(ctx context.Context, candidate domain.CandidateItem, result domain.AnalysisResult) (string, error) {
	return g.complete(ctx, llm.BuildAdvicePrompt(candidate, result), "advice")
}

func (g *Generator) complete(ctx context.Context, prompt, operation string) (string, error) {
	var text string
	call := func(ctx context.Context) error {
		resp, err := g.client.Messages.New(ctx, sdk.MessageNewParams{
			Model:     sdk.Model(g.model),
			MaxTokens: g.maxTokens,
			Messages: []sdk.MessageParam{
				sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
			},
		})
		if err != nil {
			return fmt.Errorf("anthropic %s: %w", operation, err)
		}

		var b strings.Builder
		for _, block := range resp.Content {
			if block.Type == "text" {
				b.WriteString(block.Text)
			}
		}
		text = b.String()
		return nil
	}

	var err error
	if g.executor != nil {
		err = g.executor.Execute(ctx, "anthropic."+operation, call, classifyAnthropicError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return "", llm.WrapTemporary("anthropic "+operation, err, statusOf)
	}
	return strings.TrimSpace(text), nil
}

func statusOf(err error) (int, bool) {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, true
	}
	return 0, false
}

func classifyAnthropicError(err error) resilience.ErrorClassification {
	return llm.Classify(err, statusOf)
}
