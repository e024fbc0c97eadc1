package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
)

const okMessage = `{"id":"msg_1","type":"message","role":"assistant","model":"claude-test",` +
	`"content":[{"type":"text","text":"color: Navy\n"},{"type":"text","text":"style: Business"}],` +
	`"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":1}}`

func TestGeneratorConcatenatesTextBlocks(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("X-Api-Key") != "test-key" {
			t.Errorf("expected api key header, got %q", r.Header.Get("X-Api-Key"))
		}
		_ = json.NewDecoder(r.Body).Decode(&captured)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(okMessage))
	}))
	defer server.Close()

	gen, err := NewGenerator(Config{APIKey: "test-key", Model: "claude-test", BaseURL: server.URL}, nil)
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}

	out, err := gen.GenerateFromPrompt(context.Background(), "describe the blazer")
	if err != nil {
		t.Fatalf("GenerateFromPrompt() error = %v", err)
	}
	if out != "color: Navy\nstyle: Business" {
		t.Fatalf("unexpected output %q", out)
	}
	if captured["model"] != "claude-test" {
		t.Fatalf("unexpected model in request: %v", captured["model"])
	}
	if tokens, _ := captured["max_tokens"].(float64); tokens != defaultMaxTokens {
		t.Fatalf("expected default max tokens, got %v", captured["max_tokens"])
	}
}

func TestGenerateAdviceSendsAnalysisPrompt(t *testing.T) {
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(okMessage))
	}))
	defer server.Close()

	gen, err := NewGenerator(Config{APIKey: "k", Model: "m", BaseURL: server.URL}, nil)
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	_, err = gen.GenerateAdvice(context.Background(),
		domain.CandidateItem{Category: "outerwear", Subcategory: "blazer"},
		domain.AnalysisResult{Recommendation: domain.Recommendation{Action: domain.ActionRecommend}},
	)
	if err != nil {
		t.Fatalf("GenerateAdvice() error = %v", err)
	}
	if !strings.Contains(body, "RECOMMEND") || !strings.Contains(body, "blazer") {
		t.Fatalf("expected analysis in request body, got %s", body)
	}
}

func TestGeneratorMapsOverloadToTemporary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(529)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`))
	}))
	defer server.Close()

	gen, err := NewGenerator(Config{APIKey: "k", Model: "m", BaseURL: server.URL}, nil)
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	_, err = gen.GenerateFromPrompt(context.Background(), "hi")
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected ErrTemporary, got %v", err)
	}
}

func TestGeneratorKeepsClientErrorsPermanent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad model"}}`))
	}))
	defer server.Close()

	gen, err := NewGenerator(Config{APIKey: "k", Model: "m", BaseURL: server.URL}, nil)
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	_, err = gen.GenerateFromPrompt(context.Background(), "hi")
	if err == nil || domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected permanent error, got %v", err)
	}
}

func TestNewGeneratorRequiresKeyAndModel(t *testing.T) {
	if _, err := NewGenerator(Config{Model: "m"}, nil); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without key, got %v", err)
	}
	if _, err := NewGenerator(Config{APIKey: "k"}, nil); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without model, got %v", err)
	}
}
