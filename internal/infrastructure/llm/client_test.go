package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"NewsFlash/internal/domain"
	"NewsFlash/internal/resilience"
)

func TestOpenAIClientParsesCompletion(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "Summary: All good.\nSentiment: positive"}},
			},
		})
	}))
	defer server.Close()

	client := NewOpenAIClient(OpenAIConfig{Endpoint: server.URL, Model: "gpt-4o-mini", APIKey: "secret"})
	result, err := client.SummarizeAndClassify(context.Background(), "Title", "Some article text.", "en")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if result.Summary != "All good." || result.Sentiment != domain.SentimentPositive {
		t.Fatalf("unexpected result %+v", result)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("missing bearer auth, got %q", gotAuth)
	}
	if gotBody["model"] != "gpt-4o-mini" {
		t.Fatalf("model not sent, got %v", gotBody["model"])
	}
}

func TestOpenAIClientClassifiesHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewOpenAIClient(OpenAIConfig{Endpoint: server.URL, Model: "m"})
	_, err := client.SummarizeAndClassify(context.Background(), "T", "X", "en")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !resilience.IsKind(err, resilience.KindAIService) {
		t.Fatalf("expected ai_service kind, got %v", err)
	}
	if resilience.Retryable(err) {
		t.Fatalf("401 must be non-retryable: %v", err)
	}
}

func TestOllamaClientParsesResponse(t *testing.T) {
	var gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotPrompt = req.Prompt
		_ = json.NewEncoder(w).Encode(map[string]string{
			"response": "Summary: Quiet day in markets.\nSentiment: neutral",
		})
	}))
	defer server.Close()

	client := NewOllamaClient(server.URL, "llama3", nil, 0)
	result, err := client.SummarizeAndClassify(context.Background(), "Markets", "Long article text.", "en")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if result.Summary != "Quiet day in markets." || result.Sentiment != domain.SentimentNeutral {
		t.Fatalf("unexpected result %+v", result)
	}
	if !strings.Contains(gotPrompt, "Markets") {
		t.Fatalf("prompt missing title: %q", gotPrompt)
	}
}

type scriptedAI struct {
	name   string
	result domain.AIResult
	err    error
	calls  int
}

func (s *scriptedAI) Name() string { return s.name }

func (s *scriptedAI) SummarizeAndClassify(context.Context, string, string, string) (domain.AIResult, error) {
	s.calls++
	return s.result, s.err
}

func TestChainFallsThroughToNextProvider(t *testing.T) {
	broken := &scriptedAI{name: "broken", err: fmt.Errorf("timeout")}
	healthy := &scriptedAI{name: "healthy", result: domain.AIResult{Summary: "ok", Sentiment: domain.SentimentNeutral}}

	chain := NewChain(nil, broken, healthy)
	result, err := chain.SummarizeAndClassify(context.Background(), "T", "X", "en")
	if err != nil {
		t.Fatalf("chain: %v", err)
	}
	if result.Summary != "ok" {
		t.Fatalf("unexpected result %+v", result)
	}
	if broken.calls != 1 || healthy.calls != 1 {
		t.Fatalf("call counts broken=%d healthy=%d", broken.calls, healthy.calls)
	}
}

func TestChainReturnsLastErrorWhenAllFail(t *testing.T) {
	first := &scriptedAI{name: "a", err: fmt.Errorf("first failure")}
	second := &scriptedAI{name: "b", err: fmt.Errorf("second failure")}

	chain := NewChain(nil, first, second)
	_, err := chain.SummarizeAndClassify(context.Background(), "T", "X", "en")
	if err == nil || !strings.Contains(err.Error(), "second failure") {
		t.Fatalf("expected last provider error, got %v", err)
	}
}
