package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"NewsFlash/internal/domain"
	"NewsFlash/internal/ports"
	"NewsFlash/internal/resilience"
)

// OllamaClient summarizes articles via a local Ollama server's generate
// endpoint. Useful as an offline fallback behind the hosted provider.
type OllamaClient struct {
	endpoint   string
	model      string
	prompts    map[string]string
	httpClient *http.Client
}

var _ ports.AIClient = (*OllamaClient)(nil)

// NewOllamaClient builds a client; endpoint is the full /api/generate URL.
func NewOllamaClient(endpoint, model string, prompts map[string]string, timeout time.Duration) *OllamaClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OllamaClient{
		endpoint:   endpoint,
		model:      model,
		prompts:    prompts,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name identifies the provider in logs and breaker keys.
func (c *OllamaClient) Name() string { return "ollama" }

// SummarizeAndClassify sends the rendered prompt to Ollama and parses
// the plain-text response.
func (c *OllamaClient) SummarizeAndClassify(ctx context.Context, title, text, language string) (domain.AIResult, error) {
	if c == nil || c.endpoint == "" || c.model == "" {
		return domain.AIResult{}, resilience.AIServiceError("summarize", fmt.Errorf("ollama client misconfigured"))
	}

	body, err := json.Marshal(map[string]any{
		"model":  c.model,
		"prompt": BuildPrompt(c.prompts, language, title, text),
		"stream": false,
	})
	if err != nil {
		return domain.AIResult{}, fmt.Errorf("marshal generate payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.AIResult{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.AIResult{}, resilience.AIServiceError("summarize", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.AIResult{}, resilience.AIServiceError("summarize",
			fmt.Errorf("ollama error %s: %s", resp.Status, strings.TrimSpace(string(payload))))
	}

	var generated struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&generated); err != nil {
		return domain.AIResult{}, resilience.AIServiceError("summarize", fmt.Errorf("decode response: %w", err))
	}

	return ParseSummaryAndSentiment(generated.Response)
}
