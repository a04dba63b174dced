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

// OpenAIClient summarizes articles via OpenAI-compatible chat APIs.
type OpenAIClient struct {
	endpoint   string
	model      string
	apiKey     string
	prompts    map[string]string
	httpClient *http.Client
}

var _ ports.AIClient = (*OpenAIClient)(nil)

// OpenAIConfig carries the connection settings for an OpenAI-compatible API.
type OpenAIConfig struct {
	Endpoint string
	Model    string
	APIKey   string
	Prompts  map[string]string
	Timeout  time.Duration
}

// NewOpenAIClient builds a client from configuration.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAIClient{
		endpoint:   cfg.Endpoint,
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		prompts:    cfg.Prompts,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name identifies the provider in logs and breaker keys.
func (c *OpenAIClient) Name() string { return "openai" }

// SummarizeAndClassify posts the language-specific prompt as a user
// message and parses the labeled completion.
func (c *OpenAIClient) SummarizeAndClassify(ctx context.Context, title, text, language string) (domain.AIResult, error) {
	if c == nil || c.endpoint == "" || c.model == "" {
		return domain.AIResult{}, resilience.AIServiceError("summarize", fmt.Errorf("openai client misconfigured"))
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": BuildPrompt(c.prompts, language, title, text)},
		},
	})
	if err != nil {
		return domain.AIResult{}, fmt.Errorf("marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.AIResult{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.AIResult{}, resilience.AIServiceError("summarize", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.AIResult{}, resilience.AIServiceError("summarize",
			fmt.Errorf("openai error %s: %s", resp.Status, strings.TrimSpace(string(payload))))
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return domain.AIResult{}, resilience.AIServiceError("summarize", fmt.Errorf("decode response: %w", err))
	}
	if len(completion.Choices) == 0 {
		return domain.AIResult{}, resilience.AIServiceError("summarize", fmt.Errorf("empty choices"))
	}

	return ParseSummaryAndSentiment(completion.Choices[0].Message.Content)
}
