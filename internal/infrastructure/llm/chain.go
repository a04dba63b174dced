package llm

import (
	"context"
	"log/slog"
	"strings"

	"NewsFlash/internal/domain"
	"NewsFlash/internal/ports"
	"NewsFlash/internal/resilience"
)

// Chain tries each AI provider in order until one returns a usable
// result. The pipeline's own retry wraps the whole chain, so a single
// pass over the providers is enough here.
type Chain struct {
	providers []ports.AIClient
	logger    *slog.Logger
}

var _ ports.AIClient = (*Chain)(nil)

// NewChain wires providers in priority order.
func NewChain(logger *slog.Logger, providers ...ports.AIClient) *Chain {
	return &Chain{providers: providers, logger: logger}
}

// Name joins the provider names for logs and breaker keys.
func (c *Chain) Name() string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return strings.Join(names, ",")
}

// SummarizeAndClassify walks the provider chain.
func (c *Chain) SummarizeAndClassify(ctx context.Context, title, text, language string) (domain.AIResult, error) {
	var lastErr error
	for _, provider := range c.providers {
		result, err := provider.SummarizeAndClassify(ctx, title, text, language)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if c.logger != nil {
			c.logger.Warn("ai provider failed, trying next", "provider", provider.Name(), "error", err)
		}
		if ctx.Err() != nil {
			return domain.AIResult{}, ctx.Err()
		}
	}
	if lastErr == nil {
		lastErr = resilience.AIServiceError("summarize", nil)
	}
	return domain.AIResult{}, lastErr
}
