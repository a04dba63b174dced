package search

import (
	"context"
	"fmt"
	"log/slog"

	"NewsFlash/internal/domain"
	"NewsFlash/internal/ports"
)

// Chain tries each provider in order and returns the first non-empty
// answer, so an RSS fallback keeps search alive when the primary
// provider is unreachable.
type Chain struct {
	providers []ports.SearchProvider
	logger    *slog.Logger
}

var _ ports.SearchProvider = (*Chain)(nil)

// NewChain wires providers in priority order.
func NewChain(logger *slog.Logger, providers ...ports.SearchProvider) *Chain {
	return &Chain{providers: providers, logger: logger}
}

// SearchNews walks the provider chain.
func (c *Chain) SearchNews(ctx context.Context, query string, maxResults, offset int) ([]domain.Candidate, error) {
	var lastErr error
	for i, provider := range c.providers {
		candidates, err := provider.SearchNews(ctx, query, maxResults, offset)
		if err == nil && len(candidates) > 0 {
			return candidates, nil
		}
		if err != nil {
			lastErr = err
			if c.logger != nil {
				c.logger.Warn("search provider failed, trying next", "provider", i, "query", query, "error", err)
			}
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("all search providers failed: %w", lastErr)
	}
	return nil, nil
}
