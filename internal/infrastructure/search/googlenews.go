package search

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mmcdole/gofeed"

	"NewsFlash/internal/domain"
	"NewsFlash/internal/ports"
)

const defaultGoogleNewsEndpoint = "https://news.google.com/rss/search"

// GoogleNewsClient reads Google News RSS search feeds. RSS carries no
// result offset, so paging is emulated by skipping the first offset
// items of the feed.
type GoogleNewsClient struct {
	endpoint string
	language string
	parser   *gofeed.Parser
}

var _ ports.SearchProvider = (*GoogleNewsClient)(nil)

// NewGoogleNewsClient builds the RSS fallback provider; empty endpoint
// uses the public feed.
func NewGoogleNewsClient(endpoint, languageCode string) *GoogleNewsClient {
	if endpoint == "" {
		endpoint = defaultGoogleNewsEndpoint
	}
	if languageCode == "" {
		languageCode = "en"
	}
	return &GoogleNewsClient{
		endpoint: endpoint,
		language: languageCode,
		parser:   gofeed.NewParser(),
	}
}

// SearchNews parses the topic's RSS feed into candidates.
func (c *GoogleNewsClient) SearchNews(ctx context.Context, query string, maxResults, offset int) ([]domain.Candidate, error) {
	feedURL, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	params := feedURL.Query()
	params.Set("q", query)
	params.Set("hl", c.language)
	feedURL.RawQuery = params.Encode()

	feed, err := c.parser.ParseURLWithContext(feedURL.String(), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := feed.Items
	if offset >= len(items) {
		return nil, nil
	}
	items = items[offset:]

	candidates := make([]domain.Candidate, 0, maxResults)
	for _, item := range items {
		if item.Link == "" {
			continue
		}
		candidate := domain.Candidate{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Description,
		}
		if item.PublishedParsed != nil {
			candidate.PublishedAt = item.PublishedParsed.UTC()
		}
		if feed.Title != "" {
			candidate.Source = feed.Title
		}
		candidates = append(candidates, candidate)
		if len(candidates) == maxResults {
			break
		}
	}
	return candidates, nil
}
