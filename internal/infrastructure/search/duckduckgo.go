// Package search implements the external news-search collaborators: a
// DuckDuckGo news client and a Google News RSS fallback, plus a chain
// that tries providers in order.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"NewsFlash/internal/domain"
	"NewsFlash/internal/ports"
)

const defaultDuckDuckGoEndpoint = "https://duckduckgo.com/news.js"

// DuckDuckGoClient queries DuckDuckGo's news endpoint. It is the
// primary provider because it supports arbitrary queries with offsets.
type DuckDuckGoClient struct {
	endpoint string
	client   *http.Client
}

var _ ports.SearchProvider = (*DuckDuckGoClient)(nil)

// NewDuckDuckGoClient builds a client; empty endpoint uses the default.
func NewDuckDuckGoClient(endpoint string, client *http.Client) *DuckDuckGoClient {
	if endpoint == "" {
		endpoint = defaultDuckDuckGoEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &DuckDuckGoClient{endpoint: endpoint, client: client}
}

type ddgResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Excerpt string `json:"excerpt"`
		Source  string `json:"source"`
		Date    int64  `json:"date"`
	} `json:"results"`
}

// SearchNews returns up to maxResults candidates starting at offset.
func (c *DuckDuckGoClient) SearchNews(ctx context.Context, query string, maxResults, offset int) ([]domain.Candidate, error) {
	endpoint, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	params := endpoint.Query()
	params.Set("q", query)
	params.Set("o", "json")
	params.Set("p", "1")
	if offset > 0 {
		params.Set("s", strconv.Itoa(offset))
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "NewsFlash/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned %s", resp.Status)
	}

	var payload ddgResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	candidates := make([]domain.Candidate, 0, len(payload.Results))
	for _, r := range payload.Results {
		if r.URL == "" {
			continue
		}
		candidate := domain.Candidate{
			Title:   r.Title,
			URL:     r.URL,
			Source:  r.Source,
			Snippet: r.Excerpt,
		}
		if r.Date > 0 {
			candidate.PublishedAt = time.Unix(r.Date, 0).UTC()
		}
		candidates = append(candidates, candidate)
		if len(candidates) == maxResults {
			break
		}
	}
	return candidates, nil
}
