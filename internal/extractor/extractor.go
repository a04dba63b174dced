// Package extractor turns raw URLs into clean article text through an
// ordered chain of strategies: a news-article parser with the best
// field coverage, a markdown conversion with the best raw-text recall,
// and a manual tag stripper as the maximum-compatibility last resort.
package extractor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"NewsFlash/internal/domain"
	"NewsFlash/internal/resilience"
)

const (
	defaultMinTextLength = 100
	defaultMaxTextLength = 25000
	defaultFetchTimeout  = 10 * time.Second
	maxBodyBytes         = 2 << 20

	truncationNotice = "\n\n[Article truncated for display]"
	userAgent        = "NewsFlash/1.0"
)

// DefaultNoiseMarkers flag paragraphs that are navigation, ads or
// social chrome rather than article prose.
var DefaultNoiseMarkers = []string{
	"subscribe", "newsletter", "advertisement", "click here", "read more",
	"sign up", "follow us", "share this", "cookie", "privacy policy",
	"terms of service", "related articles", "trending now", "most popular",
	"you may also like", "recommended for you", "sponsored",
	"continue reading", "view comments", "leave a comment",
	"facebook", "twitter", "instagram", "linkedin", "download app",
}

// Strategy is one algorithm for extracting readable text from a page.
// The chain fetches the page once and hands each strategy the same body.
type Strategy interface {
	Name() string
	Extract(url string, body []byte) (domain.ExtractionResult, error)
}

// Options tune the chain's fetching and quality gate.
type Options struct {
	MinTextLength int
	MaxTextLength int
	NoiseMarkers  []string
	FetchTimeout  time.Duration
	Client        *http.Client
}

// Chain runs strategies in order until one produces text that passes
// the quality gate. When all fail it returns an ExtractionError listing
// every strategy's reason; it never returns partially valid text.
type Chain struct {
	strategies   []Strategy
	client       *http.Client
	minLength    int
	maxLength    int
	noiseMarkers []string
	logger       *slog.Logger
}

// NewChain assembles the default strategy order with the given options.
func NewChain(opts Options, logger *slog.Logger) *Chain {
	return NewChainWith(opts, logger,
		NewArticleStrategy(),
		NewMarkdownStrategy(),
		NewPlainTextStrategy(),
	)
}

// NewChainWith builds a chain over explicit strategies, used by tests
// and by deployments that disable individual parsers.
func NewChainWith(opts Options, logger *slog.Logger, strategies ...Strategy) *Chain {
	if opts.MinTextLength <= 0 {
		opts.MinTextLength = defaultMinTextLength
	}
	if opts.MaxTextLength <= 0 {
		opts.MaxTextLength = defaultMaxTextLength
	}
	if len(opts.NoiseMarkers) == 0 {
		opts.NoiseMarkers = DefaultNoiseMarkers
	}
	client := opts.Client
	if client == nil {
		timeout := opts.FetchTimeout
		if timeout <= 0 {
			timeout = defaultFetchTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Chain{
		strategies:   strategies,
		client:       client,
		minLength:    opts.MinTextLength,
		maxLength:    opts.MaxTextLength,
		noiseMarkers: opts.NoiseMarkers,
		logger:       logger,
	}
}

// Extract fetches the URL and walks the strategy chain.
func (c *Chain) Extract(ctx context.Context, url string) (domain.ExtractionResult, error) {
	body, err := c.fetch(ctx, url)
	if err != nil {
		return domain.ExtractionResult{}, resilience.ExtractionError(url, []string{fmt.Sprintf("fetch: %v", err)})
	}

	var reasons []string
	for _, strategy := range c.strategies {
		result, err := strategy.Extract(url, body)
		if err != nil {
			reasons = append(reasons, fmt.Sprintf("%s: %v", strategy.Name(), err))
			continue
		}

		cleaned, err := c.gate(result.Text)
		if err != nil {
			reasons = append(reasons, fmt.Sprintf("%s: %v", strategy.Name(), err))
			continue
		}

		result.Text = cleaned
		result.Strategy = strategy.Name()
		c.debug("extraction succeeded", "url", url, "strategy", strategy.Name(), "chars", len(cleaned), "failed_strategies", len(reasons))
		return result, nil
	}

	return domain.ExtractionResult{}, resilience.ExtractionError(url, reasons)
}

func (c *Chain) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

var (
	multiBlankLines = regexp.MustCompile(`\n\s*\n\s*\n+`)
	multiSpaces     = regexp.MustCompile(`[ \t]+`)
	innerSpaces     = regexp.MustCompile(`\s+`)
)

// gate cleans the text and rejects it when it is empty, below the
// minimum length, or dominated by boilerplate.
func (c *Chain) gate(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("empty text")
	}

	text = multiBlankLines.ReplaceAllString(text, "\n\n")
	text = multiSpaces.ReplaceAllString(text, " ")

	var kept []string
	for _, paragraph := range strings.Split(text, "\n\n") {
		paragraph = strings.TrimSpace(innerSpaces.ReplaceAllString(paragraph, " "))
		if len(paragraph) < 30 || c.isNoise(paragraph) {
			continue
		}
		kept = append(kept, paragraph)
	}

	cleaned := strings.Join(kept, "\n\n")
	if len(cleaned) < c.minLength {
		return "", fmt.Errorf("text below threshold (%d < %d chars)", len(cleaned), c.minLength)
	}
	if len(cleaned) > c.maxLength {
		// Walk back to a rune boundary so the cap never splits a
		// multi-byte character.
		cut := c.maxLength
		for cut > 0 && !utf8.RuneStart(cleaned[cut]) {
			cut--
		}
		cleaned = cleaned[:cut] + truncationNotice
	}
	return cleaned, nil
}

func (c *Chain) isNoise(line string) bool {
	lower := strings.ToLower(line)
	for _, marker := range c.noiseMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}

	letters := 0
	total := 0
	for _, r := range line {
		total++
		if unicode.IsLetter(r) || r == ' ' {
			letters++
		}
	}
	return total > 0 && letters*2 < total
}

func (c *Chain) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
