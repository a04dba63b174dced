package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"NewsFlash/internal/domain"
	"NewsFlash/internal/language"
	"NewsFlash/internal/ports"
	"NewsFlash/internal/resilience"
)

const (
	depSearch = "search"
	depAI     = "ai"

	maxTitleChars  = 200
	maxAITextChars = 800
)

// Options tune the retrieval and summarization pipeline.
type Options struct {
	MaxResults      int
	LoadMoreCount   int
	TopicWorkers    int
	ArticleWorkers  int
	UseAISummary    bool
	AISummaryMin    int
	SummaryMaxChars int
	AIDelay         time.Duration
	Retry           resilience.RetryPolicy
}

func (o Options) normalized() Options {
	if o.MaxResults <= 0 {
		o.MaxResults = 5
	}
	if o.LoadMoreCount <= 0 {
		o.LoadMoreCount = 5
	}
	if o.TopicWorkers <= 0 {
		o.TopicWorkers = 3
	}
	if o.ArticleWorkers <= 0 {
		o.ArticleWorkers = 4
	}
	if o.AISummaryMin <= 0 {
		o.AISummaryMin = 150
	}
	if o.SummaryMaxChars <= 0 {
		o.SummaryMaxChars = 200
	}
	if o.Retry.MaxAttempts == 0 {
		o.Retry = resilience.DefaultRetryPolicy()
	}
	return o
}

// PipelineDeps wires the pipeline's collaborators. Articles may be nil
// when persistence is not configured.
type PipelineDeps struct {
	Search    ports.SearchProvider
	AI        ports.AIClient
	Extractor ports.Extractor
	Articles  ports.ArticleRepository
	Registry  *language.Registry
	Breaker   *resilience.Breaker
	Logger    *slog.Logger
	Options   Options
}

// Pipeline fetches candidate articles per topic, extracts their text,
// and produces localized summaries with sentiment labels. Every
// external failure degrades to a usable result; only a total search
// failure for a topic surfaces to the caller.
type Pipeline struct {
	search    ports.SearchProvider
	ai        ports.AIClient
	extractor ports.Extractor
	articles  ports.ArticleRepository
	registry  *language.Registry
	breaker   *resilience.Breaker
	logger    *slog.Logger
	opts      Options

	aiMu       sync.Mutex
	nextAICall time.Time
}

// NewPipeline constructs the pipeline.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		search:    deps.Search,
		ai:        deps.AI,
		extractor: deps.Extractor,
		articles:  deps.Articles,
		registry:  deps.Registry,
		breaker:   deps.Breaker,
		logger:    deps.Logger,
		opts:      deps.Options.normalized(),
	}
}

// Search processes all topics concurrently with a bounded worker pool
// and returns one TopicResult per topic. Article order within a topic
// follows the search provider's order regardless of worker completion.
func (p *Pipeline) Search(ctx context.Context, sessionID string, topics []string, languageCode string) map[string]domain.TopicResult {
	meta, fellBack := p.registry.Resolve(languageCode)
	if fellBack {
		p.log().Info("language fallback for search", "requested", languageCode, "using", meta.Code)
	}

	results := make(map[string]domain.TopicResult, len(topics))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.TopicWorkers)
	for _, topic := range topics {
		topic := topic
		g.Go(func() error {
			articles, err := p.processTopic(gctx, topic, meta.Code, p.opts.MaxResults, 0, nil)
			result := domain.TopicResult{Topic: topic, Articles: articles}
			if err != nil {
				result.Err = fmt.Errorf("search failed for topic %s: %w", topic, err)
				p.log().Error("topic search failed", "topic", topic, "error", err)
			}
			mu.Lock()
			results[topic] = result
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		// The session was reset mid-flight; discard everything.
		return map[string]domain.TopicResult{}
	}

	p.persist(ctx, sessionID, results)
	return results
}

// LoadMore fetches an additional batch for one topic, skipping URLs the
// session has already seen, and returns only the new summaries.
func (p *Pipeline) LoadMore(ctx context.Context, sessionID, topic, languageCode string, seenURLs []string) ([]domain.ArticleSummary, error) {
	meta, _ := p.registry.Resolve(languageCode)

	if seenURLs == nil && p.articles != nil {
		stored, err := p.articles.SeenURLs(ctx, sessionID, topic)
		if err != nil {
			p.log().Warn("seen-url lookup failed, duplicates possible", "topic", topic, "error", err)
		} else {
			seenURLs = stored
		}
	}

	articles, err := p.processTopic(ctx, topic, meta.Code, p.opts.LoadMoreCount, len(seenURLs), seenURLs)
	if err != nil {
		return nil, fmt.Errorf("load more for topic %s: %w", topic, err)
	}

	if p.articles != nil && len(articles) > 0 {
		if err := p.articles.SaveArticles(ctx, sessionID, topic, articles); err != nil {
			p.log().Warn("persist load-more articles failed", "topic", topic, "error", err)
		}
	}
	return articles, nil
}

func (p *Pipeline) processTopic(ctx context.Context, topic, languageCode string, count, offset int, seenURLs []string) ([]domain.ArticleSummary, error) {
	var candidates []domain.Candidate
	err := resilience.Retry(ctx, p.breaker.Budget(depSearch, p.opts.Retry), func(ctx context.Context) error {
		var err error
		candidates, err = p.search.SearchNews(ctx, topic+" news", count+len(seenURLs), offset)
		return err
	})
	p.breaker.Record(depSearch, err)
	if err != nil {
		return nil, err
	}

	candidates = dropSeen(candidates, seenURLs)
	if len(candidates) > count {
		candidates = candidates[:count]
	}

	summaries := make([]domain.ArticleSummary, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.ArticleWorkers)
	for i, candidate := range candidates {
		i, candidate := i, candidate
		g.Go(func() error {
			summaries[i] = p.processCandidate(gctx, topic, candidate, languageCode)
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return summaries, nil
}

// processCandidate never fails: extraction falls back to the provider's
// snippet, AI failures fall back to truncated text with a neutral label.
func (p *Pipeline) processCandidate(ctx context.Context, topic string, candidate domain.Candidate, languageCode string) domain.ArticleSummary {
	text := candidate.Snippet
	title := candidate.Title

	if p.extractor != nil {
		extraction, err := p.extractor.Extract(ctx, candidate.URL)
		if err != nil {
			p.log().Debug("extraction failed, using snippet", "url", candidate.URL, "error", err)
		} else {
			text = extraction.Text
			if title == "" && extraction.Title != "" {
				title = extraction.Title
			}
		}
	}

	ai := p.summarize(ctx, title, text, languageCode)
	return domain.ArticleSummary{
		Title:       title,
		URL:         candidate.URL,
		Source:      candidate.Source,
		PublishedAt: candidate.PublishedAt,
		Summary:     ai.Summary,
		Sentiment:   ai.Sentiment,
		Language:    languageCode,
	}
}

func (p *Pipeline) summarize(ctx context.Context, title, text, languageCode string) domain.AIResult {
	fallback := domain.AIResult{
		Summary:   resilience.TruncateSummary(text, p.opts.SummaryMaxChars),
		Sentiment: domain.SentimentNeutral,
	}

	if !p.opts.UseAISummary || p.ai == nil || len(text) < p.opts.AISummaryMin {
		return fallback
	}

	var result domain.AIResult
	err := resilience.Retry(ctx, p.breaker.Budget(depAI, p.opts.Retry), func(ctx context.Context) error {
		p.waitAITurn(ctx)
		var err error
		result, err = p.ai.SummarizeAndClassify(ctx, clip(title, maxTitleChars), clip(text, maxAITextChars), languageCode)
		return err
	})
	p.breaker.Record(depAI, err)
	if err != nil {
		p.log().Warn("falling back",
			"operation", "summarize_and_classify",
			"key", clip(title, 50),
			"error", err)
		return fallback
	}

	if result.Summary == "" {
		result.Summary = fallback.Summary
	}
	if !domain.ValidSentiment(result.Sentiment) {
		p.log().Warn("unresolved sentiment, defaulting to neutral", "title", clip(title, 50))
		result.Sentiment = domain.SentimentNeutral
	}
	return result
}

// waitAITurn enforces the minimum delay between consecutive AI requests
// across all workers, respecting provider quotas.
func (p *Pipeline) waitAITurn(ctx context.Context) {
	if p.opts.AIDelay <= 0 {
		return
	}

	p.aiMu.Lock()
	now := time.Now()
	wait := p.nextAICall.Sub(now)
	if wait < 0 {
		wait = 0
	}
	p.nextAICall = now.Add(wait + p.opts.AIDelay)
	p.aiMu.Unlock()

	if wait > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(wait):
		}
	}
}

func (p *Pipeline) persist(ctx context.Context, sessionID string, results map[string]domain.TopicResult) {
	if p.articles == nil {
		return
	}
	for topic, result := range results {
		if result.Err != nil || len(result.Articles) == 0 {
			continue
		}
		if err := p.articles.SaveArticles(ctx, sessionID, topic, result.Articles); err != nil {
			p.log().Warn("persist articles failed", "topic", topic, "error", err)
		}
	}
}

func (p *Pipeline) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return slog.Default()
}

func dropSeen(candidates []domain.Candidate, seenURLs []string) []domain.Candidate {
	if len(seenURLs) == 0 {
		return candidates
	}
	seen := make(map[string]struct{}, len(seenURLs))
	for _, url := range seenURLs {
		seen[url] = struct{}{}
	}
	kept := candidates[:0]
	for _, c := range candidates {
		if _, ok := seen[c.URL]; !ok {
			kept = append(kept, c)
		}
	}
	return kept
}

func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
