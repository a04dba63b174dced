package ports

import (
	"context"

	"NewsFlash/internal/domain"
)

// SearchProvider queries an external news search service. offset skips
// results already delivered, used by load-more calls.
type SearchProvider interface {
	SearchNews(ctx context.Context, query string, maxResults, offset int) ([]domain.Candidate, error)
}

// AIClient produces a localized summary plus sentiment label for article text.
type AIClient interface {
	Name() string
	SummarizeAndClassify(ctx context.Context, title, text, language string) (domain.AIResult, error)
}

// Extractor turns a raw URL into clean article text.
type Extractor interface {
	Extract(ctx context.Context, url string) (domain.ExtractionResult, error)
}

// SessionRepository persists conversation sessions keyed by session ID.
type SessionRepository interface {
	Load(ctx context.Context, sessionID string) (domain.ConversationSession, bool, error)
	Save(ctx context.Context, session domain.ConversationSession) error
	Delete(ctx context.Context, sessionID string) error
}

// ArticleRepository stores produced summaries per session and topic.
type ArticleRepository interface {
	SaveArticles(ctx context.Context, sessionID, topic string, articles []domain.ArticleSummary) error
	SeenURLs(ctx context.Context, sessionID, topic string) ([]string, error)
}
