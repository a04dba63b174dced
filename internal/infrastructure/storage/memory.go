package storage

import (
	"context"
	"sync"

	"NewsFlash/internal/domain"
	"NewsFlash/internal/ports"
)

// MemoryRepository is an in-process session and article store, used by
// the CLI chat command and by tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]domain.ConversationSession
	articles map[string]map[string][]domain.ArticleSummary
}

var _ ports.SessionRepository = (*MemoryRepository)(nil)
var _ ports.ArticleRepository = (*MemoryRepository)(nil)

// NewMemoryRepository builds an empty store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		sessions: map[string]domain.ConversationSession{},
		articles: map[string]map[string][]domain.ArticleSummary{},
	}
}

func (r *MemoryRepository) Load(_ context.Context, sessionID string) (domain.ConversationSession, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[sessionID]
	return session, ok, nil
}

func (r *MemoryRepository) Save(_ context.Context, session domain.ConversationSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.SessionID] = session
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	delete(r.articles, sessionID)
	return nil
}

func (r *MemoryRepository) SaveArticles(_ context.Context, sessionID, topic string, articles []domain.ArticleSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	byTopic, ok := r.articles[sessionID]
	if !ok {
		byTopic = map[string][]domain.ArticleSummary{}
		r.articles[sessionID] = byTopic
	}
	byTopic[topic] = append(byTopic[topic], articles...)
	return nil
}

func (r *MemoryRepository) SeenURLs(_ context.Context, sessionID, topic string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var urls []string
	for _, article := range r.articles[sessionID][topic] {
		urls = append(urls, article.URL)
	}
	return urls, nil
}
