package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"NewsFlash/internal/conversation"
	"NewsFlash/internal/domain"
	"NewsFlash/internal/infrastructure/storage"
	"NewsFlash/internal/language"
	"NewsFlash/internal/ports"
)

func newTestService(search ports.SearchProvider) (*ConversationService, *storage.MemoryRepository) {
	registry := language.NewRegistry(language.Defaults(), "en")
	machine := conversation.NewMachine(registry, nil)
	repo := storage.NewMemoryRepository()

	var pipeline *Pipeline
	if search != nil {
		pipeline = newTestPipeline(search, nil, repo)
	}
	return NewConversationService(machine, repo, pipeline, nil), repo
}

func TestHandleMessageRejectsEmptyInput(t *testing.T) {
	service, _ := newTestService(nil)

	if _, err := service.HandleMessage(context.Background(), "s1", "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if _, err := service.HandleMessage(context.Background(), "", "hello"); err == nil {
		t.Fatalf("expected error for missing session id")
	}
}

func TestConversationEndToEnd(t *testing.T) {
	search := &fakeSearch{fn: func(query string, maxResults, _ int) ([]domain.Candidate, error) {
		return candidatesFor(strings.Fields(query)[0], maxResults), nil
	}}
	service, repo := newTestService(search)
	ctx := context.Background()
	sessionID := NewSessionID()

	reply, err := service.HandleMessage(ctx, sessionID, "Hindi please")
	if err != nil {
		t.Fatalf("language turn: %v", err)
	}
	if reply.Session.Language != "hi" || !reply.Session.LanguageConfirmed {
		t.Fatalf("expected confirmed hi, got %+v", reply.Session)
	}

	if _, err := service.HandleMessage(ctx, sessionID, "technology"); err != nil {
		t.Fatalf("topic turn: %v", err)
	}

	reply, err = service.HandleMessage(ctx, sessionID, "नहीं")
	if err != nil {
		t.Fatalf("stop turn: %v", err)
	}
	if !reply.TriggerSearch {
		t.Fatalf("stop word should trigger search")
	}
	if reply.Session.Stage != domain.StageCompleted {
		t.Fatalf("expected completed stage, got %s", reply.Session.Stage)
	}
	result := reply.Results["technology"]
	if result.Err != nil || len(result.Articles) == 0 {
		t.Fatalf("expected articles for technology, got %+v", result)
	}
	for _, article := range result.Articles {
		if article.Language != "hi" {
			t.Fatalf("expected hi articles, got %q", article.Language)
		}
	}

	stored, found, err := repo.Load(ctx, sessionID)
	if err != nil || !found {
		t.Fatalf("session not persisted: %v", err)
	}
	if stored.Stage != domain.StageCompleted {
		t.Fatalf("persisted stage %s, want completed", stored.Stage)
	}
}

func TestCompletedSessionAcceptsNewTopics(t *testing.T) {
	search := &fakeSearch{fn: func(_ string, maxResults, _ int) ([]domain.Candidate, error) {
		return candidatesFor("x", maxResults), nil
	}}
	service, _ := newTestService(search)
	ctx := context.Background()
	sessionID := NewSessionID()

	for _, msg := range []string{"english", "cricket", "no"} {
		if _, err := service.HandleMessage(ctx, sessionID, msg); err != nil {
			t.Fatalf("turn %q: %v", msg, err)
		}
	}

	reply, err := service.HandleMessage(ctx, sessionID, "weather")
	if err != nil {
		t.Fatalf("post-completion turn: %v", err)
	}
	if reply.TriggerSearch {
		t.Fatalf("new topic must not trigger a search immediately")
	}
	if reply.Session.Stage != domain.StageCollecting {
		t.Fatalf("expected collecting, got %s", reply.Session.Stage)
	}
	if !reply.Session.HasTopic("weather") {
		t.Fatalf("topic weather not recorded")
	}
}

func TestResetDeletesSession(t *testing.T) {
	service, repo := newTestService(nil)
	ctx := context.Background()
	sessionID := NewSessionID()

	if _, err := service.HandleMessage(ctx, sessionID, "english"); err != nil {
		t.Fatalf("turn: %v", err)
	}
	if err := service.Reset(ctx, sessionID); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, found, _ := repo.Load(ctx, sessionID); found {
		t.Fatalf("session still present after reset")
	}
}

// blockingSearch parks inside the provider call until its context is
// cancelled, holding a search in flight for as long as the test needs.
type blockingSearch struct {
	started sync.Once
	inCall  chan struct{}
}

func (b *blockingSearch) SearchNews(ctx context.Context, _ string, maxResults, _ int) ([]domain.Candidate, error) {
	b.started.Do(func() { close(b.inCall) })
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestResetDuringSearchLeavesSessionDeleted(t *testing.T) {
	search := &blockingSearch{inCall: make(chan struct{})}
	service, repo := newTestService(search)
	ctx := context.Background()
	sessionID := NewSessionID()

	for _, msg := range []string{"english", "tech"} {
		if _, err := service.HandleMessage(ctx, sessionID, msg); err != nil {
			t.Fatalf("turn %q: %v", msg, err)
		}
	}

	done := make(chan Reply, 1)
	go func() {
		reply, err := service.HandleMessage(ctx, sessionID, "no")
		if err != nil {
			t.Errorf("search turn: %v", err)
		}
		done <- reply
	}()

	<-search.inCall
	if err := service.Reset(ctx, sessionID); err != nil {
		t.Fatalf("reset: %v", err)
	}

	reply := <-done
	if reply.Results != nil {
		t.Fatalf("cancelled search must not deliver results")
	}
	if _, found, _ := repo.Load(ctx, sessionID); found {
		t.Fatalf("session reappeared after reset")
	}
}

func TestLoadMoreUsesSessionLanguage(t *testing.T) {
	search := &fakeSearch{fn: func(_ string, maxResults, _ int) ([]domain.Candidate, error) {
		return candidatesFor("tech", maxResults), nil
	}}
	service, _ := newTestService(search)
	ctx := context.Background()
	sessionID := NewSessionID()

	for _, msg := range []string{"marathi", "tech", "नाही"} {
		if _, err := service.HandleMessage(ctx, sessionID, msg); err != nil {
			t.Fatalf("turn %q: %v", msg, err)
		}
	}

	articles, err := service.LoadMore(ctx, sessionID, "tech")
	if err != nil {
		t.Fatalf("load more: %v", err)
	}
	for _, article := range articles {
		if article.Language != "mr" {
			t.Fatalf("expected mr articles, got %q", article.Language)
		}
	}
}
