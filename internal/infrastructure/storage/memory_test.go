package storage

import (
	"context"
	"testing"

	"NewsFlash/internal/domain"
)

func TestMemoryRepositorySessionLifecycle(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if _, found, err := repo.Load(ctx, "missing"); err != nil || found {
		t.Fatalf("expected miss, got found=%v err=%v", found, err)
	}

	session := domain.NewSession("s1", "en")
	session.AddTopic("tech")
	if err := repo.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, found, err := repo.Load(ctx, "s1")
	if err != nil || !found {
		t.Fatalf("load: found=%v err=%v", found, err)
	}
	if loaded.SessionID != "s1" || !loaded.HasTopic("tech") {
		t.Fatalf("unexpected session %+v", loaded)
	}

	if err := repo.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found, _ := repo.Load(ctx, "s1"); found {
		t.Fatalf("session survived delete")
	}
}

func TestMemoryRepositoryArticles(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	batch := []domain.ArticleSummary{
		{URL: "https://example.com/1"},
		{URL: "https://example.com/2"},
	}
	if err := repo.SaveArticles(ctx, "s1", "tech", batch); err != nil {
		t.Fatalf("save articles: %v", err)
	}
	if err := repo.SaveArticles(ctx, "s1", "tech", []domain.ArticleSummary{{URL: "https://example.com/3"}}); err != nil {
		t.Fatalf("append articles: %v", err)
	}

	urls, err := repo.SeenURLs(ctx, "s1", "tech")
	if err != nil {
		t.Fatalf("seen urls: %v", err)
	}
	if len(urls) != 3 {
		t.Fatalf("expected 3 urls, got %v", urls)
	}

	if urls, _ := repo.SeenURLs(ctx, "s1", "sports"); len(urls) != 0 {
		t.Fatalf("unexpected urls for other topic: %v", urls)
	}

	if err := repo.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if urls, _ := repo.SeenURLs(ctx, "s1", "tech"); len(urls) != 0 {
		t.Fatalf("articles survived session delete: %v", urls)
	}
}
