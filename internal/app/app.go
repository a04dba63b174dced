// Package app assembles configuration into a runnable application: it
// builds the language registry, state machine, search and AI provider
// chains, extraction chain, storage, and the conversation service.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"

	"NewsFlash/internal/config"
	"NewsFlash/internal/conversation"
	"NewsFlash/internal/extractor"
	"NewsFlash/internal/infrastructure/llm"
	"NewsFlash/internal/infrastructure/search"
	"NewsFlash/internal/infrastructure/storage"
	"NewsFlash/internal/language"
	"NewsFlash/internal/logging"
	"NewsFlash/internal/ports"
	"NewsFlash/internal/resilience"
	"NewsFlash/internal/usecase"
)

// Application owns the wired object graph and its closable resources.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	service  *usecase.ConversationService
	pipeline *usecase.Pipeline

	db    *sql.DB
	redis *redis.Client
}

// New builds the application from configuration.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := buildRegistry(cfg.Language)
	machine := conversation.NewMachine(registry, nil)

	app := &Application{cfg: cfg, logger: baseLogger}

	sessions, articles, err := app.buildStorage(cfg, baseLogger)
	if err != nil {
		return nil, err
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Search:    buildSearch(cfg.Search, registry, baseLogger),
		AI:        buildAI(cfg.AI, baseLogger),
		Extractor: buildExtractor(cfg.Extractor, baseLogger),
		Articles:  articles,
		Registry:  registry,
		Breaker:   resilience.NewBreaker(cfg.Breaker.Threshold),
		Logger:    baseLogger.With("component", "pipeline"),
		Options: usecase.Options{
			MaxResults:      cfg.Search.ResultsPerTopic,
			LoadMoreCount:   cfg.Search.LoadMoreCount,
			TopicWorkers:    cfg.Pipeline.TopicWorkers,
			ArticleWorkers:  cfg.Pipeline.ArticleWorkers,
			UseAISummary:    !cfg.AI.Disabled,
			AISummaryMin:    cfg.AI.MinTextLength,
			SummaryMaxChars: cfg.Pipeline.SummaryMaxChars,
			AIDelay:         cfg.AI.RateLimit(),
			Retry: resilience.RetryPolicy{
				MaxAttempts: cfg.Retry.MaxAttempts,
				BaseDelay:   cfg.Retry.BaseDelay(),
			},
		},
	})

	app.pipeline = pipeline
	app.service = usecase.NewConversationService(machine, sessions, pipeline, baseLogger.With("component", "conversation"))
	return app, nil
}

// Service exposes the conversation entry point.
func (a *Application) Service() *usecase.ConversationService {
	return a.service
}

// Pipeline exposes the retrieval pipeline for one-shot search commands.
func (a *Application) Pipeline() *usecase.Pipeline {
	return a.pipeline
}

// Close releases database and cache connections.
func (a *Application) Close() error {
	var firstErr error
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			firstErr = err
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (a *Application) buildStorage(cfg config.Config, logger *slog.Logger) (ports.SessionRepository, ports.ArticleRepository, error) {
	var sessions ports.SessionRepository
	var articles ports.ArticleRepository

	if cfg.Database.DSN != "" {
		db, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.PingContext(context.Background()); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ping database: %w", err)
		}
		a.db = db
		repo := storage.NewPostgresRepository(db)
		sessions = repo
		articles = repo
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		a.redis = client
		// Redis fronts session state; Postgres keeps article history.
		sessions = storage.NewRedisSessionRepository(client, cfg.Redis.SessionTTL())
	}

	if sessions == nil {
		logger.Info("no session store configured, using in-memory repository")
		memory := storage.NewMemoryRepository()
		sessions = memory
		if articles == nil {
			articles = memory
		}
	}
	return sessions, articles, nil
}

func buildRegistry(cfg config.LanguageConfig) *language.Registry {
	disabled := make(map[string]bool, len(cfg.Disabled))
	for _, code := range cfg.Disabled {
		disabled[code] = true
	}

	languages := language.Defaults()
	for i := range languages {
		if disabled[languages[i].Code] {
			languages[i].Enabled = false
		}
	}
	return language.NewRegistry(languages, cfg.Default)
}

func buildSearch(cfg config.SearchConfig, registry *language.Registry, logger *slog.Logger) ports.SearchProvider {
	primary := search.NewDuckDuckGoClient(cfg.Endpoint, &http.Client{Timeout: cfg.Timeout()})
	if !cfg.RSSFallback {
		return primary
	}
	fallback := search.NewGoogleNewsClient(cfg.RSSEndpoint, registry.DefaultCode())
	return search.NewChain(logger.With("component", "search"), primary, fallback)
}

func buildAI(cfg config.AIConfig, logger *slog.Logger) ports.AIClient {
	if cfg.Disabled {
		return nil
	}

	var providers []ports.AIClient
	if cfg.OpenAI.APIKey != "" {
		providers = append(providers, llm.NewOpenAIClient(llm.OpenAIConfig{
			Endpoint: cfg.OpenAI.Endpoint,
			Model:    cfg.OpenAI.Model,
			APIKey:   cfg.OpenAI.APIKey,
			Prompts:  cfg.Prompts,
			Timeout:  cfg.Timeout(),
		}))
	}
	if cfg.Ollama.Endpoint != "" && cfg.Ollama.Model != "" {
		providers = append(providers, llm.NewOllamaClient(cfg.Ollama.Endpoint, cfg.Ollama.Model, cfg.Prompts, cfg.Timeout()))
	}

	switch len(providers) {
	case 0:
		return nil
	case 1:
		return providers[0]
	default:
		return llm.NewChain(logger.With("component", "ai"), providers...)
	}
}

func buildExtractor(cfg config.ExtractorConfig, logger *slog.Logger) ports.Extractor {
	return extractor.NewChain(extractor.Options{
		MinTextLength: cfg.MinTextLength,
		MaxTextLength: cfg.MaxTextLength,
		FetchTimeout:  cfg.FetchTimeout(),
	}, logger.With("component", "extractor"))
}
