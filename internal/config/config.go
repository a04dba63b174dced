package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "NEWSFLASH_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	redisAddrEnv      = "REDIS_ADDR"
	openAIAPIKeyEnv   = "OPENAI_API_KEY"
	openAIModelEnv    = "OPENAI_MODEL"
	ollamaEndpointEnv = "OLLAMA_ENDPOINT"
	searchEndpointEnv = "SEARCH_ENDPOINT"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Search    SearchConfig    `yaml:"search"`
	AI        AIConfig        `yaml:"ai"`
	Retry     RetryConfig     `yaml:"retry"`
	Breaker   BreakerConfig   `yaml:"breaker"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Language  LanguageConfig  `yaml:"language"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DatabaseConfig describes Postgres connection details. An empty DSN
// disables durable storage.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// RedisConfig describes the session cache. An empty address falls back
// to the in-memory store.
type RedisConfig struct {
	Addr              string `yaml:"addr"`
	Password          string `yaml:"password"`
	DB                int    `yaml:"db"`
	SessionTTLMinutes int    `yaml:"sessionTtlMinutes"`
}

// SearchConfig wires the news-search providers.
type SearchConfig struct {
	Endpoint        string `yaml:"endpoint"`
	RSSEndpoint     string `yaml:"rssEndpoint"`
	RSSFallback     bool   `yaml:"rssFallback"`
	TimeoutSeconds  int    `yaml:"timeoutSeconds"`
	ResultsPerTopic int    `yaml:"resultsPerTopic"`
	LoadMoreCount   int    `yaml:"loadMoreCount"`
}

// AIConfig wires the summarization providers. Disabled skips AI calls
// entirely and every article gets the truncation fallback summary.
type AIConfig struct {
	Disabled         bool              `yaml:"disabled"`
	MinTextLength    int               `yaml:"minTextLength"`
	TimeoutSeconds   int               `yaml:"timeoutSeconds"`
	RateLimitSeconds int               `yaml:"rateLimitSeconds"`
	OpenAI           OpenAIConfig      `yaml:"openai"`
	Ollama           OllamaConfig      `yaml:"ollama"`
	Prompts          map[string]string `yaml:"prompts"`
}

// OpenAIConfig defines how to contact an OpenAI-compatible chat API.
type OpenAIConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// OllamaConfig defines the local generation fallback.
type OllamaConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
}

// RetryConfig bounds transient-failure retries.
type RetryConfig struct {
	MaxAttempts      int `yaml:"maxAttempts"`
	BaseDelaySeconds int `yaml:"baseDelaySeconds"`
}

// BreakerConfig sets the consecutive-failure threshold after which a
// dependency's retry budget collapses to a single attempt.
type BreakerConfig struct {
	Threshold int `yaml:"threshold"`
}

// ExtractorConfig bounds article text extraction.
type ExtractorConfig struct {
	MinTextLength       int `yaml:"minTextLength"`
	MaxTextLength       int `yaml:"maxTextLength"`
	FetchTimeoutSeconds int `yaml:"fetchTimeoutSeconds"`
}

// PipelineConfig controls search concurrency and summary shaping.
type PipelineConfig struct {
	TopicWorkers    int `yaml:"topicWorkers"`
	ArticleWorkers  int `yaml:"articleWorkers"`
	SummaryMaxChars int `yaml:"summaryMaxChars"`
}

// LanguageConfig selects the default language; supported languages are
// built in and can be disabled here by code.
type LanguageConfig struct {
	Default  string   `yaml:"default"`
	Disabled []string `yaml:"disabled"`
}

// SessionTTL resolves the Redis session lifetime.
func (r RedisConfig) SessionTTL() time.Duration {
	if r.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(r.SessionTTLMinutes) * time.Minute
}

// BaseDelay resolves the retry base delay.
func (r RetryConfig) BaseDelay() time.Duration {
	if r.BaseDelaySeconds <= 0 {
		return time.Second
	}
	return time.Duration(r.BaseDelaySeconds) * time.Second
}

// Timeout resolves the search HTTP timeout.
func (s SearchConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Timeout resolves the AI request timeout.
func (a AIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// RateLimit resolves the minimum spacing between AI calls.
func (a AIConfig) RateLimit() time.Duration {
	if a.RateLimitSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RateLimitSeconds) * time.Second
}

// FetchTimeout resolves the per-article download timeout.
func (e ExtractorConfig) FetchTimeout() time.Duration {
	if e.FetchTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(e.FetchTimeoutSeconds) * time.Second
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(redisAddrEnv); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.AI.OpenAI.APIKey = v
	}
	if v := os.Getenv(openAIModelEnv); v != "" {
		c.AI.OpenAI.Model = v
	}
	if v := os.Getenv(ollamaEndpointEnv); v != "" {
		c.AI.Ollama.Endpoint = v
	}
	if v := os.Getenv(searchEndpointEnv); v != "" {
		c.Search.Endpoint = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Redis.Addr != "" {
		base.Redis.Addr = override.Redis.Addr
	}
	if override.Redis.Password != "" {
		base.Redis.Password = override.Redis.Password
	}
	if override.Redis.DB != 0 {
		base.Redis.DB = override.Redis.DB
	}
	if override.Redis.SessionTTLMinutes != 0 {
		base.Redis.SessionTTLMinutes = override.Redis.SessionTTLMinutes
	}

	if override.Search.Endpoint != "" {
		base.Search.Endpoint = override.Search.Endpoint
	}
	if override.Search.RSSEndpoint != "" {
		base.Search.RSSEndpoint = override.Search.RSSEndpoint
	}
	if override.Search.RSSFallback {
		base.Search.RSSFallback = true
	}
	if override.Search.TimeoutSeconds != 0 {
		base.Search.TimeoutSeconds = override.Search.TimeoutSeconds
	}
	if override.Search.ResultsPerTopic != 0 {
		base.Search.ResultsPerTopic = override.Search.ResultsPerTopic
	}
	if override.Search.LoadMoreCount != 0 {
		base.Search.LoadMoreCount = override.Search.LoadMoreCount
	}

	if override.AI.OpenAI.Endpoint != "" {
		base.AI.OpenAI.Endpoint = override.AI.OpenAI.Endpoint
	}
	if override.AI.OpenAI.Model != "" {
		base.AI.OpenAI.Model = override.AI.OpenAI.Model
	}
	if override.AI.OpenAI.APIKey != "" {
		base.AI.OpenAI.APIKey = override.AI.OpenAI.APIKey
	}
	if override.AI.Ollama.Endpoint != "" {
		base.AI.Ollama.Endpoint = override.AI.Ollama.Endpoint
	}
	if override.AI.Ollama.Model != "" {
		base.AI.Ollama.Model = override.AI.Ollama.Model
	}
	if override.AI.MinTextLength != 0 {
		base.AI.MinTextLength = override.AI.MinTextLength
	}
	if override.AI.TimeoutSeconds != 0 {
		base.AI.TimeoutSeconds = override.AI.TimeoutSeconds
	}
	if override.AI.RateLimitSeconds != 0 {
		base.AI.RateLimitSeconds = override.AI.RateLimitSeconds
	}
	if override.AI.Disabled {
		base.AI.Disabled = true
	}
	if len(override.AI.Prompts) > 0 {
		if base.AI.Prompts == nil {
			base.AI.Prompts = map[string]string{}
		}
		for lang, prompt := range override.AI.Prompts {
			base.AI.Prompts[lang] = prompt
		}
	}

	if override.Retry.MaxAttempts != 0 {
		base.Retry.MaxAttempts = override.Retry.MaxAttempts
	}
	if override.Retry.BaseDelaySeconds != 0 {
		base.Retry.BaseDelaySeconds = override.Retry.BaseDelaySeconds
	}

	if override.Breaker.Threshold != 0 {
		base.Breaker.Threshold = override.Breaker.Threshold
	}

	if override.Extractor.MinTextLength != 0 {
		base.Extractor.MinTextLength = override.Extractor.MinTextLength
	}
	if override.Extractor.MaxTextLength != 0 {
		base.Extractor.MaxTextLength = override.Extractor.MaxTextLength
	}
	if override.Extractor.FetchTimeoutSeconds != 0 {
		base.Extractor.FetchTimeoutSeconds = override.Extractor.FetchTimeoutSeconds
	}

	if override.Pipeline.TopicWorkers != 0 {
		base.Pipeline.TopicWorkers = override.Pipeline.TopicWorkers
	}
	if override.Pipeline.ArticleWorkers != 0 {
		base.Pipeline.ArticleWorkers = override.Pipeline.ArticleWorkers
	}
	if override.Pipeline.SummaryMaxChars != 0 {
		base.Pipeline.SummaryMaxChars = override.Pipeline.SummaryMaxChars
	}

	if override.Language.Default != "" {
		base.Language.Default = override.Language.Default
	}
	if len(override.Language.Disabled) > 0 {
		base.Language.Disabled = override.Language.Disabled
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging:  LoggingConfig{Level: "info"},
		Database: DatabaseConfig{DSN: ""},
		Redis:    RedisConfig{Addr: "", SessionTTLMinutes: 120},
		Search: SearchConfig{
			RSSFallback:     true,
			TimeoutSeconds:  10,
			ResultsPerTopic: 5,
			LoadMoreCount:   5,
		},
		AI: AIConfig{
			MinTextLength:    150,
			TimeoutSeconds:   30,
			RateLimitSeconds: 2,
			OpenAI: OpenAIConfig{
				Endpoint: "https://api.openai.com/v1/chat/completions",
				Model:    "gpt-4o-mini",
			},
			Ollama: OllamaConfig{
				Endpoint: "http://localhost:11434/api/generate",
				Model:    "llama3",
			},
		},
		Retry:   RetryConfig{MaxAttempts: 3, BaseDelaySeconds: 1},
		Breaker: BreakerConfig{Threshold: 5},
		Extractor: ExtractorConfig{
			MinTextLength:       100,
			MaxTextLength:       25000,
			FetchTimeoutSeconds: 10,
		},
		Pipeline: PipelineConfig{
			TopicWorkers:    3,
			ArticleWorkers:  4,
			SummaryMaxChars: 200,
		},
		Language: LanguageConfig{Default: "en"},
	}
}
