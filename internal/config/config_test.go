package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("NEWSFLASH_CONFIG", "")
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg := Load()

	if cfg.Search.ResultsPerTopic != 5 || cfg.Search.LoadMoreCount != 5 {
		t.Fatalf("unexpected search defaults %+v", cfg.Search)
	}
	if cfg.Retry.MaxAttempts != 3 || cfg.Retry.BaseDelay() != time.Second {
		t.Fatalf("unexpected retry defaults %+v", cfg.Retry)
	}
	if cfg.AI.MinTextLength != 150 || cfg.AI.RateLimit() != 2*time.Second {
		t.Fatalf("unexpected ai defaults %+v", cfg.AI)
	}
	if cfg.Extractor.MinTextLength != 100 || cfg.Extractor.MaxTextLength != 25000 {
		t.Fatalf("unexpected extractor defaults %+v", cfg.Extractor)
	}
	if cfg.Language.Default != "en" {
		t.Fatalf("unexpected language default %q", cfg.Language.Default)
	}
	if cfg.AI.Disabled {
		t.Fatalf("ai summaries should be enabled by default")
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
logging:
  level: warn
search:
  resultsPerTopic: 7
ai:
  disabled: true
  openai:
    model: gpt-4o
language:
  default: hi
  disabled: [mr]
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("NEWSFLASH_CONFIG", path)
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_MODEL", "")

	cfg := Load()

	if cfg.Logging.Level != "warn" {
		t.Fatalf("logging level %q", cfg.Logging.Level)
	}
	if cfg.Search.ResultsPerTopic != 7 {
		t.Fatalf("resultsPerTopic %d", cfg.Search.ResultsPerTopic)
	}
	if cfg.Search.LoadMoreCount != 5 {
		t.Fatalf("untouched default changed: %d", cfg.Search.LoadMoreCount)
	}
	if !cfg.AI.Disabled {
		t.Fatalf("ai.disabled not applied")
	}
	if cfg.AI.OpenAI.Model != "gpt-4o" {
		t.Fatalf("openai model %q", cfg.AI.OpenAI.Model)
	}
	if cfg.Language.Default != "hi" || len(cfg.Language.Disabled) != 1 {
		t.Fatalf("language config %+v", cfg.Language)
	}
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
database:
  dsn: postgres://file/db
ai:
  openai:
    apiKey: from-file
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("NEWSFLASH_CONFIG", path)
	t.Setenv("DATABASE_DSN", "postgres://env/db")
	t.Setenv("OPENAI_API_KEY", "from-env")
	t.Setenv("OPENAI_MODEL", "")

	cfg := Load()

	if cfg.Database.DSN != "postgres://env/db" {
		t.Fatalf("dsn %q", cfg.Database.DSN)
	}
	if cfg.AI.OpenAI.APIKey != "from-env" {
		t.Fatalf("api key %q", cfg.AI.OpenAI.APIKey)
	}
}

func TestLoadSurvivesBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("NEWSFLASH_CONFIG", path)
	t.Setenv("DATABASE_DSN", "")

	cfg := Load()
	if cfg.Search.ResultsPerTopic != 5 {
		t.Fatalf("broken file should fall back to defaults, got %+v", cfg.Search)
	}
}
