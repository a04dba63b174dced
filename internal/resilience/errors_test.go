package resilience

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTaxonomyWrapping(t *testing.T) {
	t.Parallel()

	cause := errors.New("dial tcp: i/o timeout")
	err := AIServiceError("summarize", cause)

	if !IsKind(err, KindAIService) {
		t.Fatal("expected ai_service kind")
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause should survive unwrapping")
	}

	wrapped := fmt.Errorf("topic technology: %w", err)
	if !IsKind(wrapped, KindAIService) {
		t.Fatal("kind should be detectable through fmt.Errorf wrapping")
	}
}

func TestSentimentSatisfiesAIService(t *testing.T) {
	t.Parallel()

	err := SentimentError("classify", errors.New("empty response"))
	if !IsKind(err, KindSentiment) {
		t.Fatal("expected sentiment kind")
	}
	if !IsKind(err, KindAIService) {
		t.Fatal("sentiment errors are a specialization of ai_service")
	}
	if IsKind(err, KindExtraction) {
		t.Fatal("unexpected extraction kind")
	}
}

func TestExtractionErrorCarriesReasons(t *testing.T) {
	t.Parallel()

	err := ExtractionError("https://example.org/a", []string{"article: status 404", "markdown: text below threshold"})
	msg := err.Error()
	for _, want := range []string{"https://example.org/a", "status 404", "below threshold"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q missing %q", msg, want)
		}
	}
}

func TestRetryableClassification(t *testing.T) {
	t.Parallel()

	if Retryable(nil) {
		t.Fatal("nil must not be retryable")
	}
	if !Retryable(errors.New("429 quota exceeded")) {
		t.Fatal("rate limits are retryable")
	}
	if Retryable(errors.New("403 authorization denied")) {
		t.Fatal("auth failures are not retryable")
	}
}

func TestWithFallbackSubstitutesAndLogs(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	got := WithFallback(logger, "resolve_language", "xx", "en", func() (string, error) {
		return "", LanguageError("resolve", "xx", io.ErrUnexpectedEOF)
	})
	if got != "en" {
		t.Fatalf("expected fallback value, got %q", got)
	}
	if !strings.Contains(buf.String(), "resolve_language") {
		t.Fatalf("fallback log missing operation name: %s", buf.String())
	}

	got = WithFallback(logger, "resolve_language", "hi", "en", func() (string, error) {
		return "hi", nil
	})
	if got != "hi" {
		t.Fatalf("success path must pass through, got %q", got)
	}
}

func TestTruncateSummary(t *testing.T) {
	t.Parallel()

	if got := TruncateSummary("", 200); got != "No content available for summary." {
		t.Fatalf("unexpected empty-text summary: %q", got)
	}

	short := "A brief note."
	if got := TruncateSummary(short, 200); got != short {
		t.Fatalf("short text should be untouched, got %q", got)
	}

	text := "First sentence here. Second sentence follows. " + strings.Repeat("x", 400)
	got := TruncateSummary(text, 200)
	if got != "First sentence here. Second sentence follows." {
		t.Fatalf("expected two-sentence summary, got %q", got)
	}

	long := strings.Repeat("word ", 100)
	got = TruncateSummary(long, 50)
	if !strings.HasSuffix(got, "...") || len(got) > 53 {
		t.Fatalf("expected truncated summary with ellipsis, got %q", got)
	}
}

func TestTruncateSummaryKeepsDevanagariIntact(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("भारताच्या अर्थव्यवस्थेत मोठी वाढ झाली ", 20)
	got := TruncateSummary(text, 200)

	if !utf8.ValidString(got) {
		t.Fatalf("truncated summary is not valid UTF-8: %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis, got %q", got)
	}
	if count := utf8.RuneCountInString(got); count > 203 {
		t.Fatalf("summary exceeds the rune limit: %d runes", count)
	}
	if !strings.HasPrefix(text, strings.TrimSuffix(got, "...")) {
		t.Fatalf("summary %q is not a prefix of the source text", got)
	}
}
