package resilience

import (
	"log/slog"
	"strings"
	"unicode/utf8"
)

// WithFallback runs op and substitutes fallback on failure instead of
// propagating the error. The failure is logged with operation name and
// input identifier so degraded results stay visible in telemetry.
func WithFallback[T any](logger *slog.Logger, op, key string, fallback T, fn func() (T, error)) T {
	value, err := fn()
	if err == nil {
		return value
	}
	if logger != nil {
		logger.Warn("falling back",
			"operation", op,
			"key", key,
			"error", err,
			"kind", kindOf(err))
	}
	return fallback
}

func kindOf(err error) string {
	for _, k := range []Kind{KindLanguage, KindExtraction, KindSentiment, KindAIService, KindTTS} {
		if IsKind(err, k) {
			return string(k)
		}
	}
	return "unknown"
}

// TruncateSummary builds the deterministic no-AI summary: the first two
// sentences when they fit, otherwise a hard cut with an ellipsis.
// maxLength counts runes, so Devanagari text is never cut mid-character.
func TruncateSummary(text string, maxLength int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return "No content available for summary."
	}
	if maxLength <= 0 {
		maxLength = 200
	}
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}

	if sentences := strings.SplitN(text, ". ", 3); len(sentences) >= 2 {
		summary := sentences[0] + ". " + sentences[1] + "."
		if utf8.RuneCountInString(summary) <= maxLength {
			return summary
		}
	}
	return strings.TrimSpace(string(runes[:maxLength])) + "..."
}
