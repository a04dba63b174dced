package resilience

import (
	"errors"
	"fmt"
	"strings"
)

// Kind partitions failures by the dependency or concern that produced them.
type Kind string

const (
	KindLanguage   Kind = "language"
	KindExtraction Kind = "extraction"
	KindAIService  Kind = "ai_service"
	KindSentiment  Kind = "sentiment_analysis"
	KindTTS        Kind = "tts"
)

// Error is the root of the failure taxonomy: a kind, the operation that
// failed, a human-readable message, and an optional upstream cause.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a taxonomy error wrapping an optional cause.
func NewError(kind Kind, op, msg string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: cause}
}

// LanguageError marks an invalid or unsupported language code.
func LanguageError(op, code string, cause error) *Error {
	return NewError(KindLanguage, op, fmt.Sprintf("language %q", code), cause)
}

// ExtractionError marks a URL for which every extraction strategy failed.
func ExtractionError(url string, reasons []string) *Error {
	return NewError(KindExtraction, "extract", fmt.Sprintf("all strategies failed for %s: %s", url, strings.Join(reasons, "; ")), nil)
}

// AIServiceError marks a summarization or classification call that
// failed after retries, or returned output that could not be parsed.
func AIServiceError(op string, cause error) *Error {
	return NewError(KindAIService, op, "", cause)
}

// SentimentError is the AIServiceError specialization for the sentiment step.
func SentimentError(op string, cause error) *Error {
	return NewError(KindSentiment, op, "", cause)
}

// TTSError marks a speech-synthesis failure. The audio layer itself
// lives outside this module but shares the taxonomy.
func TTSError(op, voice string, cause error) *Error {
	return NewError(KindTTS, op, fmt.Sprintf("voice %q", voice), cause)
}

// IsKind reports whether err (or anything it wraps) carries the kind.
// KindSentiment also satisfies KindAIService checks.
func IsKind(err error, kind Kind) bool {
	var te *Error
	if !errors.As(err, &te) {
		return false
	}
	if te.Kind == kind {
		return true
	}
	return kind == KindAIService && te.Kind == KindSentiment
}

var nonRetryableMarkers = []string{
	"401", "403", "404", "400",
	"invalid api key", "authentication", "authorization",
	"bad request", "not found",
}

// Retryable classifies an error for the retry policy. Auth and
// malformed-request failures are final; everything else, including
// timeouts, 5xx and quota responses, is worth another attempt.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range nonRetryableMarkers {
		if strings.Contains(msg, marker) {
			return false
		}
	}
	return true
}
