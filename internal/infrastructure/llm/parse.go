// Package llm implements AI summarization clients for OpenAI-compatible
// APIs and local Ollama servers, sharing one response parser and a
// provider fallback chain.
package llm

import (
	"strings"

	"NewsFlash/internal/domain"
	"NewsFlash/internal/resilience"
)

var summaryLabels = []string{"Summary:", "सारांश:"}

var sentimentLabels = []string{"Sentiment:", "भावना:"}

var sentimentWords = map[string]domain.Sentiment{
	"positive":   domain.SentimentPositive,
	"negative":   domain.SentimentNegative,
	"neutral":    domain.SentimentNeutral,
	"सकारात्मक": domain.SentimentPositive,
	"नकारात्मक": domain.SentimentNegative,
	"तटस्थ":     domain.SentimentNeutral,
}

// sentimentOrder fixes the substring-match priority so a completion
// mentioning several labels always resolves the same way.
var sentimentOrder = []string{"positive", "negative", "neutral", "सकारात्मक", "नकारात्मक", "तटस्थ"}

// ParseSummaryAndSentiment extracts the labeled summary and sentiment
// lines from a model completion. Labels may appear in English or
// Devanagari. A missing or unrecognizable sentiment falls back to
// neutral; a missing summary is an error because there is nothing to show.
func ParseSummaryAndSentiment(raw string) (domain.AIResult, error) {
	var summaryParts []string
	sentiment := domain.Sentiment("")
	inSummary := false

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if rest, ok := stripLabel(line, sentimentLabels); ok {
			inSummary = false
			if s, ok := matchSentiment(rest); ok {
				sentiment = s
			}
			continue
		}
		if rest, ok := stripLabel(line, summaryLabels); ok {
			inSummary = true
			if rest != "" {
				summaryParts = append(summaryParts, rest)
			}
			continue
		}
		if inSummary {
			summaryParts = append(summaryParts, line)
		}
	}

	summary := strings.TrimSpace(strings.Join(summaryParts, " "))
	if summary == "" {
		// Some models answer without labels; take the whole completion
		// unless it is empty.
		summary = strings.TrimSpace(raw)
		if summary == "" {
			return domain.AIResult{}, resilience.AIServiceError("parse", nil)
		}
		if _, ok := sentimentWords[strings.ToLower(summary)]; ok {
			// A bare sentiment word is not a summary.
			return domain.AIResult{}, resilience.AIServiceError("parse", nil)
		}
	}
	if sentiment == "" {
		sentiment = domain.SentimentNeutral
	}
	return domain.AIResult{Summary: summary, Sentiment: sentiment}, nil
}

func stripLabel(line string, labels []string) (string, bool) {
	for _, label := range labels {
		if strings.HasPrefix(line, label) {
			return strings.TrimSpace(strings.TrimPrefix(line, label)), true
		}
	}
	return "", false
}

func matchSentiment(text string) (domain.Sentiment, bool) {
	lowered := strings.ToLower(strings.TrimSpace(text))
	lowered = strings.Trim(lowered, ".!,")
	if s, ok := sentimentWords[lowered]; ok {
		return s, true
	}
	for _, word := range sentimentOrder {
		if strings.Contains(lowered, word) {
			return sentimentWords[word], true
		}
	}
	return "", false
}
