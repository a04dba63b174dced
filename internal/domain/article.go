package domain

import "time"

// Sentiment classifies an article's emotional tone. It is never left
// unset: unresolved analysis defaults to SentimentNeutral.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// ValidSentiment reports whether the value is one of the three labels.
func ValidSentiment(s Sentiment) bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

// Candidate is one search-provider hit before extraction and summarization.
type Candidate struct {
	Title       string
	URL         string
	Source      string
	Snippet     string
	PublishedAt time.Time
}

// ArticleSummary is the final, read-only pipeline output for one article.
type ArticleSummary struct {
	Title       string
	URL         string
	Source      string
	PublishedAt time.Time
	Summary     string
	Sentiment   Sentiment
	Language    string
}

// TopicResult groups the summaries produced for a single topic in the
// order the search provider returned them. Err is set only when the
// provider itself could not be reached after retries.
type TopicResult struct {
	Topic    string
	Articles []ArticleSummary
	Err      error
}

// ExtractionResult is the cleaned full text of a web page plus whatever
// metadata the winning strategy recovered. Text is either usable or the
// extraction failed outright; it is never silently truncated.
type ExtractionResult struct {
	Text        string
	Title       string
	Author      string
	PublishedAt time.Time
	Strategy    string
}

// AIResult is the parsed response of one summarize-and-classify call.
type AIResult struct {
	Summary   string
	Sentiment Sentiment
}
