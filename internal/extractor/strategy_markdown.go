package extractor

import (
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"NewsFlash/internal/domain"
)

var (
	markdownLinks  = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	markdownImages = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	markdownMarks  = regexp.MustCompile("[*_`#>]+")
)

// MarkdownStrategy converts the whole page to markdown and flattens it
// back to plain text. It recovers the most raw text of the three
// strategies but no structured metadata.
type MarkdownStrategy struct {
	converter *md.Converter
}

// NewMarkdownStrategy returns the chain's recall-oriented strategy.
func NewMarkdownStrategy() *MarkdownStrategy {
	return &MarkdownStrategy{converter: md.NewConverter("", true, nil)}
}

func (s *MarkdownStrategy) Name() string {
	return "markdown"
}

func (s *MarkdownStrategy) Extract(url string, body []byte) (domain.ExtractionResult, error) {
	markdown, err := s.converter.ConvertString(string(body))
	if err != nil {
		return domain.ExtractionResult{}, fmt.Errorf("convert html: %w", err)
	}

	text := markdownImages.ReplaceAllString(markdown, "")
	text = markdownLinks.ReplaceAllString(text, "$1")
	text = markdownMarks.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ExtractionResult{}, fmt.Errorf("conversion produced no text")
	}
	return domain.ExtractionResult{Text: text}, nil
}
