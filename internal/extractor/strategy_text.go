package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"NewsFlash/internal/domain"
)

// PlainTextStrategy strips tags and returns whatever text the body
// holds. Lowest quality, maximum compatibility; it is the chain's last
// resort and relies on the quality gate to weed out junk.
type PlainTextStrategy struct{}

// NewPlainTextStrategy returns the chain's fallback strategy.
func NewPlainTextStrategy() *PlainTextStrategy {
	return &PlainTextStrategy{}
}

func (s *PlainTextStrategy) Name() string {
	return "plaintext"
}

func (s *PlainTextStrategy) Extract(url string, body []byte) (domain.ExtractionResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return domain.ExtractionResult{}, fmt.Errorf("parse document: %w", err)
	}

	doc.Find("script, style, noscript").Remove()

	var blocks []string
	doc.Find("body *").Each(func(_ int, sel *goquery.Selection) {
		if sel.Children().Length() > 0 {
			return
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})
	if len(blocks) == 0 {
		if text := strings.TrimSpace(doc.Find("body").Text()); text != "" {
			blocks = append(blocks, text)
		}
	}
	if len(blocks) == 0 {
		return domain.ExtractionResult{}, fmt.Errorf("no text in body")
	}
	return domain.ExtractionResult{Text: strings.Join(blocks, "\n\n")}, nil
}
