package extractor

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsFlash/internal/domain"
)

// contentSelectors are tried in order; the first match is taken as the
// article body.
var contentSelectors = []string{
	"article",
	"[role=\"main\"]",
	".article-content",
	".post-content",
	".entry-content",
	".content",
	"main",
}

// ArticleStrategy is the specialized news-article parser. It has the
// best field coverage: body text plus title, author and publish date
// from the page's metadata.
type ArticleStrategy struct{}

// NewArticleStrategy returns the chain's primary strategy.
func NewArticleStrategy() *ArticleStrategy {
	return &ArticleStrategy{}
}

func (s *ArticleStrategy) Name() string {
	return "article"
}

func (s *ArticleStrategy) Extract(url string, body []byte) (domain.ExtractionResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return domain.ExtractionResult{}, fmt.Errorf("parse document: %w", err)
	}

	doc.Find("script, style, nav, header, footer, aside, form, iframe").Remove()

	content := selectContent(doc)
	if content == nil {
		return domain.ExtractionResult{}, fmt.Errorf("no article container found")
	}

	var paragraphs []string
	content.Find("p, h2, h3, li").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) == 0 {
		return domain.ExtractionResult{}, fmt.Errorf("article container has no paragraphs")
	}

	result := domain.ExtractionResult{
		Text:   strings.Join(paragraphs, "\n\n"),
		Title:  pageTitle(doc),
		Author: pageAuthor(doc),
	}
	if published, ok := pagePublished(doc); ok {
		result.PublishedAt = published
	}
	return result, nil
}

func selectContent(doc *goquery.Document) *goquery.Selection {
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			return sel
		}
	}
	if sel := doc.Find("body").First(); sel.Length() > 0 {
		return sel
	}
	return nil
}

func pageTitle(doc *goquery.Document) string {
	if title, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok && title != "" {
		return strings.TrimSpace(title)
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func pageAuthor(doc *goquery.Document) string {
	for _, selector := range []string{`meta[name="author"]`, `meta[property="article:author"]`} {
		if author, ok := doc.Find(selector).First().Attr("content"); ok && author != "" {
			return strings.TrimSpace(author)
		}
	}
	return ""
}

func pagePublished(doc *goquery.Document) (time.Time, bool) {
	for _, selector := range []string{`meta[property="article:published_time"]`, `meta[name="date"]`} {
		raw, ok := doc.Find(selector).First().Attr("content")
		if !ok || raw == "" {
			continue
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}
