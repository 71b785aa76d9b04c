package parser

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// recommendationKeywords identify the copy of recommendation sections.
var recommendationKeywords = []string{
	"you may also like",
	"similar",
	"recommended",
	"more like this",
}

// SimilarProductsParser extracts links to similar or recommended products
// from a product detail page. When no recommendation section is
// identifiable the result is empty; links are never fabricated.
type SimilarProductsParser struct {
	logger *slog.Logger
}

func NewSimilarProductsParser(logger *slog.Logger) *SimilarProductsParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &SimilarProductsParser{logger: logger.With("component", "similar_products_parser")}
}

// ExtractSimilarProductLinks returns unique absolute product URLs found
// inside sections whose visible text mentions a recommendation keyword.
func (s *SimilarProductsParser) ExtractSimilarProductLinks(html string, baseURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	seen := make(map[string]struct{})
	var links []string

	doc.Find("section, div").Each(func(_ int, section *goquery.Selection) {
		text := strings.ToLower(section.Text())
		if !containsAnyKeyword(text) {
			return
		}
		for _, link := range collectProductLinks(section, baseURL) {
			if _, ok := seen[link]; ok {
				continue
			}
			seen[link] = struct{}{}
			links = append(links, link)
		}
	})

	s.logger.Debug("extracted similar product links", "base_url", baseURL, "count", len(links))
	return links, nil
}

func containsAnyKeyword(text string) bool {
	for _, kw := range recommendationKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
