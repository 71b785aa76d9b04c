package parser

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// productPathToken marks product detail URLs on listing pages.
const productPathToken = "/product/"

// CategoryParser extracts product detail links from category listing
// pages. The scan is heuristic on purpose: it keeps any anchor whose
// resolved URL carries the product path, so it keeps working when the
// surrounding markup shifts.
type CategoryParser struct {
	logger *slog.Logger
}

func NewCategoryParser(logger *slog.Logger) *CategoryParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &CategoryParser{logger: logger.With("component", "category_parser")}
}

// ExtractProductLinks returns the unique product URLs found on a category
// page, resolved against the page's own URL, in first-seen order.
func (c *CategoryParser) ExtractProductLinks(html string, baseURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	links := collectProductLinks(doc.Selection, baseURL)
	c.logger.Debug("extracted product links", "base_url", baseURL, "count", len(links))
	return links, nil
}

// collectProductLinks gathers product-path anchors under root, resolved
// absolute and deduplicated preserving first-seen order.
func collectProductLinks(root *goquery.Selection, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}

	seen := make(map[string]struct{})
	var links []string

	root.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		full := href
		if base != nil {
			if ref, err := url.Parse(href); err == nil {
				full = base.ResolveReference(ref).String()
			}
		}

		if !strings.Contains(full, productPathToken) {
			return
		}
		if _, ok := seen[full]; ok {
			return
		}
		seen[full] = struct{}{}
		links = append(links, full)
	})

	return links
}
