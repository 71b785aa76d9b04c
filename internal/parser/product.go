// Package parser holds the page-level coordinators: the product parser
// that assembles one ProductRecord from raw markup, and the link
// discoverers for category and similar-product pages.
package parser

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"sephora-scraper/internal/extract"
	"sephora-scraper/internal/jsonld"
	"sephora-scraper/internal/models"
)

// Options bound the review and question scans. Zero means unlimited.
type Options struct {
	MaxReviews   int
	MaxQuestions int
}

type ProductParser struct {
	opts   Options
	logger *slog.Logger
}

func NewProductParser(opts Options, logger *slog.Logger) *ProductParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductParser{
		opts:   opts,
		logger: logger.With("component", "product_parser"),
	}
}

// ParseProduct assembles a complete, immutable record for one product
// page. The JSON-LD product block is located once and shared by every
// extractor; each extractor degrades independently, so a record is
// produced even when most of the page is unparseable.
func (p *ProductParser) ParseProduct(html string, sourceURL string) (*models.ProductRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	product := jsonld.FindProduct(jsonld.Blocks(doc))

	record := models.NewProductRecord(sourceURL)
	record.Info = extract.ProductInfo(doc, product, sourceURL)
	record.Variants = extract.Variants(doc, product)
	record.Reviews = extract.Reviews(doc, product, p.opts.MaxReviews)
	record.Questions = extract.Questions(doc, product, record.Info.ID, p.opts.MaxQuestions)

	if len(record.Reviews) > 0 {
		record.Statistics = extract.BuildStatistics(record.Reviews)
	} else {
		record.Statistics = extract.PageStatistics(doc)
	}

	p.logger.Debug("parsed product page",
		"url", sourceURL,
		"id", record.Info.ID,
		"variants", len(record.Variants),
		"reviews", len(record.Reviews),
		"questions", len(record.Questions))

	return record, nil
}
