// Package runner drives a whole scrape job: it expands category pages
// into product links, walks the worklist one URL at a time and collects
// records, then hands the dataset to the exporter and optional sinks.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"sephora-scraper/internal/config"
	"sephora-scraper/internal/fetch"
	"sephora-scraper/internal/models"
	"sephora-scraper/internal/parser"
	"sephora-scraper/internal/queue"
)

// RecordSink receives the finished dataset. The Postgres store
// implements it; tests use an in-memory stand-in.
type RecordSink interface {
	SaveRecords(ctx context.Context, dataset []models.ProductRecord) error
}

type Runner struct {
	fetcher  fetch.Fetcher
	products *parser.ProductParser
	category *parser.CategoryParser
	similar  *parser.SimilarProductsParser
	worklist *queue.Worklist
	sink     RecordSink
	logger   *slog.Logger
}

func New(fetcher fetch.Fetcher, products *parser.ProductParser, worklist *queue.Worklist, sink RecordSink, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		fetcher:  fetcher,
		products: products,
		category: parser.NewCategoryParser(logger),
		similar:  parser.NewSimilarProductsParser(logger),
		worklist: worklist,
		sink:     sink,
		logger:   logger.With("component", "runner"),
	}
}

// Run executes one scrape job and returns the collected dataset. URLs
// that fail to fetch or parse are logged and skipped; the job only
// errors when the worklist itself breaks.
func (r *Runner) Run(ctx context.Context, inputs *config.Inputs) ([]models.ProductRecord, error) {
	started := time.Now()

	if err := r.seed(ctx, inputs); err != nil {
		return nil, err
	}

	var dataset []models.ProductRecord
	for {
		task, err := r.worklist.Next(ctx)
		if errors.Is(err, queue.ErrQueueEmpty) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read worklist: %w", err)
		}

		record := r.scrapeOne(ctx, task, inputs)
		if record != nil {
			dataset = append(dataset, *record)
		}

		if err := ctx.Err(); err != nil {
			return dataset, err
		}
	}

	r.logger.Info("scrape job finished",
		"records", len(dataset),
		"urls_seen", r.worklist.SeenCount(),
		"duration", time.Since(started))
	return dataset, nil
}

// seed fills the worklist with the job's product URLs plus every
// product link discovered on its category pages. Duplicate and blank
// URLs are dropped by the worklist itself.
func (r *Runner) seed(ctx context.Context, inputs *config.Inputs) error {
	for _, url := range inputs.ProductURLs {
		if _, err := r.worklist.Add(ctx, url); err != nil {
			return fmt.Errorf("failed to seed worklist: %w", err)
		}
	}

	for _, categoryURL := range inputs.CategoryURLs {
		html, err := r.fetcher.Fetch(ctx, categoryURL)
		if err != nil {
			r.logger.Error("failed to fetch category page, skipping",
				"url", categoryURL, "error", err)
			continue
		}

		links, err := r.category.ExtractProductLinks(html, categoryURL)
		if err != nil {
			r.logger.Error("failed to parse category page, skipping",
				"url", categoryURL, "error", err)
			continue
		}

		added := 0
		for _, link := range links {
			ok, err := r.worklist.Add(ctx, link)
			if err != nil {
				return fmt.Errorf("failed to seed worklist: %w", err)
			}
			if ok {
				added++
			}
		}
		r.logger.Info("expanded category page",
			"url", categoryURL, "links", len(links), "new", added)
	}

	return nil
}

// scrapeOne fetches and parses a single product URL. A nil return
// means the URL was skipped; panics in parsing are contained here so
// one hostile page cannot kill the job.
func (r *Runner) scrapeOne(ctx context.Context, task *queue.Task, inputs *config.Inputs) (record *models.ProductRecord) {
	logger := r.logger.With("url", task.URL, "task_id", task.ID)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("panic while scraping, skipping", "panic", rec)
			record = nil
		}
	}()

	html, err := r.fetcher.Fetch(ctx, task.URL)
	if err != nil {
		logger.Error("failed to fetch product page, skipping", "error", err)
		return nil
	}

	record, err = r.products.ParseProduct(html, task.URL)
	if err != nil {
		logger.Error("failed to parse product page, skipping", "error", err)
		return nil
	}

	if inputs.IncludeSimilarProducts {
		links, err := r.similar.ExtractSimilarProductLinks(html, task.URL)
		if err != nil {
			logger.Warn("failed to extract similar products", "error", err)
		}
		for _, link := range links {
			if _, err := r.worklist.Add(ctx, link); err != nil {
				logger.Warn("failed to enqueue similar product", "link", link, "error", err)
			}
		}
	}

	logger.Info("scraped product",
		"product_id", record.Info.ID,
		"variants", len(record.Variants),
		"reviews", len(record.Reviews),
		"questions", len(record.Questions))
	return record
}

// Finish exports the dataset and pushes it to the sink when one is
// configured. An empty dataset is a warning, not an error, and writes
// nothing.
func (r *Runner) Finish(ctx context.Context, dataset []models.ProductRecord, exporter Exporter, cfg config.ExportConfig) error {
	if len(dataset) == 0 {
		r.logger.Warn("no products scraped, nothing to export")
		return nil
	}

	basePath := filepath.Join(cfg.OutputDir, "products")
	if err := exporter.Export(dataset, basePath, cfg.Formats); err != nil {
		return err
	}

	if r.sink != nil {
		if err := r.sink.SaveRecords(ctx, dataset); err != nil {
			return fmt.Errorf("failed to persist dataset: %w", err)
		}
	}
	return nil
}

// Exporter matches the export package's Export method.
type Exporter interface {
	Export(dataset []models.ProductRecord, basePath string, formats []string) error
}
