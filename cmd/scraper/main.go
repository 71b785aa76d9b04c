package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"sephora-scraper/internal/config"
	"sephora-scraper/internal/export"
	"sephora-scraper/internal/fetch"
	"sephora-scraper/internal/logging"
	"sephora-scraper/internal/parser"
	"sephora-scraper/internal/queue"
	"sephora-scraper/internal/runner"
	"sephora-scraper/internal/storage"
)

func main() {
	var (
		inputFile      = flag.String("input", "inputs.json", "Path to the JSON job file")
		outputDir      = flag.String("output-dir", "", "Directory for exported files (overrides OUTPUT_DIR)")
		formats        = flag.String("format", "", "Comma-separated export formats: json, csv, html (overrides EXPORT_FORMATS)")
		includeSimilar = flag.Bool("include-similar", false, "Also scrape products linked from recommendation sections")
		verbose        = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *outputDir != "" {
		cfg.Export.OutputDir = *outputDir
	}
	if *formats != "" {
		cfg.Export.Formats = strings.Split(*formats, ",")
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("starting scraper", "input", *inputFile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutdown signal received")
		cancel()
	}()

	inputs, err := config.LoadInputs(*inputFile)
	if err != nil {
		logger.Error("failed to load job inputs", "error", err)
		os.Exit(1)
	}
	if *includeSimilar {
		inputs.IncludeSimilarProducts = true
	}
	if inputs.MaxReviews == 0 {
		inputs.MaxReviews = cfg.Parser.MaxReviews
	}
	if inputs.MaxQuestions == 0 {
		inputs.MaxQuestions = cfg.Parser.MaxQuestions
	}

	var q queue.Queue
	if cfg.Queue.Type == "redis" {
		rq, err := queue.NewRedisQueue(ctx, cfg.Queue.RedisURL, "scraper:worklist")
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		q = rq
	} else {
		q = queue.NewInMemoryQueue()
	}
	defer q.Close()

	var sink runner.RecordSink
	if cfg.Database.URL != "" {
		store, err := storage.New(ctx, cfg.Database.URL, logger)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			logger.Error("failed to prepare database schema", "error", err)
			os.Exit(1)
		}
		sink = store
	}

	fetcher := fetch.NewClient(fetch.Options{
		Timeout:       cfg.Fetch.Timeout,
		MaxRetries:    cfg.Fetch.MaxRetries,
		BackoffFactor: cfg.Fetch.BackoffFactor,
		UserAgent:     cfg.Fetch.UserAgent,
		Headers:       map[string]string{"Accept-Language": cfg.Fetch.AcceptLanguage},
	}, logger)

	products := parser.NewProductParser(parser.Options{
		MaxReviews:   inputs.MaxReviews,
		MaxQuestions: inputs.MaxQuestions,
	}, logger)

	r := runner.New(fetcher, products, queue.NewWorklist(q), sink, logger)

	dataset, err := r.Run(ctx, inputs)
	if err != nil {
		logger.Error("scrape job aborted", "error", err, "records", len(dataset))
	}

	// Export whatever was collected, even after an interrupted run.
	exporter := export.NewExporter(logger)
	if err := r.Finish(context.Background(), dataset, exporter, cfg.Export); err != nil {
		logger.Error("failed to write results", "error", err)
		os.Exit(1)
	}
}
