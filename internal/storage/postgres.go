// Package storage persists scraped product records to Postgres. It is
// an optional sink next to the file exporters: the runner saves records
// here only when a database URL is configured.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"sephora-scraper/internal/models"
)

type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// New connects to the database at databaseURL and pings it before
// returning. The caller owns the Store and must Close it.
func New(ctx context.Context, databaseURL string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool, logger: logger.With("component", "storage")}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// EnsureSchema creates the products table if it does not exist. The
// full record is stored as JSONB so schema changes in the scraped
// payload never require a migration.
func (s *Store) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS products (
			id BIGSERIAL PRIMARY KEY,
			product_id TEXT NOT NULL,
			source_url TEXT NOT NULL UNIQUE,
			record JSONB NOT NULL,
			scraped_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// SaveRecord upserts a single record keyed by its source URL.
func (s *Store) SaveRecord(ctx context.Context, record models.ProductRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	query := `
		INSERT INTO products (product_id, source_url, record)
		VALUES ($1, $2, $3)
		ON CONFLICT (source_url) DO UPDATE SET
			product_id = EXCLUDED.product_id,
			record = EXCLUDED.record,
			updated_at = CURRENT_TIMESTAMP`

	if _, err := s.pool.Exec(ctx, query, record.Info.ID, record.SourceURL, payload); err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}

// SaveRecords persists the whole dataset, continuing past individual
// failures so one bad record does not lose the rest.
func (s *Store) SaveRecords(ctx context.Context, dataset []models.ProductRecord) error {
	var failed int
	for _, record := range dataset {
		if err := s.SaveRecord(ctx, record); err != nil {
			failed++
			s.logger.Error("failed to save record",
				"source_url", record.SourceURL,
				"error", err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("failed to save %d of %d records", failed, len(dataset))
	}
	s.logger.Info("saved dataset", "records", len(dataset))
	return nil
}
