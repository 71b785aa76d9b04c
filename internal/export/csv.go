package export

import (
	"bytes"
	"encoding/csv"

	"sephora-scraper/internal/models"
)

var csvHeader = []string{
	"id", "name", "brand", "price", "is_available", "love_count", "image",
	"average_rating", "review_count", "helpful_vote_count",
	"not_helpful_vote_count", "recommended_review_count",
	"product_variants", "reviews", "questions", "source_url",
}

func (e *Exporter) writeCSV(dataset []models.ProductRecord, path string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, record := range dataset {
		row := []string{
			record.Info.ID,
			record.Info.Name,
			record.Info.Brand,
			record.Info.Price,
			serializeCell(record.Info.IsAvailable),
			serializeCell(record.Info.LoveCount),
			record.Info.Image,
			serializeCell(record.Statistics.AverageRating),
			serializeCell(record.Statistics.ReviewCount),
			serializeCell(record.Statistics.HelpfulVoteCount),
			serializeCell(record.Statistics.NotHelpfulVoteCount),
			serializeCell(record.Statistics.RecommendedReviewCount),
			serializeCell(record.Variants),
			serializeCell(record.Reviews),
			serializeCell(record.Questions),
			record.SourceURL,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return err
	}
	e.logger.Info("exported CSV dataset", "path", path, "records", len(dataset))
	return nil
}
