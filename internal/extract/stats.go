package extract

import (
	"math"

	"github.com/PuerkitoBio/goquery"

	"sephora-scraper/internal/format"
	"sephora-scraper/internal/models"
)

// BuildStatistics folds an extracted review list into aggregate
// statistics. An empty list yields an explicitly absent result (all
// optional fields nil) so consumers can distinguish "no reviews" from a
// measured zero. Reviews without a numeric rating are excluded from the
// mean but still counted.
func BuildStatistics(reviews []models.Review) models.StatisticsSummary {
	if len(reviews) == 0 {
		return models.StatisticsSummary{}
	}

	var (
		ratingSum   float64
		ratingCount int
		helpful     int
		notHelpful  int
		recommended int
	)
	for _, r := range reviews {
		if r.Rating != nil {
			ratingSum += *r.Rating
			ratingCount++
		}
		helpful += r.HelpfulVoteCount
		notHelpful += r.NotHelpfulVoteCount
		if r.IsRecommended != nil && *r.IsRecommended {
			recommended++
		}
	}

	stats := models.StatisticsSummary{
		ReviewCount:            len(reviews),
		HelpfulVoteCount:       &helpful,
		NotHelpfulVoteCount:    &notHelpful,
		RecommendedReviewCount: &recommended,
	}
	if ratingCount > 0 {
		avg := round2(ratingSum / float64(ratingCount))
		stats.AverageRating = &avg
	}

	return stats
}

// PageStatistics reads rating aggregates off the page itself, for pages
// where no review list could be extracted. It prefers the explicit
// summary elements and reconstructs a weighted mean from the rating
// histogram when the summary is absent. A page without either yields the
// all-absent result.
func PageStatistics(doc *goquery.Document) models.StatisticsSummary {
	stats := models.StatisticsSummary{}

	if text, ok := markerText(doc.Selection, "overall_rating"); ok {
		avg := round2(format.ParseFloat(format.CleanText(text), 0))
		stats.AverageRating = &avg
	}
	if text, ok := markerText(doc.Selection, "total_reviews"); ok {
		stats.ReviewCount = format.ParseInt(format.CleanText(text), 0)
	}

	if stats.AverageRating == nil {
		if avg, count, ok := histogramMean(doc); ok {
			avg = round2(avg)
			stats.AverageRating = &avg
			stats.ReviewCount = count
		}
	}

	return stats
}

// histogramMean reconstructs the mean rating from a histogram table of
// rating-value rows, each holding a rating and its review count.
func histogramMean(doc *goquery.Document) (float64, int, bool) {
	var (
		weighted float64
		total    int
	)

	doc.Find(`[data-comp*="Histogram"] [role="row"]`).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("span")
		if cells.Length() < 2 {
			return
		}
		rating := format.ParseFloat(format.CleanText(cells.Eq(0).Text()), 0)
		count := format.ParseInt(format.CleanText(cells.Eq(1).Text()), 0)
		weighted += rating * float64(count)
		total += count
	})

	if total == 0 {
		return 0, 0, false
	}
	return weighted / float64(total), total, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
