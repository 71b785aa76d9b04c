package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"sephora-scraper/internal/format"
	"sephora-scraper/internal/models"
)

// Reviews extracts the review list. Tier one reads the JSON-LD review
// entry or list; tier two scans the DOM for review containers. max caps
// the number of reviews collected from the DOM scan; zero means no cap.
func Reviews(doc *goquery.Document, product map[string]interface{}, max int) []models.Review {
	reviews := reviewsFromJSON(product)
	if len(reviews) > 0 {
		if max > 0 && len(reviews) > max {
			reviews = reviews[:max]
		}
		return reviews
	}
	return reviewsFromDOM(doc, max)
}

func reviewsFromJSON(product map[string]interface{}) []models.Review {
	if product == nil {
		return nil
	}

	entries := product["review"]
	if entries == nil {
		entries = product["reviews"]
	}

	var reviews []models.Review
	for _, entry := range asList(entries) {
		var rating *float64
		ratingRaw := entry["reviewRating"]
		if nested, ok := ratingRaw.(map[string]interface{}); ok {
			ratingRaw = nested["ratingValue"]
		}
		if v, ok := floatValue(ratingRaw); ok {
			rating = &v
		}

		title := stringValue(entry["name"])
		if title == "" {
			title = stringValue(entry["headline"])
		}

		reviews = append(reviews, models.Review{
			Rating:      rating,
			ReviewTitle: format.CleanText(title),
			ReviewText:  format.CleanText(stringValue(entry["reviewBody"])),
			SubmittedAt: normalizeOrRaw(stringValue(entry["datePublished"])),
			Nickname:    format.CleanText(nestedName(entry["author"])),
		})
	}

	return reviews
}

func reviewsFromDOM(doc *goquery.Document, max int) []models.Review {
	containers := doc.Find(`[data-comp*="Review"]:not(script)`)
	if containers.Length() == 0 {
		containers = doc.Find("article")
	}
	if containers.Length() == 0 {
		containers = doc.Find("li")
	}

	var reviews []models.Review
	containers.EachWithBreak(func(_ int, container *goquery.Selection) bool {
		// Containers with no rating signal at all are page furniture,
		// not reviews.
		if container.Find(`[data-at="review_rating"]`).Length() == 0 &&
			findStarLabel(container) == "" {
			return true
		}

		review := parseReviewContainer(container)
		if review.ReviewText != "" || review.ReviewTitle != "" {
			reviews = append(reviews, review)
		}

		return max <= 0 || len(reviews) < max
	})

	return reviews
}

func parseReviewContainer(container *goquery.Selection) models.Review {
	review := models.Review{}

	if text, ok := markerText(container, "review_rating"); ok {
		v := format.ParseFloat(format.CleanText(text), 0)
		review.Rating = &v
	} else if label := findStarLabel(container); label != "" {
		v := format.ParseFloat(format.CleanText(strings.Split(label, "out of 5")[0]), 0)
		review.Rating = &v
	}

	if text, ok := markerText(container, "review_title"); ok {
		review.ReviewTitle = format.CleanText(text)
	}
	if text, ok := markerText(container, "review_body"); ok {
		review.ReviewText = format.CleanText(text)
	}
	if text, ok := markerText(container, "review_author_name"); ok {
		review.Nickname = format.CleanText(text)
	}

	if text, ok := markerText(container, "review_recommendation"); ok {
		review.IsRecommended = parseRecommendation(text)
	}

	if text, ok := markerText(container, "review_date"); ok {
		review.SubmittedAt = normalizeOrRaw(format.CleanText(text))
	}

	if text, ok := markerText(container, "review_helpful_count"); ok {
		review.HelpfulVoteCount = format.ParseInt(format.CleanText(text), 0)
	}
	if text, ok := markerText(container, "review_not_helpful_count"); ok {
		review.NotHelpfulVoteCount = format.ParseInt(format.CleanText(text), 0)
	}

	return review
}

// findStarLabel returns the first accessible label in the container that
// carries an "out of 5" rating pattern.
func findStarLabel(container *goquery.Selection) string {
	var found string
	container.Find("span[aria-label]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		label, _ := s.Attr("aria-label")
		if strings.Contains(label, "out of 5") {
			found = label
			return false
		}
		return true
	})
	return found
}

// parseRecommendation maps a recommendation marker's text to a tri-state
// flag. The negative phrasing is checked first because "not recommended"
// contains "recommended".
func parseRecommendation(text string) *bool {
	text = strings.ToLower(format.CleanText(text))
	switch {
	case strings.Contains(text, "not recommended"):
		v := false
		return &v
	case strings.Contains(text, "yes") || strings.Contains(text, "recommended"):
		v := true
		return &v
	case strings.Contains(text, "no"):
		v := false
		return &v
	default:
		return nil
	}
}

// normalizeOrRaw converts a date to ISO-8601 when it matches a recognized
// layout and keeps the raw text otherwise.
func normalizeOrRaw(raw string) string {
	if normalized, ok := format.NormalizeDate(raw); ok {
		return normalized
	}
	return raw
}
