package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"sephora-scraper/internal/format"
	"sephora-scraper/internal/models"
)

// Variants extracts the product's variant list. Tier one walks the
// JSON-LD variant-or-offer list; tier two, used only when tier one yields
// nothing, scans the DOM for variant tiles.
func Variants(doc *goquery.Document, product map[string]interface{}) []models.ProductVariant {
	variants := variantsFromJSON(product)
	if len(variants) > 0 {
		return variants
	}
	return variantsFromDOM(doc)
}

func variantsFromJSON(product map[string]interface{}) []models.ProductVariant {
	if product == nil {
		return nil
	}

	entries := product["isVariantOf"]
	if entries == nil {
		entries = product["offers"]
	}
	list, ok := entries.([]interface{})
	if !ok {
		return nil
	}

	var variants []models.ProductVariant
	for idx, item := range list {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		id := stringValue(entry["sku"])
		if id == "" {
			id = stringValue(entry["productID"])
		}
		if id == "" {
			id = fmt.Sprintf("variant-%d", idx)
		}

		name := stringValue(entry["name"])
		if name == "" {
			name = stringValue(entry["description"])
		}
		name = format.CleanText(name)

		// Availability tokens are matched case-sensitively; anything
		// other than an explicit OutOfStock counts as available.
		available := true
		if availability, ok := entry["availability"].(string); ok && strings.Contains(availability, "OutOfStock") {
			available = false
		}

		variants = append(variants, models.ProductVariant{
			VariantID:          id,
			VariantDescription: name,
			IsVariantAvailable: available,
			VariantName:        name,
			VariantImage:       stringValue(entry["image"]),
		})
	}

	return variants
}

func variantsFromDOM(doc *goquery.Document) []models.ProductVariant {
	var variants []models.ProductVariant

	doc.Find(`[data-comp*="ProductVariant"]:not(script)`).Each(func(idx int, tile *goquery.Selection) {
		name, ok := markerText(tile, "sku_name")
		if !ok {
			name = tile.Find("span").First().Text()
		}
		name = format.CleanText(name)
		if name == "" {
			name = fmt.Sprintf("Variant %d", idx+1)
		}

		image, _ := tile.Find("img").First().Attr("src")

		variants = append(variants, models.ProductVariant{
			VariantID:          fmt.Sprintf("variant-%d", idx),
			VariantDescription: name,
			IsVariantAvailable: tile.Find(`[data-at="out_of_stock"]`).Length() == 0,
			VariantName:        name,
			VariantImage:       image,
		})
	})

	return variants
}
