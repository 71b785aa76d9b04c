package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"sephora-scraper/internal/format"
	"sephora-scraper/internal/models"
)

var outOfStockPhrases = []string{"out of stock", "sold out"}

// ProductInfo extracts the identity and marketing facts for a product
// page. Each field walks a fixed precedence chain: the JSON-LD product
// block, then page-level meta tags, then data-at marker elements, and for
// the ID finally the URL pattern. A later link is only consulted when the
// earlier ones produced nothing.
func ProductInfo(doc *goquery.Document, product map[string]interface{}, sourceURL string) models.ProductInfo {
	info := models.ProductInfo{}
	var available *bool

	if product != nil {
		info.ID = stringValue(product["sku"])
		if info.ID == "" {
			info.ID = stringValue(product["productID"])
		}
		info.Name = stringValue(product["name"])
		info.Description = stringValue(product["description"])
		info.Image = stringValue(product["image"])
		info.Brand = nestedName(product["brand"])
		info.Price, available = offerPrice(product["offers"])
	}

	if info.Name == "" {
		info.Name = metaContent(doc, `meta[property="og:title"]`)
	}
	if info.Name == "" {
		info.Name = metaContent(doc, `meta[name="title"]`)
	}
	if info.Description == "" {
		info.Description = metaContent(doc, `meta[name="description"]`)
	}
	if info.Image == "" {
		info.Image = metaContent(doc, `meta[property="og:image"]`)
	}

	if info.Brand == "" {
		if text, ok := markerText(doc.Selection, "brand_name"); ok {
			info.Brand = text
		}
	}
	if info.Price == "" {
		if text, ok := markerText(doc.Selection, "price"); ok {
			info.Price = text
		}
	}

	if text, ok := markerText(doc.Selection, "loves"); ok {
		info.LoveCount = format.ParseNumberWithSuffix(format.CleanText(text), 0)
	} else if data2 := metaContent(doc, `meta[name="twitter:data2"]`); data2 != "" {
		// Meta counts read like "88.1K loves"; the leading token is the count.
		if fields := strings.Fields(data2); len(fields) > 0 {
			info.LoveCount = format.ParseNumberWithSuffix(fields[0], 0)
		}
	}

	if available == nil {
		if doc.Find(`[data-at="out_of_stock"]`).Length() > 0 {
			v := false
			available = &v
		} else {
			v := pageSaysInStock(doc)
			available = &v
		}
	}
	info.IsAvailable = *available

	if info.ID == "" {
		info.ID = format.ProductIDFromURL(sourceURL)
	}

	info.Name = format.CleanText(info.Name)
	info.Description = format.CleanText(info.Description)
	info.Brand = format.CleanText(info.Brand)
	info.Price = format.CleanText(info.Price)

	return info
}

// offerPrice reads the price and availability out of a JSON-LD offers
// field, which may be a single offer object or a list (first offer wins).
// A nil availability means the offers carried no usable signal.
func offerPrice(offers interface{}) (string, *bool) {
	offer := firstOffer(offers)
	if offer == nil {
		return "", nil
	}

	price := stringValue(offer["price"])
	if price == "" {
		if spec, ok := offer["priceSpecification"].(map[string]interface{}); ok {
			price = stringValue(spec["price"])
		}
	}
	if price != "" {
		if currency := stringValue(offer["priceCurrency"]); currency != "" {
			price = price + " " + currency
		}
	}

	var available *bool
	if availability, ok := offer["availability"].(string); ok {
		if strings.Contains(availability, "InStock") {
			v := true
			available = &v
		} else if strings.Contains(availability, "OutOfStock") {
			v := false
			available = &v
		}
	}

	return price, available
}

func firstOffer(offers interface{}) map[string]interface{} {
	list := asList(offers)
	if len(list) == 0 {
		return nil
	}
	return list[0]
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

// pageSaysInStock is the whole-page fallback: the product counts as
// available unless the visible text carries an out-of-stock phrase.
func pageSaysInStock(doc *goquery.Document) bool {
	body := strings.ToLower(doc.Find("body").Text())
	for _, phrase := range outOfStockPhrases {
		if strings.Contains(body, phrase) {
			return false
		}
	}
	return true
}
