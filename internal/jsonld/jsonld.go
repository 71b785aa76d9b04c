// Package jsonld locates and parses the JSON-LD metadata islands embedded
// in product pages. Individual malformed blocks are skipped; the scan
// itself never fails.
package jsonld

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const productType = "Product"

// Blocks returns every JSON-LD object found in the document's
// script[type="application/ld+json"] tags, in document order. A block
// whose raw text fails to parse is re-tried wrapped in array brackets,
// which repairs the common concatenated-sibling-objects case; if that
// also fails the block is dropped silently. Top-level arrays are
// flattened into their object elements.
func Blocks(doc *goquery.Document) []map[string]interface{} {
	var blocks []map[string]interface{}

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}

		var data interface{}
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			if err := json.Unmarshal([]byte("["+raw+"]"), &data); err != nil {
				return
			}
		}

		switch v := data.(type) {
		case map[string]interface{}:
			blocks = append(blocks, v)
		case []interface{}:
			for _, item := range v {
				if obj, ok := item.(map[string]interface{}); ok {
					blocks = append(blocks, obj)
				}
			}
		}
	})

	return blocks
}

// FindProduct returns the first block whose @type is "Product", either
// directly or within a type list. A nil result means no product block was
// present, which is not an error.
func FindProduct(blocks []map[string]interface{}) map[string]interface{} {
	for _, block := range blocks {
		switch t := block["@type"].(type) {
		case string:
			if t == productType {
				return block
			}
		case []interface{}:
			for _, item := range t {
				if s, ok := item.(string); ok && s == productType {
					return block
				}
			}
		}
	}
	return nil
}
