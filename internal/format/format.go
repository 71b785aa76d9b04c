// Package format holds the scalar normalizers shared by every extractor:
// text cleanup, tolerant numeric parsing, suffix expansion, date
// normalization and product-ID inference. All functions are pure and
// degrade to a caller-supplied default instead of returning errors.
package format

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	numberWithSuffixRe = regexp.MustCompile(`^\s*([\d.,]+)\s*([kKmM]?)\s*$`)
	productIDRe        = regexp.MustCompile(`(P\d+)`)
	numericRunRe       = regexp.MustCompile(`[\d,.]+`)
)

// dateFormats is the fixed, ordered list of recognized date layouts.
// The first successful parse wins.
var dateFormats = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02",
}

// CleanText collapses runs of whitespace into single spaces and trims the
// result. Empty input stays empty.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ParseFloat parses a float out of loosely formatted text, stripping
// thousands separators. Returns def when the text is not numeric.
func ParseFloat(s string, def float64) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

// ParseInt parses an integer out of loosely formatted text, accepting
// float notation and thousands separators. Returns def on failure.
func ParseInt(s string, def int) int {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return int(v)
}

// ParseNumberWithSuffix expands popularity counts like "12.3k" or "2M"
// into integers (k multiplies by 1e3, m by 1e6, case-insensitive), rounded
// to the nearest integer. Returns def when the text does not match.
func ParseNumberWithSuffix(s string, def int) int {
	m := numberWithSuffixRe.FindStringSubmatch(s)
	if m == nil {
		return def
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return def
	}
	switch strings.ToLower(m[2]) {
	case "k":
		value *= 1_000
	case "m":
		value *= 1_000_000
	}
	return int(math.Round(value))
}

// ProductIDFromURL infers a product ID from a URL carrying the site's
// letter-prefix-plus-digits pattern, e.g. ".../P455369?skuId=...".
func ProductIDFromURL(url string) string {
	if m := productIDRe.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}

// NormalizeDate converts a date string matching one of the recognized
// layouts into ISO-8601. ok is false when no layout matched; the input is
// never an error condition.
func NormalizeDate(s string) (string, bool) {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02T15:04:05"), true
		}
	}
	return "", false
}

// ExtractNumeric returns the first run of digits, commas and dots in the
// text, e.g. "12.3" out of "12.3K loves". Empty when none is present.
func ExtractNumeric(s string) string {
	return numericRunRe.FindString(s)
}
