package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"already clean", "Rare Beauty", "Rare Beauty"},
		{"collapses runs", "Soft   Pinch\t\tLiquid\n Blush", "Soft Pinch Liquid Blush"},
		{"trims ends", "  matte lipstick  ", "matte lipstick"},
		{"only whitespace", " \n\t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}

func TestParseFloat(t *testing.T) {
	assert.Equal(t, 4.5, ParseFloat("4.5", 0))
	assert.Equal(t, 1234.5, ParseFloat("1,234.5", 0))
	assert.Equal(t, 3.0, ParseFloat(" 3 ", 0))
	assert.Equal(t, 9.9, ParseFloat("not a number", 9.9))
	assert.Equal(t, 0.0, ParseFloat("", 0))
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 42, ParseInt("42", 0))
	assert.Equal(t, 1200, ParseInt("1,200", 0))
	assert.Equal(t, 4, ParseInt("4.7", 0))
	assert.Equal(t, -1, ParseInt("votes", -1))
}

func TestParseNumberWithSuffix(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"plain number", "450", 450},
		{"k suffix", "12.3k", 12300},
		{"uppercase K", "12.3K", 12300},
		{"m suffix", "2M", 2000000},
		{"lowercase m", "1.5m", 1500000},
		{"thousands separators", "1,200", 1200},
		{"comma with suffix", "1,2k", 12000},
		{"surrounding whitespace", " 88k ", 88000},
		{"rounds to nearest", "1.2345k", 1235},
		{"not a count", "loves", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseNumberWithSuffix(tt.input, 0))
		})
	}
}

func TestProductIDFromURL(t *testing.T) {
	assert.Equal(t, "P455369", ProductIDFromURL("https://www.sephora.com/product/some-blush-P455369?skuId=2362101"))
	assert.Equal(t, "P12", ProductIDFromURL("/product/x-P12"))
	assert.Equal(t, "", ProductIDFromURL("https://www.sephora.com/shop/face-makeup"))
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"abbreviated month", "Jan 5, 2024", "2024-01-05T00:00:00", true},
		{"full month", "September 12, 2023", "2023-09-12T00:00:00", true},
		{"iso date", "2023-11-30", "2023-11-30T00:00:00", true},
		{"unrecognized", "5 days ago", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeDate(tt.input)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalizeDateRoundTrips(t *testing.T) {
	// The three layouts must all land on the same calendar date.
	for _, raw := range []string{"Nov 30, 2023", "November 30, 2023", "2023-11-30"} {
		got, ok := NormalizeDate(raw)
		require.True(t, ok, raw)
		assert.Equal(t, "2023-11-30T00:00:00", got)
	}
}

func TestExtractNumeric(t *testing.T) {
	assert.Equal(t, "12.3", ExtractNumeric("12.3K loves"))
	assert.Equal(t, "1,200", ExtractNumeric("about 1,200 reviews"))
	assert.Equal(t, "", ExtractNumeric("no digits here"))
}
