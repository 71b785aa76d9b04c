package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Inputs is the scrape job description loaded from a JSON file: the
// starting product and category URLs plus per-job knobs.
type Inputs struct {
	ProductURLs            []string `json:"product_urls"`
	CategoryURLs           []string `json:"category_urls"`
	IncludeSimilarProducts bool     `json:"include_similar_products"`
	MaxReviews             int      `json:"max_reviews"`
	MaxQuestions           int      `json:"max_questions"`
}

// LoadInputs reads and validates the job file at path. The root must
// be a JSON object and the URL fields, when present, must be lists of
// strings. Missing fields take zero values; callers apply their own
// defaults for the caps.
func LoadInputs(path string) (*Inputs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read inputs file: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("inputs file must contain a JSON object: %w", err)
	}

	inputs := &Inputs{}
	if err := json.Unmarshal(data, inputs); err != nil {
		return nil, fmt.Errorf("failed to decode inputs file: %w", err)
	}

	for _, key := range []string{"product_urls", "category_urls"} {
		msg, ok := raw[key]
		if !ok {
			continue
		}
		var urls []string
		if err := json.Unmarshal(msg, &urls); err != nil {
			return nil, fmt.Errorf("%s must be a list of strings", key)
		}
	}

	if inputs.MaxReviews < 0 {
		return nil, fmt.Errorf("max_reviews cannot be negative")
	}
	if inputs.MaxQuestions < 0 {
		return nil, fmt.Errorf("max_questions cannot be negative")
	}

	return inputs, nil
}
