package models

// ProductRecord is the root entity produced for one successfully parsed
// product page. Records are assembled once and never mutated afterwards;
// every field is serializable as plain JSON values.
type ProductRecord struct {
	Info       ProductInfo       `json:"info"`
	Variants   []ProductVariant  `json:"product_variants"`
	Reviews    []Review          `json:"reviews"`
	Questions  []Question        `json:"questions"`
	Statistics StatisticsSummary `json:"statistics"`
	SourceURL  string            `json:"source_url"`
}

type ProductInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Description string `json:"description"`
	IsAvailable bool   `json:"is_available"`
	Brand       string `json:"brand"`
	Price       string `json:"price"`
	LoveCount   int    `json:"love_count"`
}

type ProductVariant struct {
	VariantID          string `json:"variant_id"`
	VariantDescription string `json:"variant_description"`
	IsVariantAvailable bool   `json:"is_variant_available"`
	VariantName        string `json:"variant_name"`
	VariantImage       string `json:"variant_image"`
}

// Review holds one customer review. Rating is nil when the source carried
// no numeric rating; IsRecommended is nil when the page gave no signal
// either way. SubmittedAt is ISO-8601 when the raw date matched a known
// format, otherwise the raw text is kept as-is.
type Review struct {
	Rating              *float64 `json:"rating"`
	ReviewTitle         string   `json:"review_title"`
	ReviewText          string   `json:"review_text"`
	IsRecommended       *bool    `json:"is_recommended"`
	SubmittedAt         string   `json:"submitted_at"`
	Nickname            string   `json:"nickname,omitempty"`
	HelpfulVoteCount    int      `json:"helpful_vote_count"`
	NotHelpfulVoteCount int      `json:"not_helpful_vote_count"`
}

type Question struct {
	ProductID           string   `json:"product_id"`
	Question            string   `json:"question"`
	SubmittedAt         string   `json:"submitted_at"`
	Answers             []Answer `json:"answers"`
	HelpfulVoteCount    int      `json:"helpful_vote_count"`
	NotHelpfulVoteCount int      `json:"not_helpful_vote_count"`
}

type Answer struct {
	Answer      string `json:"answer"`
	SubmittedAt string `json:"submitted_at"`
	Author      string `json:"author,omitempty"`
}

// StatisticsSummary is derived data, never independently authoritative.
// Pointer fields are nil when the review list was empty so consumers can
// tell "no data" apart from a measured zero.
type StatisticsSummary struct {
	AverageRating          *float64 `json:"average_rating"`
	ReviewCount            int      `json:"review_count"`
	HelpfulVoteCount       *int     `json:"helpful_vote_count"`
	NotHelpfulVoteCount    *int     `json:"not_helpful_vote_count"`
	RecommendedReviewCount *int     `json:"recommended_review_count"`
}

func NewProductRecord(sourceURL string) *ProductRecord {
	return &ProductRecord{
		Variants:  make([]ProductVariant, 0),
		Reviews:   make([]Review, 0),
		Questions: make([]Question, 0),
		SourceURL: sourceURL,
	}
}
