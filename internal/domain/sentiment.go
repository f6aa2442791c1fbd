package domain

// SentimentRecord is the pre-aggregated sentiment summary of one tracked entity.
// Averages are fractions of analyzed items and are not guaranteed to sum to 1.
type SentimentRecord struct {
	AveragePositive float64 `json:"AveragePositive"`
	AverageNeutral  float64 `json:"AverageNeutral"`
	AverageNegative float64 `json:"AverageNegative"`
	CountPositive   int     `json:"CountPositive"`
	CountNeutral    int     `json:"CountNeutral"`
	CountNegative   int     `json:"CountNegative"`
}

// TotalCount returns the number of analyzed items across all three categories.
func (r SentimentRecord) TotalCount() int {
	return r.CountPositive + r.CountNeutral + r.CountNegative
}

// Average returns the average for the given category.
func (r SentimentRecord) Average(c Category) float64 {
	switch c {
	case CategoryPositive:
		return r.AveragePositive
	case CategoryNeutral:
		return r.AverageNeutral
	case CategoryNegative:
		return r.AverageNegative
	default:
		return 0
	}
}

// Count returns the raw tally for the given category.
func (r SentimentRecord) Count(c Category) int {
	switch c {
	case CategoryPositive:
		return r.CountPositive
	case CategoryNeutral:
		return r.CountNeutral
	case CategoryNegative:
		return r.CountNegative
	default:
		return 0
	}
}

// Category is one of the three sentiment classes shown as a bar segment.
type Category string

const (
	CategoryPositive Category = "positive"
	CategoryNeutral  Category = "neutral"
	CategoryNegative Category = "negative"
)

// Categories lists the categories in bar order (left to right).
var Categories = []Category{CategoryPositive, CategoryNeutral, CategoryNegative}

// ParseCategory converts a string to a Category.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryPositive, CategoryNeutral, CategoryNegative:
		return Category(s), nil
	default:
		return "", ErrUnknownCategory
	}
}

// Label returns the capitalized display name of the category.
func (c Category) Label() string {
	switch c {
	case CategoryPositive:
		return "Positive"
	case CategoryNeutral:
		return "Neutral"
	case CategoryNegative:
		return "Negative"
	default:
		return "Unknown"
	}
}
