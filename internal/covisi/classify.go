package covisi

import "math"

// Category is a discrete quality band for a CoVISI value.
type Category string

const (
	CategoryUnknown   Category = "unknown"
	CategoryExcellent Category = "excellent"
	CategoryGood      Category = "good"
	CategoryMarginal  Category = "marginal"
	CategoryPoor      Category = "poor"
)

// Classify maps a CoVISI percentage to a quality category. Band boundaries
// are inclusive on the lower side: exactly 20.0 is excellent, exactly 30.0
// is good. NaN maps to unknown.
func Classify(covisi float64) Category {
	switch {
	case math.IsNaN(covisi):
		return CategoryUnknown
	case covisi <= 20:
		return CategoryExcellent
	case covisi <= 30:
		return CategoryGood
	case covisi <= 50:
		return CategoryMarginal
	default:
		return CategoryPoor
	}
}
