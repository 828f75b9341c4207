package covisi

import (
	"math"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		covisi float64
		want   Category
	}{
		{math.NaN(), CategoryUnknown},
		{0, CategoryExcellent},
		{12.5, CategoryExcellent},
		{20, CategoryExcellent}, // boundary belongs to the better band
		{20.001, CategoryGood},
		{30, CategoryGood},
		{30.001, CategoryMarginal},
		{50, CategoryMarginal},
		{50.001, CategoryPoor},
		{120, CategoryPoor},
	}

	for _, tt := range tests {
		if got := Classify(tt.covisi); got != tt.want {
			t.Errorf("Classify(%v) = %q, want %q", tt.covisi, got, tt.want)
		}
	}
}
