package covisi

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// CoVISI computes the coefficient of variation of the inter-spike intervals
// of a single motor unit, in percent. The discharge times are sample indices
// in any order; they are sorted internally, so the result is order-invariant.
//
// The result is NaN when the statistic is undefined: fewer than two
// discharges (no interval), fewer than two intervals (no variance), or a
// non-positive mean interval. The standard deviation is the population form
// (divisor N, not N-1).
func CoVISI(discharges []float64) float64 {
	if len(discharges) < 2 {
		return math.NaN()
	}

	sorted := sortedCopy(discharges)

	isi := make([]float64, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		isi[i-1] = sorted[i] - sorted[i-1]
	}
	if len(isi) < 2 {
		return math.NaN()
	}

	mean := stat.Mean(isi, nil)
	if mean <= 0 {
		return math.NaN()
	}
	std := stat.PopStdDev(isi, nil)

	return std / mean * 100.0
}

// sortedCopy returns the discharge times sorted ascending without touching
// the input slice.
func sortedCopy(discharges []float64) []float64 {
	sorted := make([]float64, len(discharges))
	copy(sorted, discharges)
	sort.Float64s(sorted)
	return sorted
}

// recruitmentCoVISI computes CoVISI over the first nFirings discharges.
func recruitmentCoVISI(sorted []float64, nFirings int) float64 {
	if nFirings > len(sorted) {
		nFirings = len(sorted)
	}
	return CoVISI(sorted[:nFirings])
}

// derecruitmentCoVISI computes CoVISI over the last nFirings discharges.
func derecruitmentCoVISI(sorted []float64, nFirings int) float64 {
	if nFirings > len(sorted) {
		nFirings = len(sorted)
	}
	return CoVISI(sorted[len(sorted)-nFirings:])
}

// steadyCoVISI computes CoVISI over the discharges falling inside the
// [startSample, endSample] window (inclusive).
func steadyCoVISI(sorted []float64, startSample, endSample int) float64 {
	lo := sort.SearchFloat64s(sorted, float64(startSample))
	hi := sort.Search(len(sorted), func(i int) bool {
		return sorted[i] > float64(endSample)
	})
	if lo >= hi {
		return math.NaN()
	}
	return CoVISI(sorted[lo:hi])
}
