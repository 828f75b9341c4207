package covisi

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// UnitComparison pairs one motor unit's CoVISI before and after manual
// cleaning. Alignment is positional by row order over the shorter table; if
// cleaning removed units non-contiguously the pairing may not refer to the
// same physical unit.
type UnitComparison struct {
	MUIndex            int   `json:"mu_index"`
	CoVISIPre          Float `json:"covisi_pre"`
	CoVISIPost         Float `json:"covisi_post"`
	ImprovementPercent Float `json:"improvement_percent"`
	ExceedsThreshold   bool  `json:"exceeds_threshold"`
}

// Comparison reconciles a pre-cleaning CoVISI table with a post-cleaning one.
type Comparison struct {
	PreMUCount            int              `json:"pre_mu_count"`
	PostMUCount           int              `json:"post_mu_count"`
	MUsRemoved            int              `json:"mus_removed"`
	AvgCoVISIPre          *float64         `json:"avg_covisi_pre"`
	AvgCoVISIPost         *float64         `json:"avg_covisi_post"`
	AvgImprovementPercent *float64         `json:"avg_improvement_percent"`
	MUsExceedingThreshold []int            `json:"mus_exceeding_threshold"`
	ThresholdUsed         float64          `json:"threshold_used"`
	Details               []UnitComparison `json:"comparison_details"`
}

// Compare computes per-unit and aggregate improvement metrics between two
// CoVISI tables. Neither input is modified.
//
// MUsRemoved is pre minus post row counts, reported as-is (negative when the
// post table grew). Per-unit improvement is defined only when both values are
// non-NaN and the pre value is positive. Aggregate means ignore NaN and are
// nil when no value is defined.
func Compare(pre, post *Table, threshold float64) *Comparison {
	cmp := &Comparison{
		PreMUCount:            pre.Len(),
		PostMUCount:           post.Len(),
		MUsRemoved:            pre.Len() - post.Len(),
		AvgCoVISIPre:          nanMean(columnAll(pre)),
		AvgCoVISIPost:         nanMean(columnAll(post)),
		MUsExceedingThreshold: []int{},
		ThresholdUsed:         threshold,
		Details:               []UnitComparison{},
	}

	for _, row := range post.Rows {
		v := float64(row.All)
		if !math.IsNaN(v) && v > threshold {
			cmp.MUsExceedingThreshold = append(cmp.MUsExceedingThreshold, row.MUIndex)
		}
	}

	n := pre.Len()
	if post.Len() < n {
		n = post.Len()
	}

	var improvements []float64
	for i := 0; i < n; i++ {
		preVal := float64(pre.Rows[i].All)
		postVal := float64(post.Rows[i].All)

		improvement := math.NaN()
		if !math.IsNaN(preVal) && !math.IsNaN(postVal) && preVal > 0 {
			improvement = (preVal - postVal) / preVal * 100
			improvements = append(improvements, improvement)
		}

		cmp.Details = append(cmp.Details, UnitComparison{
			MUIndex:            i,
			CoVISIPre:          Float(preVal),
			CoVISIPost:         Float(postVal),
			ImprovementPercent: Float(improvement),
			ExceedsThreshold:   !math.IsNaN(postVal) && postVal > threshold,
		})
	}

	cmp.AvgImprovementPercent = nanMean(improvements)
	return cmp
}

func columnAll(t *Table) []float64 {
	out := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, float64(row.All))
	}
	return out
}

// nanMean returns the mean of the defined values, or nil when none are
// defined.
func nanMean(values []float64) *float64 {
	defined := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			defined = append(defined, v)
		}
	}
	if len(defined) == 0 {
		return nil
	}
	mean := stat.Mean(defined, nil)
	return &mean
}
