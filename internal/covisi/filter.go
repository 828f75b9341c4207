package covisi

import (
	"fmt"

	"github.com/hdsemg-data/motorunit.report/internal/emg"
	"github.com/hdsemg-data/motorunit.report/internal/monitoring"
)

// Override is a manual per-unit filtering decision that takes precedence
// over the threshold comparison.
type Override string

const (
	OverrideKeep   Override = "Keep"
	OverrideFilter Override = "Filter"
)

// Unit filtering statuses.
const (
	StatusKept    = "kept"
	StatusRemoved = "removed"
)

// FilterOptions configures FilterUnits.
type FilterOptions struct {
	// Threshold is the CoVISI cutoff in percent; units strictly above it are
	// removed. Callers normally pass DefaultThreshold.
	Threshold float64

	// Column is the table column the threshold applies to, ColumnAll or
	// ColumnSteady. Empty means ColumnAll.
	Column string

	// Overrides maps a motor-unit index to a manual decision. An override
	// wins regardless of the unit's numeric value, including NaN.
	Overrides map[int]Override
}

// Decision records the filtering outcome for one motor unit.
type Decision struct {
	MUIndex        int    `json:"mu_index"`
	CoVISI         Float  `json:"covisi"`
	Status         string `json:"status"`
	ManualOverride bool   `json:"manual_override"`
}

// FilterResult is the outcome of filtering one CoVISI table.
type FilterResult struct {
	Kept      []int
	Removed   []int
	Decisions []Decision
}

// FilterReport is the persistable summary of a filtering run, shaped like
// the pre-filter report envelope body.
type FilterReport struct {
	OriginalMUCount  int           `json:"original_mu_count"`
	FilteredMUCount  int           `json:"filtered_mu_count"`
	RemovedCount     int           `json:"removed_count"`
	ThresholdUsed    float64       `json:"threshold_used"`
	RemovedMUIndices []int         `json:"removed_mu_indices"`
	CoVISIValues     map[int]Float `json:"covisi_values"`
	Decisions        []Decision    `json:"decisions"`
}

// FilterUnits decides, for every motor unit in the table, whether it is kept
// or removed. A unit is kept when its CoVISI is at or below the threshold;
// NaN fails the comparison and is removed. Manual overrides take precedence
// in both directions. The input table is not modified.
func FilterUnits(t *Table, opts FilterOptions) (*FilterResult, error) {
	column := opts.Column
	if column == "" {
		column = ColumnAll
	}
	if column != ColumnAll && column != ColumnSteady {
		return nil, fmt.Errorf("filtering requires %s or %s, got %q", ColumnAll, ColumnSteady, column)
	}
	for idx, ov := range opts.Overrides {
		if ov != OverrideKeep && ov != OverrideFilter {
			return nil, fmt.Errorf("manual override for motor unit %d must be %q or %q, got %q",
				idx, OverrideKeep, OverrideFilter, ov)
		}
	}

	res := &FilterResult{
		Kept:      []int{},
		Removed:   []int{},
		Decisions: make([]Decision, 0, len(t.Rows)),
	}

	for i := range t.Rows {
		row := t.Rows[i]
		value, err := t.Value(column, i)
		if err != nil {
			return nil, err
		}

		var kept, manual bool
		if ov, ok := opts.Overrides[row.MUIndex]; ok {
			kept = ov == OverrideKeep
			manual = true
		} else {
			// NaN fails <= and the unit is treated as exceeding threshold.
			kept = value <= opts.Threshold
		}

		status := StatusRemoved
		if kept {
			status = StatusKept
			res.Kept = append(res.Kept, row.MUIndex)
		} else {
			res.Removed = append(res.Removed, row.MUIndex)
		}
		res.Decisions = append(res.Decisions, Decision{
			MUIndex:        row.MUIndex,
			CoVISI:         Float(value),
			Status:         status,
			ManualOverride: manual,
		})
	}

	monitoring.Logf("CoVISI filtering: %d MUs kept, %d MUs removed (threshold=%g%%)",
		len(res.Kept), len(res.Removed), opts.Threshold)
	if len(res.Kept) == 0 && len(t.Rows) > 0 {
		monitoring.Logf("all motor units were filtered out")
	}

	return res, nil
}

// Report summarises the result for persistence.
func (r *FilterResult) Report(threshold float64) *FilterReport {
	rep := &FilterReport{
		OriginalMUCount:  len(r.Decisions),
		FilteredMUCount:  len(r.Kept),
		RemovedCount:     len(r.Removed),
		ThresholdUsed:    threshold,
		RemovedMUIndices: append([]int{}, r.Removed...),
		CoVISIValues:     make(map[int]Float, len(r.Decisions)),
		Decisions:        append([]Decision{}, r.Decisions...),
	}
	for _, d := range r.Decisions {
		rep.CoVISIValues[d.MUIndex] = d.CoVISI
	}
	return rep
}

// FilterContainer computes CoVISI for every unit in the container, filters by
// the given options and returns the restructured container together with the
// filtering result. The input container is never mutated; with an empty
// removal set the returned container is a deep copy.
func FilterContainer(f *emg.File, computeOpts Options, filterOpts FilterOptions) (*emg.File, *FilterResult, error) {
	table, err := ComputeAll(f, computeOpts)
	if err != nil {
		return nil, nil, err
	}
	res, err := FilterUnits(table, filterOpts)
	if err != nil {
		return nil, nil, err
	}
	filtered, err := f.RemoveUnits(res.Removed)
	if err != nil {
		return nil, nil, err
	}
	return filtered, res, nil
}
